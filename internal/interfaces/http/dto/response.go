// Package dto provides HTTP layer data transfer objects.
package dto

import (
	"github.com/gin-gonic/gin"
)

// Response is the uniform success envelope.
type Response[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorDetail carries structured error information.
type ErrorDetail struct {
	ErrorCode string   `json:"error_code,omitempty"`
	Details   string   `json:"details,omitempty"`
	Fields    []string `json:"fields,omitempty"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Error   *ErrorDetail `json:"error,omitempty"`
	TraceID string       `json:"trace_id,omitempty"`
}

// Success writes a 200 success response.
func Success[T any](c *gin.Context, data T) {
	c.JSON(200, Response[T]{
		Code:    200,
		Message: "success",
		Data:    data,
		TraceID: c.GetString("trace_id"),
	})
}

// Created writes a 201 response.
func Created[T any](c *gin.Context, data T) {
	c.JSON(201, Response[T]{
		Code:    201,
		Message: "created",
		Data:    data,
		TraceID: c.GetString("trace_id"),
	})
}

// NoContent writes a 204 response.
func NoContent(c *gin.Context) {
	c.Status(204)
}

// Error writes an error response.
func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, ErrorResponse{
		Code:    httpCode,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// ErrorWithDetail writes an error response with structured detail.
func ErrorWithDetail(c *gin.Context, httpCode int, message string, detail *ErrorDetail) {
	c.JSON(httpCode, ErrorResponse{
		Code:    httpCode,
		Message: message,
		Error:   detail,
		TraceID: c.GetString("trace_id"),
	})
}

// BadRequest writes a 400 error.
func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

// NotFound writes a 404 error.
func NotFound(c *gin.Context, message string) {
	Error(c, 404, message)
}

// InternalError writes a 500 error.
func InternalError(c *gin.Context, message string) {
	Error(c, 500, message)
}
