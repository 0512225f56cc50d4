// Package errors provides the application error taxonomy.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode identifies an error class.
type ErrorCode string

// Predefined error codes.
const (
	// Generic (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeNotFound           ErrorCode = "1004"
	CodeConflict           ErrorCode = "1005"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"

	// Session (3xxx)
	CodeSessionNotFound ErrorCode = "3001"
	CodeTaskNotFound    ErrorCode = "3002"
	CodeContextNotFound ErrorCode = "3003"

	// Business (4xxx)
	CodeValidationFailed  ErrorCode = "4001"
	CodeInvalidTransition ErrorCode = "4002"
	CodeLLMCallFailed     ErrorCode = "4003"
	CodeUnsupportedFormat ErrorCode = "4004"
	CodeExtractionFailed  ErrorCode = "4005"
	CodeExportFailed      ErrorCode = "4006"

	// External services (5xxx)
	CodeLLMProviderError  ErrorCode = "5001"
	CodeSessionStoreError ErrorCode = "5002"
)

// AppError is the application error carried across layers.
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	Fields     []string  `json:"fields,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches free-form detail text.
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// WithFields attaches the names of the offending request fields.
func (e *AppError) WithFields(fields ...string) *AppError {
	e.Fields = append(e.Fields, fields...)
	return e
}

// WithError attaches the underlying cause.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New creates an AppError for the given code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap wraps an underlying error into an AppError.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam, CodeUnsupportedFormat:
		return http.StatusBadRequest
	case CodeValidationFailed, CodeExtractionFailed:
		return http.StatusUnprocessableEntity
	case CodeNotFound, CodeSessionNotFound, CodeTaskNotFound, CodeContextNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvalidTransition:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case CodeLLMCallFailed, CodeLLMProviderError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors.
var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrConflict           = New(CodeConflict, "resource conflict")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")

	ErrSessionNotFound = New(CodeSessionNotFound, "session not found")
	ErrTaskNotFound    = New(CodeTaskNotFound, "unknown task kind")
	ErrContextNotFound = New(CodeContextNotFound, "no uploaded context")

	ErrValidationFailed  = New(CodeValidationFailed, "validation failed")
	ErrInvalidTransition = New(CodeInvalidTransition, "action not allowed in current state")
	ErrLLMCallFailed     = New(CodeLLMCallFailed, "LLM call failed")
	ErrUnsupportedFormat = New(CodeUnsupportedFormat, "unsupported file format")
	ErrExtractionFailed  = New(CodeExtractionFailed, "file extraction failed")
	ErrExportFailed      = New(CodeExportFailed, "document export failed")
)

// IsAppError reports whether err is an AppError.
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError converts err to an AppError, wrapping unknown errors.
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}
