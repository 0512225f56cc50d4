// Package middleware provides the HTTP middleware chain.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"professor-ai-api/pkg/errors"
	"professor-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery converts panics into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := string(debug.Stack())

				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", err),
					"stack", stack,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    errors.CodeInternalError,
					"message": "internal server error",
				})
			}
		}()

		c.Next()
	}
}
