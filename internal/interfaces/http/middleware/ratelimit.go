package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds rate limiter settings.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond int
}

// RateLimiter is the limiter the middleware depends on. Implementations
// own the storage key derived from client and endpoint.
type RateLimiter interface {
	Allow(ctx context.Context, clientIP, endpoint string, limit int, window time.Duration) (bool, error)
	Remaining(ctx context.Context, clientIP, endpoint string, limit int, window time.Duration) (int, error)
}

// RateLimit limits requests per client IP and path, reporting the quota in
// X-RateLimit headers. A limiter failure lets the request through rather
// than blocking traffic.
func RateLimit(cfg RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 100
	}
	limitHeader := strconv.Itoa(cfg.RequestsPerSecond)

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		clientIP := c.ClientIP()
		endpoint := c.Request.URL.Path

		allowed, err := limiter.Allow(ctx, clientIP, endpoint, cfg.RequestsPerSecond, time.Second)
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", limitHeader)
		if remaining, err := limiter.Remaining(ctx, clientIP, endpoint, cfg.RequestsPerSecond, time.Second); err == nil {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}

		if !allowed {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":     429,
				"message":  "rate limit exceeded",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Next()
	}
}
