package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type stubLimiter struct {
	allowed   bool
	remaining int
	err       error
	lastKey   string
}

func (s *stubLimiter) Allow(_ context.Context, clientIP, endpoint string, _ int, _ time.Duration) (bool, error) {
	s.lastKey = clientIP + ":" + endpoint
	return s.allowed, s.err
}

func (s *stubLimiter) Remaining(_ context.Context, _, _ string, _ int, _ time.Duration) (int, error) {
	return s.remaining, s.err
}

func rateLimitedEngine(cfg RateLimitConfig, limiter RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RateLimit(cfg, limiter))
	engine.GET("/v1/catalog", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func doRateLimited(engine *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/catalog", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRateLimitAllowedSetsHeaders(t *testing.T) {
	limiter := &stubLimiter{allowed: true, remaining: 7}
	engine := rateLimitedEngine(RateLimitConfig{Enabled: true, RequestsPerSecond: 10}, limiter)

	w := doRateLimited(engine)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("X-RateLimit-Limit"); got != "10" {
		t.Fatalf("limit header = %q", got)
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != "7" {
		t.Fatalf("remaining header = %q", got)
	}
	if limiter.lastKey == "" {
		t.Fatalf("limiter never called")
	}
}

func TestRateLimitDenied(t *testing.T) {
	limiter := &stubLimiter{allowed: false, remaining: 0}
	engine := rateLimitedEngine(RateLimitConfig{Enabled: true, RequestsPerSecond: 10}, limiter)

	w := doRateLimited(engine)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("retry header = %q", got)
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("remaining header = %q", got)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: fmt.Errorf("redis down")}
	engine := rateLimitedEngine(RateLimitConfig{Enabled: true, RequestsPerSecond: 10}, limiter)

	if w := doRateLimited(engine); w.Code != http.StatusOK {
		t.Fatalf("limiter failure must not block traffic, status = %d", w.Code)
	}
}

func TestRateLimitDisabledPassThrough(t *testing.T) {
	limiter := &stubLimiter{allowed: false}
	engine := rateLimitedEngine(RateLimitConfig{Enabled: false}, limiter)

	w := doRateLimited(engine)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if limiter.lastKey != "" {
		t.Fatalf("limiter called while disabled")
	}
}
