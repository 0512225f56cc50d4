package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"professor-ai-api/internal/config"
	"professor-ai-api/internal/infrastructure/persistence/redis"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	cfg   *config.Config
	redis *redis.Client
}

// NewHealthHandler creates the health handler. redisClient is nil when the
// memory session store is configured.
func NewHealthHandler(cfg *config.Config, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		cfg:   cfg,
		redis: redisClient,
	}
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health reports basic process health.
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok"}
	if h != nil && h.cfg != nil {
		resp.Version = h.cfg.App.Version
	}
	c.JSON(http.StatusOK, resp)
}

// Live reports liveness.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready reports whether the service can take traffic. Redis is checked
// only when the redis session store is in use.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{}
	ready := true

	if h != nil && h.redis != nil {
		check := &readinessCheck{Status: "unknown"}
		checks["redis"] = check

		start := time.Now()
		err := h.redis.HealthCheck(ctx)
		check.LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			check.Status = "error"
			check.Error = err.Error()
			ready = false
		} else {
			check.Status = "ok"
		}
	}

	resp := readinessResponse{
		Status: "ok",
		Checks: checks,
	}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
