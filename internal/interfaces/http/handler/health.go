package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	checks map[string]func() error
}

// NewHealthHandler creates a health handler. Checks are named probes
// that each dependency registers (database ping, broker, cache).
func NewHealthHandler(checks map[string]func() error) *HealthHandler {
	if checks == nil {
		checks = make(map[string]func() error)
	}
	return &HealthHandler{checks: checks}
}

// RegisterRoutes registers the health endpoints on the engine root
func (h *HealthHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/health", h.Live)
	engine.GET("/ready", h.Ready)
}

// Live handles GET /health
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /ready, running every registered dependency check
func (h *HealthHandler) Ready(c *gin.Context) {
	failures := make(map[string]string)
	for name, check := range h.checks {
		if err := check(); err != nil {
			failures[name] = err.Error()
		}
	}

	if len(failures) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "failures": failures})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
