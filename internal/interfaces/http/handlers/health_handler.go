package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker verifies one downstream dependency.
type HealthChecker func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checkers map[string]HealthChecker
}

// NewHealthHandler creates the handler with named dependency checks.
func NewHealthHandler(checkers map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{checkers: checkers}
}

// Liveness reports that the process is up.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness verifies every registered dependency with a bounded check.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checkers))
	for name, check := range h.checkers {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": results})
}
