package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
)

// HealthCheck is a named dependency probe
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler reports service and dependency health
type HealthHandler struct {
	checks []HealthCheck
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health runs every probe and answers 503 when any fails
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{}
	healthy := true
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			status[check.Name] = err.Error()
			healthy = false
			continue
		}
		status[check.Name] = "ok"
	}

	data := gin.H{"status": "healthy", "checks": status}
	if !healthy {
		data["status"] = "degraded"
		response.ServiceUnavailable(c, "Service is degraded", data)
		return
	}
	response.OK(c, "Service is healthy", data)
}
