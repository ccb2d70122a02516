package handlers

import (
	"time"

	"generate-recruit/internal/config"
	"generate-recruit/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startTime: time.Now()}
}

// Root returns a service banner
// @Summary Service banner
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.Success(c, "Generate recruitment portal API", fiber.Map{
		"service": "generate-recruit",
		"docs":    "/swagger/index.html",
	})
}

// APIInfo returns the API version banner
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return response.Success(c, "API v1", fiber.Map{
		"version": "v1",
	})
}

// Check returns service health
// @Summary Health check
// @Description Check service and database health
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "up"
	if err := config.HealthCheck(); err != nil {
		dbStatus = "down"
		return response.Error(c, fiber.StatusServiceUnavailable, "database unreachable")
	}

	return response.Success(c, "Service healthy", fiber.Map{
		"status":   "ok",
		"database": dbStatus,
		"uptime":   time.Since(h.startTime).Round(time.Second).String(),
	})
}
