package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/canconnect/internal/config"
	"github.com/localnerve/canconnect/internal/logger"
	"github.com/localnerve/canconnect/internal/services"
	"github.com/localnerve/canconnect/internal/store"
)

// HealthHandler reports whether the record store is reachable
type HealthHandler struct {
	Config  *config.Config
	Backend store.Backend
	Log     logger.Logger
}

// Health handles GET /api/health
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	result := services.HealthCheck(c.UserContext(), h.Config, h.Backend, h.Log)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
