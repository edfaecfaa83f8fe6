package handlers

import (
	"expensehub/internal/config"
	"expensehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Check returns service health
// @Summary Health check
// @Description Check service and database health
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := config.HealthCheck(); err != nil {
		dbStatus = "unreachable"
	}

	return response.Success(c, "Service is healthy", fiber.Map{
		"status":   "ok",
		"database": dbStatus,
	})
}
