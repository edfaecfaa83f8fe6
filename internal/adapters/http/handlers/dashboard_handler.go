package handlers

import (
	"expensehub/internal/core/services"
	"expensehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Admin returns the admin dashboard
// @Summary Admin dashboard
// @Description Get organization-wide expense and user statistics
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/admin [get]
func (h *DashboardHandler) Admin(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetAdminDashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}

// Me returns the employee dashboard for the current user
// @Summary My dashboard
// @Description Get the authenticated user's expense summary
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/me [get]
func (h *DashboardHandler) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	data, err := h.dashboardService.GetEmployeeDashboard(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}
