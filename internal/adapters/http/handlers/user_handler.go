package handlers

import (
	"errors"
	"strconv"

	"expensehub/internal/adapters/persistence/models"
	"expensehub/internal/core/services"
	"expensehub/internal/pkg/pagination"
	"expensehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints (admin surface)
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// AdminResetPasswordRequest represents an admin password reset body
type AdminResetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// List lists users
// @Summary List users
// @Description List all user accounts with pagination
// @Tags Users
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	items := make([]*models.UserResponse, len(users))
	for i, u := range users {
		items[i] = u.ToResponse()
	}

	return response.Success(c, "Users retrieved successfully", fiber.Map{
		"users":      items,
		"pagination": pagination.GetMeta(params, total),
	})
}

// Get gets one user
// @Summary Get user
// @Description Get a user account by ID
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// Update updates a user
// @Summary Update user
// @Description Update a user's profile, role, or active flag
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body services.UpdateUserInput true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.Update(c.Context(), uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.BadRequest(c, "Invalid user data")
		}
	}

	return response.Success(c, "User updated successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// ResetPassword sets a new password for a user
// @Summary Reset user password
// @Description Set a new password for a locked-out account
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body AdminResetPasswordRequest true "New password"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/reset-password [post]
func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req AdminResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	err = h.userService.ResetUserPassword(c.Context(), uint(id), req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, "Password must be at least 8 characters")
		default:
			return response.InternalServerError(c, "Failed to reset password")
		}
	}

	return response.Success(c, "Password reset successfully", nil)
}

// Deactivate deletes a user account
// @Summary Deactivate user
// @Description Soft delete a user account
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.userService.Deactivate(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to deactivate user")
	}

	return response.Success(c, "User deactivated successfully", nil)
}

// Stats returns the user directory breakdown
// @Summary User statistics
// @Description Get user counts by role and department
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/stats [get]
func (h *UserHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.userService.GetStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get user statistics")
	}

	return response.Success(c, "User statistics retrieved successfully", fiber.Map{
		"stats": stats,
	})
}
