package handlers

import (
	"errors"
	"strconv"

	"expensehub/internal/adapters/persistence/models"
	"expensehub/internal/core/domain"
	"expensehub/internal/core/services"
	"expensehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApprovalHandler handles approval workflow endpoints
type ApprovalHandler struct {
	approvalService *services.ApprovalService
}

// NewApprovalHandler creates a new approval handler
func NewApprovalHandler(approvalService *services.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

// ApproveRequest represents approval body
type ApproveRequest struct {
	Comments string `json:"comments"`
}

// RejectRequest represents rejection body
type RejectRequest struct {
	Reason string `json:"reason"`
}

// Pending lists claims awaiting the caller's approval
// @Summary Pending approvals
// @Description List expense claims awaiting action at a level the caller can act at
// @Tags Approvals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /approvals/pending [get]
func (h *ApprovalHandler) Pending(c *fiber.Ctx) error {
	_, role, ok := requesterFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	expenses, err := h.approvalService.GetPendingApprovals(c.Context(), role)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "Your role has no approval authority")
		}
		return response.InternalServerError(c, "Failed to list pending approvals")
	}

	items := make([]*models.ExpenseResponse, len(expenses))
	for i, e := range expenses {
		items[i] = e.ToResponse()
	}

	return response.Success(c, "Pending approvals retrieved successfully", fiber.Map{
		"expenses": items,
	})
}

// Approve signs off the active approval step
// @Summary Approve expense
// @Description Approve the expense claim's active step; the claim advances or completes
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path int true "Expense ID"
// @Param body body ApproveRequest false "Optional comments"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /approvals/{id}/approve [post]
func (h *ApprovalHandler) Approve(c *fiber.Ctx) error {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid expense ID")
	}

	var req ApproveRequest
	_ = c.BodyParser(&req)

	expense, err := h.approvalService.Approve(c.Context(), uint(id), userID, role, req.Comments)
	if err != nil {
		return approvalError(c, err, "Failed to approve expense")
	}

	return response.Success(c, "Expense approved successfully", fiber.Map{
		"expense": expense.ToResponse(),
	})
}

// Reject turns down the claim at its active step
// @Summary Reject expense
// @Description Reject the expense claim; rejection is final
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path int true "Expense ID"
// @Param body body RejectRequest true "Rejection reason"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /approvals/{id}/reject [post]
func (h *ApprovalHandler) Reject(c *fiber.Ctx) error {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid expense ID")
	}

	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	expense, err := h.approvalService.Reject(c.Context(), uint(id), userID, role, req.Reason)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Rejection reason is required")
		}
		return approvalError(c, err, "Failed to reject expense")
	}

	return response.Success(c, "Expense rejected", fiber.Map{
		"expense": expense.ToResponse(),
	})
}

// History returns the approval trail of a claim
// @Summary Workflow history
// @Description Get the full approval trail of an expense claim
// @Tags Approvals
// @Produce json
// @Param id path int true "Expense ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /approvals/{id}/history [get]
func (h *ApprovalHandler) History(c *fiber.Ctx) error {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid expense ID")
	}

	expense, err := h.approvalService.GetWorkflowHistory(c.Context(), uint(id), userID, role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpenseNotFound):
			return response.NotFound(c, "Expense not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You cannot view this expense")
		default:
			return response.InternalServerError(c, "Failed to get workflow history")
		}
	}

	return response.Success(c, "Workflow history retrieved successfully", fiber.Map{
		"expense_id":        expense.ExpenseID,
		"status":            expense.Status,
		"current_level":     expense.CurrentLevel,
		"approval_workflow": expense.Steps,
		"rejected_at":       expense.RejectedAt,
		"reject_reason":     expense.RejectReason,
	})
}

// approvalError maps workflow errors to HTTP responses
func approvalError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrExpenseNotFound):
		return response.NotFound(c, "Expense not found")
	case errors.Is(err, domain.ErrWrongLevel):
		return response.Forbidden(c, "Your role cannot act at the current approval level")
	case errors.Is(err, domain.ErrNoPendingStep):
		return response.BadRequest(c, "No pending approval step for this expense")
	case errors.Is(err, domain.ErrWorkflowConflict):
		return response.Conflict(c, "Expense was updated concurrently, please reload")
	default:
		return response.InternalServerError(c, fallback)
	}
}
