package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"expensehub/internal/adapters/persistence/models"
	"expensehub/internal/config"
	"expensehub/internal/core/domain"
	"expensehub/internal/core/services"
	"expensehub/internal/pkg/pagination"
	"expensehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ExpenseHandler handles expense claim endpoints
type ExpenseHandler struct {
	expenseService *services.ExpenseService
	cfg            *config.Config
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *services.ExpenseService, cfg *config.Config) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		cfg:            cfg,
	}
}

// SubmitExpenseRequest represents expense submission body
type SubmitExpenseRequest struct {
	CategoryID  uint    `json:"category_id" form:"category_id"`
	Amount      float64 `json:"amount" form:"amount"`
	Date        string  `json:"date" form:"date"`
	Vendor      string  `json:"vendor" form:"vendor"`
	Description string  `json:"description" form:"description"`
}

// CommentRequest represents a comment body
type CommentRequest struct {
	Message string `json:"message"`
}

// PaymentRequest represents payment processing body
type PaymentRequest struct {
	PaymentMethod    string `json:"payment_method"`
	PaymentReference string `json:"payment_reference"`
}

func requesterFromContext(c *fiber.Ctx) (uint, domain.Role, bool) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return 0, "", false
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		return 0, "", false
	}
	return userID, domain.Role(role), true
}

// Submit handles expense submission with an optional receipt file
// @Summary Submit expense claim
// @Description Submit a new expense claim; the approval workflow is derived from the amount
// @Tags Expenses
// @Accept multipart/form-data
// @Produce json
// @Param category_id formData int true "Category ID"
// @Param amount formData number true "Amount"
// @Param date formData string false "Expense date (YYYY-MM-DD)"
// @Param vendor formData string true "Vendor"
// @Param description formData string true "Description"
// @Param receipt formData file false "Receipt image or PDF"
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /expenses [post]
func (h *ExpenseHandler) Submit(c *fiber.Ctx) error {
	userID, _, ok := requesterFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req SubmitExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.CategoryID == 0 {
		return response.BadRequest(c, "Category is required")
	}
	if req.Amount <= 0 {
		return response.BadRequest(c, "Amount must be greater than zero")
	}
	if strings.TrimSpace(req.Vendor) == "" {
		return response.BadRequest(c, "Vendor is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return response.BadRequest(c, "Description is required")
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return response.BadRequest(c, "Date must be in YYYY-MM-DD format")
		}
		date = parsed
	}

	// Optional receipt upload
	receiptPath := ""
	if file, err := c.FormFile("receipt"); err == nil && file != nil {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		switch ext {
		case ".jpg", ".jpeg", ".png", ".pdf":
		default:
			return response.BadRequest(c, "Receipt must be a JPG, PNG, or PDF file")
		}
		if file.Size > 5*1024*1024 {
			return response.BadRequest(c, "Receipt must be smaller than 5MB")
		}

		receiptPath = filepath.Join(h.cfg.UploadDir, fmt.Sprintf("%s%s", uuid.NewString(), ext))
		if err := c.SaveFile(file, receiptPath); err != nil {
			return response.InternalServerError(c, "Failed to store receipt")
		}
	}

	input := &services.SubmitExpenseInput{
		EmployeeID:  userID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Date:        date,
		Vendor:      strings.TrimSpace(req.Vendor),
		Description: strings.TrimSpace(req.Description),
		Receipt:     receiptPath,
	}

	expense, report, err := h.expenseService.Submit(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Category not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid expense data")
		default:
			return response.InternalServerError(c, "Failed to submit expense")
		}
	}

	return response.Created(c, "Expense submitted successfully", fiber.Map{
		"expense":    expense.ToResponse(),
		"compliance": report,
	})
}

// List handles expense listing
// @Summary List expenses
// @Description List expense claims; employees see only their own
// @Tags Expenses
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /expenses [get]
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	expenses, total, err := h.expenseService.List(c.Context(), userID, role, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list expenses")
	}

	items := make([]*models.ExpenseResponse, len(expenses))
	for i, e := range expenses {
		items[i] = e.ToResponse()
	}

	return response.Success(c, "Expenses retrieved successfully", fiber.Map{
		"expenses":   items,
		"pagination": pagination.GetMeta(params, total),
	})
}

// Get handles fetching one expense
// @Summary Get expense
// @Description Get an expense claim with its approval workflow and comments
// @Tags Expenses
// @Produce json
// @Param id path int true "Expense ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) Get(c *fiber.Ctx) error {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid expense ID")
	}

	expense, err := h.expenseService.GetByID(c.Context(), uint(id), userID, role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpenseNotFound):
			return response.NotFound(c, "Expense not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You cannot view this expense")
		default:
			return response.InternalServerError(c, "Failed to get expense")
		}
	}

	return response.Success(c, "Expense retrieved successfully", fiber.Map{
		"expense":  expense.ToResponse(),
		"comments": expense.Comments,
	})
}

// AddComment handles adding a comment to an expense
// @Summary Comment on expense
// @Description Add a discussion comment to an expense claim
// @Tags Expenses
// @Accept json
// @Produce json
// @Param id path int true "Expense ID"
// @Param body body CommentRequest true "Comment"
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /expenses/{id}/comments [post]
func (h *ExpenseHandler) AddComment(c *fiber.Ctx) error {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid expense ID")
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	comment, err := h.expenseService.AddComment(c.Context(), uint(id), userID, role, strings.TrimSpace(req.Message))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Comment message is required")
		case errors.Is(err, domain.ErrExpenseNotFound):
			return response.NotFound(c, "Expense not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You cannot comment on this expense")
		default:
			return response.InternalServerError(c, "Failed to add comment")
		}
	}

	return response.Created(c, "Comment added successfully", fiber.Map{
		"comment": comment,
	})
}

// ProcessPayment handles payment of an approved expense
// @Summary Process payment
// @Description Settle a fully approved expense claim
// @Tags Expenses
// @Accept json
// @Produce json
// @Param id path int true "Expense ID"
// @Param body body PaymentRequest true "Payment details"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /expenses/{id}/payment [post]
func (h *ExpenseHandler) ProcessPayment(c *fiber.Ctx) error {
	userID, _, ok := requesterFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid expense ID")
	}

	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.PaymentMethod == "" {
		return response.BadRequest(c, "Payment method is required")
	}

	expense, err := h.expenseService.ProcessPayment(c.Context(), uint(id), userID, req.PaymentMethod, req.PaymentReference)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpenseNotFound):
			return response.NotFound(c, "Expense not found")
		case errors.Is(err, domain.ErrInvalidState):
			return response.BadRequest(c, "Only approved expenses can be paid")
		case errors.Is(err, domain.ErrWorkflowConflict):
			return response.Conflict(c, "Expense was paid concurrently")
		default:
			return response.InternalServerError(c, "Failed to process payment")
		}
	}

	return response.Success(c, "Payment processed successfully", fiber.Map{
		"expense": expense.ToResponse(),
	})
}

// Stats handles the current user's expense statistics
// @Summary My expense statistics
// @Description Get the authenticated user's claims grouped by status
// @Tags Expenses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /expenses/stats [get]
func (h *ExpenseHandler) Stats(c *fiber.Ctx) error {
	userID, _, ok := requesterFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	stats, err := h.expenseService.GetStats(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to get statistics")
	}

	return response.Success(c, "Statistics retrieved successfully", fiber.Map{
		"stats": stats,
	})
}
