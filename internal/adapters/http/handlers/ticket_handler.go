package handlers

import (
	"errors"
	"strconv"
	"strings"

	"expensehub/internal/core/domain"
	"expensehub/internal/core/services"
	"expensehub/internal/pkg/pagination"
	"expensehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TicketHandler handles support ticket endpoints
type TicketHandler struct {
	ticketService *services.TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService *services.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// CreateTicketRequest represents a ticket creation body
type CreateTicketRequest struct {
	ExpenseID   string `json:"expense_id"`
	Subject     string `json:"subject"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// ReplyRequest represents a ticket reply body
type ReplyRequest struct {
	Message string `json:"message"`
}

// StatusRequest represents a ticket status change body
type StatusRequest struct {
	Status string `json:"status"`
}

// Create raises a support ticket
// @Summary Raise support ticket
// @Description Raise a support ticket, e.g. to dispute a rejected claim
// @Tags Tickets
// @Accept json
// @Produce json
// @Param body body CreateTicketRequest true "Ticket"
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /tickets [post]
func (h *TicketHandler) Create(c *fiber.Ctx) error {
	userID, _, ok := requesterFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.CreateTicketInput{
		EmployeeID:  userID,
		ExpenseID:   strings.TrimSpace(req.ExpenseID),
		Subject:     strings.TrimSpace(req.Subject),
		Category:    req.Category,
		Description: strings.TrimSpace(req.Description),
		Priority:    req.Priority,
	}

	ticket, err := h.ticketService.Create(c.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Subject, description, and a valid category are required")
		}
		return response.InternalServerError(c, "Failed to create ticket")
	}

	return response.Created(c, "Ticket created successfully", fiber.Map{
		"ticket": ticket,
	})
}

// List lists tickets
// @Summary List tickets
// @Description List support tickets; employees see only their own
// @Tags Tickets
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /tickets [get]
func (h *TicketHandler) List(c *fiber.Ctx) error {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	tickets, total, err := h.ticketService.List(c.Context(), userID, role, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list tickets")
	}

	return response.Success(c, "Tickets retrieved successfully", fiber.Map{
		"tickets":    tickets,
		"pagination": pagination.GetMeta(params, total),
	})
}

// Get fetches one ticket with its thread
// @Summary Get ticket
// @Description Get a support ticket with its reply thread
// @Tags Tickets
// @Produce json
// @Param id path int true "Ticket ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /tickets/{id} [get]
func (h *TicketHandler) Get(c *fiber.Ctx) error {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ticket ID")
	}

	ticket, err := h.ticketService.GetByID(c.Context(), uint(id), userID, role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Ticket not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You cannot view this ticket")
		default:
			return response.InternalServerError(c, "Failed to get ticket")
		}
	}

	return response.Success(c, "Ticket retrieved successfully", fiber.Map{
		"ticket": ticket,
	})
}

// Reply appends a message to a ticket thread
// @Summary Reply to ticket
// @Description Add a reply to a support ticket thread
// @Tags Tickets
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Param body body ReplyRequest true "Reply"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /tickets/{id}/replies [post]
func (h *TicketHandler) Reply(c *fiber.Ctx) error {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ticket ID")
	}

	var req ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	ticket, err := h.ticketService.Reply(c.Context(), uint(id), userID, role, strings.TrimSpace(req.Message))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Reply message is required")
		case errors.Is(err, domain.ErrInvalidState):
			return response.BadRequest(c, "Ticket is closed")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Ticket not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You cannot reply to this ticket")
		default:
			return response.InternalServerError(c, "Failed to add reply")
		}
	}

	return response.Success(c, "Reply added successfully", fiber.Map{
		"ticket": ticket,
	})
}

// UpdateStatus changes a ticket's lifecycle status
// @Summary Update ticket status
// @Description Move a ticket to in_progress, resolved, or closed
// @Tags Tickets
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Param body body StatusRequest true "New status"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /tickets/{id}/status [patch]
func (h *TicketHandler) UpdateStatus(c *fiber.Ctx) error {
	userID, _, ok := requesterFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ticket ID")
	}

	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	ticket, err := h.ticketService.UpdateStatus(c.Context(), uint(id), userID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid ticket status")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Ticket not found")
		default:
			return response.InternalServerError(c, "Failed to update ticket status")
		}
	}

	return response.Success(c, "Ticket status updated successfully", fiber.Map{
		"ticket": ticket,
	})
}
