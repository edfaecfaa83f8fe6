package handlers

import (
	"errors"
	"strconv"
	"time"

	"expensehub/internal/core/domain"
	"expensehub/internal/core/services"
	"expensehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MasterHandler handles master data endpoints (categories, policies)
type MasterHandler struct {
	categoryService *services.CategoryService
	policyService   *services.PolicyService
}

// NewMasterHandler creates a new master data handler
func NewMasterHandler(categoryService *services.CategoryService, policyService *services.PolicyService) *MasterHandler {
	return &MasterHandler{
		categoryService: categoryService,
		policyService:   policyService,
	}
}

// ============================================================
// Categories
// ============================================================

// ListCategories lists expense categories
// @Summary List categories
// @Description List expense categories; pass active=true for active only
// @Tags Master
// @Produce json
// @Param active query bool false "Active only"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /categories [get]
func (h *MasterHandler) ListCategories(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active", false)

	categories, err := h.categoryService.List(c.Context(), activeOnly)
	if err != nil {
		return response.InternalServerError(c, "Failed to list categories")
	}

	return response.Success(c, "Categories retrieved successfully", fiber.Map{
		"categories": categories,
	})
}

// CreateCategory creates a category
// @Summary Create category
// @Description Create a new expense category
// @Tags Master
// @Accept json
// @Produce json
// @Param body body services.CreateCategoryInput true "Category"
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /categories [post]
func (h *MasterHandler) CreateCategory(c *fiber.Ctx) error {
	var input services.CreateCategoryInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	category, err := h.categoryService.Create(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Category name is required")
		case errors.Is(err, domain.ErrDuplicateEntry):
			return response.Conflict(c, "Category name already exists")
		default:
			return response.InternalServerError(c, "Failed to create category")
		}
	}

	return response.Created(c, "Category created successfully", fiber.Map{
		"category": category,
	})
}

// UpdateCategory updates a category
// @Summary Update category
// @Description Update an expense category
// @Tags Master
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param body body services.UpdateCategoryInput true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /categories/{id} [put]
func (h *MasterHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid category ID")
	}

	var input services.UpdateCategoryInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	category, err := h.categoryService.Update(c.Context(), uint(id), &input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Category not found")
		}
		return response.InternalServerError(c, "Failed to update category")
	}

	return response.Success(c, "Category updated successfully", fiber.Map{
		"category": category,
	})
}

// DeleteCategory deletes a category
// @Summary Delete category
// @Description Soft delete an expense category
// @Tags Master
// @Produce json
// @Param id path int true "Category ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /categories/{id} [delete]
func (h *MasterHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid category ID")
	}

	if err := h.categoryService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Category not found")
		}
		return response.InternalServerError(c, "Failed to delete category")
	}

	return response.Success(c, "Category deleted successfully", nil)
}

// ============================================================
// Policies
// ============================================================

// CreatePolicyRequest represents policy creation body
type CreatePolicyRequest struct {
	Name                    string   `json:"name"`
	Description             string   `json:"description"`
	CategoryID              *uint    `json:"category_id"`
	MaxAmount               *float64 `json:"max_amount"`
	RequiresReceipt         bool     `json:"requires_receipt"`
	RequiresApprovalAbove   float64  `json:"requires_approval_above"`
	AllowedVendors          []string `json:"allowed_vendors"`
	BlockedVendors          []string `json:"blocked_vendors"`
	MaxPerDay               *float64 `json:"max_per_day"`
	MaxPerMonth             *float64 `json:"max_per_month"`
	RequiresManagerApproval bool     `json:"requires_manager_approval"`
}

// ListPolicies lists spending policies
// @Summary List policies
// @Description List all spending policies
// @Tags Master
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /policies [get]
func (h *MasterHandler) ListPolicies(c *fiber.Ctx) error {
	policies, err := h.policyService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list policies")
	}

	return response.Success(c, "Policies retrieved successfully", fiber.Map{
		"policies": policies,
	})
}

// GetPolicy gets one policy
// @Summary Get policy
// @Description Get a spending policy by ID
// @Tags Master
// @Produce json
// @Param id path int true "Policy ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /policies/{id} [get]
func (h *MasterHandler) GetPolicy(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid policy ID")
	}

	policy, err := h.policyService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Policy not found")
		}
		return response.InternalServerError(c, "Failed to get policy")
	}

	return response.Success(c, "Policy retrieved successfully", fiber.Map{
		"policy": policy,
	})
}

// CreatePolicy creates a policy
// @Summary Create policy
// @Description Create a new spending policy
// @Tags Master
// @Accept json
// @Produce json
// @Param body body CreatePolicyRequest true "Policy"
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /policies [post]
func (h *MasterHandler) CreatePolicy(c *fiber.Ctx) error {
	userID, _, ok := requesterFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreatePolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.CreatePolicyInput{
		Name:                    req.Name,
		Description:             req.Description,
		CategoryID:              req.CategoryID,
		MaxAmount:               req.MaxAmount,
		RequiresReceipt:         req.RequiresReceipt,
		RequiresApprovalAbove:   req.RequiresApprovalAbove,
		AllowedVendors:          req.AllowedVendors,
		BlockedVendors:          req.BlockedVendors,
		MaxPerDay:               req.MaxPerDay,
		MaxPerMonth:             req.MaxPerMonth,
		RequiresManagerApproval: req.RequiresManagerApproval,
	}

	policy, err := h.policyService.Create(c.Context(), input, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Policy name is required")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Category not found")
		default:
			return response.InternalServerError(c, "Failed to create policy")
		}
	}

	return response.Created(c, "Policy created successfully", fiber.Map{
		"policy": policy,
	})
}

// UpdatePolicy updates a policy
// @Summary Update policy
// @Description Update a spending policy
// @Tags Master
// @Accept json
// @Produce json
// @Param id path int true "Policy ID"
// @Param body body services.UpdatePolicyInput true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /policies/{id} [put]
func (h *MasterHandler) UpdatePolicy(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid policy ID")
	}

	var input services.UpdatePolicyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	policy, err := h.policyService.Update(c.Context(), uint(id), &input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Policy not found")
		}
		return response.InternalServerError(c, "Failed to update policy")
	}

	return response.Success(c, "Policy updated successfully", fiber.Map{
		"policy": policy,
	})
}

// DeletePolicy deletes a policy
// @Summary Delete policy
// @Description Soft delete a spending policy
// @Tags Master
// @Produce json
// @Param id path int true "Policy ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /policies/{id} [delete]
func (h *MasterHandler) DeletePolicy(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid policy ID")
	}

	if err := h.policyService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Policy not found")
		}
		return response.InternalServerError(c, "Failed to delete policy")
	}

	return response.Success(c, "Policy deleted successfully", nil)
}

// CheckCompliance runs a compliance check for a proposed expense
// @Summary Check compliance
// @Description Check a proposed expense against the active policies; the result is advisory
// @Tags Master
// @Produce json
// @Param category_id query int true "Category ID"
// @Param amount query number true "Amount"
// @Param vendor query string false "Vendor"
// @Param date query string false "Expense date (YYYY-MM-DD)"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /policies/check [get]
func (h *MasterHandler) CheckCompliance(c *fiber.Ctx) error {
	userID, _, ok := requesterFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	categoryID, err := strconv.ParseUint(c.Query("category_id"), 10, 32)
	if err != nil || categoryID == 0 {
		return response.BadRequest(c, "Category ID is required")
	}

	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil || amount <= 0 {
		return response.BadRequest(c, "Amount must be greater than zero")
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return response.BadRequest(c, "Date must be in YYYY-MM-DD format")
		}
		date = parsed
	}

	report, err := h.policyService.CheckCompliance(c.Context(), userID, uint(categoryID), amount, c.Query("vendor"), date)
	if err != nil {
		return response.InternalServerError(c, "Failed to check compliance")
	}

	return response.Success(c, "Compliance check completed", fiber.Map{
		"report": report,
	})
}
