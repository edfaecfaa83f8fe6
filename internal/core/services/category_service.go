package services

import (
	"context"
	"errors"

	"expensehub/internal/adapters/persistence/models"
	"expensehub/internal/adapters/persistence/repositories"
	"expensehub/internal/core/domain"

	"gorm.io/gorm"
)

// CategoryService manages expense categories
type CategoryService struct {
	categoryRepo *repositories.CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo *repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// List lists categories, optionally only active ones
func (s *CategoryService) List(ctx context.Context, activeOnly bool) ([]*models.Category, error) {
	if activeOnly {
		return s.categoryRepo.ListActive(ctx)
	}
	return s.categoryRepo.List(ctx)
}

// GetByID gets a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

// CreateCategoryInput for category creation
type CreateCategoryInput struct {
	Name           string  `json:"name" validate:"required"`
	Description    string  `json:"description"`
	BudgetLimit    float64 `json:"budget_limit"`
	RequireReceipt bool    `json:"require_receipt"`
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, input *CreateCategoryInput) (*models.Category, error) {
	if input.Name == "" {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.categoryRepo.GetByName(ctx, input.Name); err == nil {
		return nil, domain.ErrDuplicateEntry
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &models.Category{
		Name:           input.Name,
		Description:    input.Description,
		BudgetLimit:    input.BudgetLimit,
		RequireReceipt: input.RequireReceipt,
		IsActive:       true,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategoryInput for category updates. Nil fields are left unchanged.
type UpdateCategoryInput struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	BudgetLimit    *float64 `json:"budget_limit"`
	RequireReceipt *bool    `json:"require_receipt"`
	IsActive       *bool    `json:"is_active"`
}

// Update updates a category
func (s *CategoryService) Update(ctx context.Context, id uint, input *UpdateCategoryInput) (*models.Category, error) {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.BudgetLimit != nil {
		category.BudgetLimit = *input.BudgetLimit
	}
	if input.RequireReceipt != nil {
		category.RequireReceipt = *input.RequireReceipt
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete soft deletes a category
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}
