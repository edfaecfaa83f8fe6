package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"expensehub/internal/adapters/persistence/models"
	"expensehub/internal/adapters/persistence/repositories"
	"expensehub/internal/core/domain"
	"expensehub/internal/core/policy"

	"gorm.io/gorm"
)

// PolicyService manages spending policies and runs compliance checks
type PolicyService struct {
	policyRepo   *repositories.PolicyRepository
	categoryRepo *repositories.CategoryRepository
	expenseRepo  repositories.ExpenseRepository
}

// NewPolicyService creates a new policy service
func NewPolicyService(policyRepo *repositories.PolicyRepository, categoryRepo *repositories.CategoryRepository, expenseRepo repositories.ExpenseRepository) *PolicyService {
	return &PolicyService{
		policyRepo:   policyRepo,
		categoryRepo: categoryRepo,
		expenseRepo:  expenseRepo,
	}
}

// CreatePolicyInput for policy creation
type CreatePolicyInput struct {
	Name                    string
	Description             string
	CategoryID              *uint
	MaxAmount               *float64
	RequiresReceipt         bool
	RequiresApprovalAbove   float64
	AllowedVendors          []string
	BlockedVendors          []string
	MaxPerDay               *float64
	MaxPerMonth             *float64
	RequiresManagerApproval bool
}

// Create creates a new spending policy with a generated POL ID
func (s *PolicyService) Create(ctx context.Context, input *CreatePolicyInput, createdBy uint) (*models.Policy, error) {
	if input.Name == "" {
		return nil, domain.ErrInvalidInput
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, err
		}
	}

	count, err := s.policyRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	p := &models.Policy{
		PolicyID:                fmt.Sprintf("POL%03d", count+1),
		Name:                    input.Name,
		Description:             input.Description,
		CategoryID:              input.CategoryID,
		IsActive:                true,
		CreatedBy:               createdBy,
		MaxAmount:               input.MaxAmount,
		RequiresReceipt:         input.RequiresReceipt,
		RequiresApprovalAbove:   input.RequiresApprovalAbove,
		AllowedVendors:          input.AllowedVendors,
		BlockedVendors:          input.BlockedVendors,
		MaxPerDay:               input.MaxPerDay,
		MaxPerMonth:             input.MaxPerMonth,
		RequiresManagerApproval: input.RequiresManagerApproval,
	}
	if p.RequiresApprovalAbove <= 0 {
		p.RequiresApprovalAbove = 5000
	}

	if err := s.policyRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Printf("✅ Policy %s (%s) created by user %d", p.PolicyID, p.Name, createdBy)
	return p, nil
}

// GetByID gets a policy by ID
func (s *PolicyService) GetByID(ctx context.Context, id uint) (*models.Policy, error) {
	p, err := s.policyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List lists all policies
func (s *PolicyService) List(ctx context.Context) ([]*models.Policy, error) {
	return s.policyRepo.List(ctx)
}

// UpdatePolicyInput for policy updates. Nil fields are left unchanged.
type UpdatePolicyInput struct {
	Name                    *string
	Description             *string
	IsActive                *bool
	MaxAmount               *float64
	RequiresReceipt         *bool
	AllowedVendors          []string
	BlockedVendors          []string
	MaxPerDay               *float64
	MaxPerMonth             *float64
	RequiresManagerApproval *bool
}

// Update updates a policy
func (s *PolicyService) Update(ctx context.Context, id uint, input *UpdatePolicyInput) (*models.Policy, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	if input.MaxAmount != nil {
		p.MaxAmount = input.MaxAmount
	}
	if input.RequiresReceipt != nil {
		p.RequiresReceipt = *input.RequiresReceipt
	}
	if input.AllowedVendors != nil {
		p.AllowedVendors = input.AllowedVendors
	}
	if input.BlockedVendors != nil {
		p.BlockedVendors = input.BlockedVendors
	}
	if input.MaxPerDay != nil {
		p.MaxPerDay = input.MaxPerDay
	}
	if input.MaxPerMonth != nil {
		p.MaxPerMonth = input.MaxPerMonth
	}
	if input.RequiresManagerApproval != nil {
		p.RequiresManagerApproval = *input.RequiresManagerApproval
	}

	if err := s.policyRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete soft deletes a policy
func (s *PolicyService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.policyRepo.Delete(ctx, id)
}

// evaluatorPolicies maps stored policies into the evaluator's view
func evaluatorPolicies(stored []*models.Policy) []policy.Policy {
	out := make([]policy.Policy, 0, len(stored))
	for _, p := range stored {
		out = append(out, policy.Policy{
			PolicyID: p.PolicyID,
			Name:     p.Name,
			Rules: policy.Rules{
				MaxAmount:               p.MaxAmount,
				RequiresReceipt:         p.RequiresReceipt,
				RequiresApprovalAbove:   p.RequiresApprovalAbove,
				AllowedVendors:          p.AllowedVendors,
				BlockedVendors:          p.BlockedVendors,
				MaxPerDay:               p.MaxPerDay,
				MaxPerMonth:             p.MaxPerMonth,
				RequiresManagerApproval: p.RequiresManagerApproval,
			},
		})
	}
	return out
}

// CheckCompliance evaluates a proposed expense against the active policies of
// its category plus global ones. Daily and monthly aggregates are keyed on
// the expense's own date, not the time of the check. The result is advisory:
// the employee may submit anyway.
func (s *PolicyService) CheckCompliance(ctx context.Context, employeeID, categoryID uint, amount float64, vendor string, date time.Time) (*policy.Report, error) {
	active, err := s.policyRepo.ListActiveForCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	in := policy.Input{Amount: amount, Vendor: vendor}

	needsDay := false
	needsMonth := false
	for _, p := range active {
		if p.MaxPerDay != nil {
			needsDay = true
		}
		if p.MaxPerMonth != nil {
			needsMonth = true
		}
	}

	if needsDay {
		dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		in.DayTotal, err = s.expenseRepo.SumForEmployeeCategory(ctx, employeeID, categoryID, dayStart, dayStart.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}
	}
	if needsMonth {
		monthStart := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
		in.MonthTotal, err = s.expenseRepo.SumForEmployeeCategory(ctx, employeeID, categoryID, monthStart, monthStart.AddDate(0, 1, 0))
		if err != nil {
			return nil, err
		}
	}

	report := policy.Evaluate(evaluatorPolicies(active), in)
	return &report, nil
}
