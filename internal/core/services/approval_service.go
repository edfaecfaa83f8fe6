package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"expensehub/internal/adapters/persistence/models"
	"expensehub/internal/adapters/persistence/repositories"
	"expensehub/internal/core/domain"
	"expensehub/internal/core/workflow"

	"gorm.io/gorm"
)

// ApprovalService drives the approval state machine for expense claims
type ApprovalService struct {
	expenseRepo  repositories.ExpenseRepository
	notification *NotificationService
}

// NewApprovalService creates a new approval service
func NewApprovalService(expenseRepo repositories.ExpenseRepository, notification *NotificationService) *ApprovalService {
	return &ApprovalService{
		expenseRepo:  expenseRepo,
		notification: notification,
	}
}

// engineSteps converts stored approval steps into the engine's view. The
// repository returns steps already ordered by step_order.
func engineSteps(steps []models.ApprovalStep) []workflow.Step {
	out := make([]workflow.Step, len(steps))
	for i, s := range steps {
		out[i] = workflow.Step{
			Level:  domain.Level(s.Level),
			Status: domain.StepStatus(s.Status),
		}
	}
	return out
}

// Approve signs off the claim's active step on behalf of the approver. When
// the approved step was the last one the claim becomes approved; otherwise it
// advances to the next pending level. The persisted transition is guarded
// against concurrent approvers.
func (s *ApprovalService) Approve(ctx context.Context, expenseID, approverID uint, role domain.Role, comments string) (*models.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}

	expectedStatus := expense.Status
	expectedLevel := expense.CurrentLevel

	adv, err := workflow.Approve(engineSteps(expense.Steps), domain.Level(expense.CurrentLevel), role)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	step := &expense.Steps[adv.StepIndex]
	step.Status = string(domain.StepApproved)
	step.ApproverID = &approverID
	step.Comments = comments
	step.ActionDate = &now

	expense.Status = adv.Status.String()
	expense.CurrentLevel = string(adv.NextLevel)

	if err := s.expenseRepo.UpdateStateGuarded(ctx, expense, step, expectedStatus, expectedLevel); err != nil {
		return nil, err
	}

	log.Printf("✅ Expense %s approved at %s level by user %d (next: %s)",
		expense.ExpenseID, step.Level, approverID, expense.CurrentLevel)

	if adv.Completed && s.notification != nil && expense.Employee != nil {
		s.notification.NotifyExpenseApproved(expense, expense.Employee.Email, expense.Employee.Name)
	}

	return expense, nil
}

// Reject turns down the claim at its active step. Rejection is final: no
// further approval action is possible and the remaining steps stay untouched.
// A reason is required so the employee can dispute the decision.
func (s *ApprovalService) Reject(ctx context.Context, expenseID, approverID uint, role domain.Role, reason string) (*models.Expense, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domain.ErrInvalidInput
	}

	expense, err := s.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}

	expectedStatus := expense.Status
	expectedLevel := expense.CurrentLevel

	idx, err := workflow.Reject(engineSteps(expense.Steps), domain.Level(expense.CurrentLevel), role)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	step := &expense.Steps[idx]
	step.Status = string(domain.StepRejected)
	step.ApproverID = &approverID
	step.Comments = reason
	step.ActionDate = &now

	expense.Status = domain.StatusRejected.String()
	expense.CurrentLevel = string(domain.LevelCompleted)
	expense.RejectedByID = &approverID
	expense.RejectedAt = &now
	expense.RejectReason = reason

	if err := s.expenseRepo.UpdateStateGuarded(ctx, expense, step, expectedStatus, expectedLevel); err != nil {
		return nil, err
	}

	log.Printf("❌ Expense %s rejected at %s level by user %d", expense.ExpenseID, step.Level, approverID)

	if s.notification != nil && expense.Employee != nil {
		s.notification.NotifyExpenseRejected(expense, expense.Employee.Email, reason)
	}

	return expense, nil
}

// GetPendingApprovals lists claims awaiting action at a level the role can
// act at. Admins see the pending queue of every tier.
func (s *ApprovalService) GetPendingApprovals(ctx context.Context, role domain.Role) ([]*models.Expense, error) {
	levels := workflow.ActionableLevels(role)
	if len(levels) == 0 {
		return nil, domain.ErrForbidden
	}

	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = string(l)
	}

	return s.expenseRepo.ListPendingAtLevels(ctx, names)
}

// GetWorkflowHistory returns the full approval trail of a claim. Employees
// may only inspect their own claims; approver roles may inspect any.
func (s *ApprovalService) GetWorkflowHistory(ctx context.Context, expenseID, requesterID uint, role domain.Role) (*models.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}

	if role == domain.RoleEmployee && expense.EmployeeID != requesterID {
		return nil, domain.ErrForbidden
	}

	return expense, nil
}
