package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"expensehub/internal/adapters/persistence/models"
	"expensehub/internal/adapters/persistence/repositories"
	"expensehub/internal/core/domain"
	"expensehub/internal/core/policy"
	"expensehub/internal/core/workflow"

	"gorm.io/gorm"
)

// ExpenseService manages expense claims from submission to payment
type ExpenseService struct {
	expenseRepo   repositories.ExpenseRepository
	categoryRepo  *repositories.CategoryRepository
	policyService *PolicyService
	notification  *NotificationService
}

// NewExpenseService creates a new expense service
func NewExpenseService(
	expenseRepo repositories.ExpenseRepository,
	categoryRepo *repositories.CategoryRepository,
	policyService *PolicyService,
	notification *NotificationService,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo:   expenseRepo,
		categoryRepo:  categoryRepo,
		policyService: policyService,
		notification:  notification,
	}
}

// SubmitExpenseInput for expense submission
type SubmitExpenseInput struct {
	EmployeeID  uint
	CategoryID  uint
	Amount      float64
	Date        time.Time
	Vendor      string
	Description string
	Receipt     string
}

// Submit creates a new expense claim with its approval workflow initialized
// from the amount. Claims at or below the lowest tier are approved
// immediately. The returned compliance report is advisory and never blocks
// the submission.
func (s *ExpenseService) Submit(ctx context.Context, input *SubmitExpenseInput) (*models.Expense, *policy.Report, error) {
	if input.Amount <= 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	if strings.TrimSpace(input.Vendor) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}
	if !category.IsActive {
		return nil, nil, domain.ErrInvalidInput
	}

	report, err := s.policyService.CheckCompliance(ctx, input.EmployeeID, input.CategoryID, input.Amount, input.Vendor, input.Date)
	if err != nil {
		return nil, nil, err
	}

	count, err := s.expenseRepo.Count(ctx)
	if err != nil {
		return nil, nil, err
	}

	init := workflow.Initialize(input.Amount)

	expense := &models.Expense{
		ExpenseID:    fmt.Sprintf("EXP%04d", count+1),
		EmployeeID:   input.EmployeeID,
		CategoryID:   input.CategoryID,
		Amount:       input.Amount,
		Date:         input.Date,
		Vendor:       input.Vendor,
		Description:  input.Description,
		Receipt:      input.Receipt,
		Status:       init.Status.String(),
		CurrentLevel: string(init.CurrentLevel),
	}
	for i, level := range init.Levels {
		expense.Steps = append(expense.Steps, models.ApprovalStep{
			StepOrder: i + 1,
			Level:     string(level),
			Status:    string(domain.StepPending),
		})
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, nil, err
	}

	log.Printf("✅ Expense %s submitted by employee %d (amount %.2f, status %s)",
		expense.ExpenseID, input.EmployeeID, input.Amount, expense.Status)

	if s.notification != nil && init.Status.IsPending() {
		employeeName := fmt.Sprintf("employee %d", input.EmployeeID)
		if expense.Employee != nil {
			employeeName = expense.Employee.Name
		}
		s.notification.NotifyExpenseSubmitted(expense, employeeName)
	}

	return expense, report, nil
}

// GetByID gets an expense. Employees may only see their own claims.
func (s *ExpenseService) GetByID(ctx context.Context, id, requesterID uint, role domain.Role) (*models.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
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

// List lists expenses. Employees see their own claims only; approver roles
// see everything.
func (s *ExpenseService) List(ctx context.Context, requesterID uint, role domain.Role, offset, limit int) ([]*models.Expense, int64, error) {
	if role == domain.RoleEmployee {
		return s.expenseRepo.ListByEmployee(ctx, requesterID, offset, limit)
	}
	return s.expenseRepo.List(ctx, offset, limit)
}

// ListByEmployee lists one employee's claims
func (s *ExpenseService) ListByEmployee(ctx context.Context, employeeID uint, offset, limit int) ([]*models.Expense, int64, error) {
	return s.expenseRepo.ListByEmployee(ctx, employeeID, offset, limit)
}

// ProcessPayment settles a fully approved claim. Only approved claims can be
// paid, and only once: a concurrent or repeated payment misses the guard.
func (s *ExpenseService) ProcessPayment(ctx context.Context, expenseID, paidByID uint, method, reference string) (*models.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}

	status, err := domain.ParseStatus(expense.Status)
	if err != nil {
		return nil, err
	}
	if status != domain.StatusApproved {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	expense.Status = domain.StatusPaid.String()
	expense.PaidAt = &now
	expense.PaymentMethod = method
	expense.PaymentReference = reference
	expense.PaidByID = &paidByID

	if err := s.expenseRepo.UpdatePaymentGuarded(ctx, expense); err != nil {
		return nil, err
	}

	log.Printf("💰 Expense %s paid by user %d (%s, ref %s)", expense.ExpenseID, paidByID, method, reference)

	if s.notification != nil && expense.Employee != nil {
		s.notification.NotifyPaymentProcessed(expense, expense.Employee.Email)
	}

	return expense, nil
}

// AddComment adds a discussion comment to a claim. Employees may only comment
// on their own claims.
func (s *ExpenseService) AddComment(ctx context.Context, expenseID, userID uint, role domain.Role, message string) (*models.ExpenseComment, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.ErrInvalidInput
	}

	expense, err := s.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}

	if role == domain.RoleEmployee && expense.EmployeeID != userID {
		return nil, domain.ErrForbidden
	}

	comment := &models.ExpenseComment{
		ExpenseRef: expense.ID,
		UserID:     userID,
		Message:    message,
	}
	if err := s.expenseRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// GetStats returns an employee's claims grouped by status
func (s *ExpenseService) GetStats(ctx context.Context, employeeID uint) ([]*models.StatusStat, error) {
	return s.expenseRepo.StatusStatsByEmployee(ctx, employeeID)
}
