package repositories

import (
	"context"
	"time"

	"expensehub/internal/adapters/persistence/models"
	"expensehub/internal/core/domain"

	"gorm.io/gorm"
)

// expenseRepository implements ExpenseRepository interface
type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

// Create creates a new expense with its approval steps
func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

// GetByID gets an expense by ID with relations. Steps come back in workflow
// order.
func (r *expenseRepository) GetByID(ctx context.Context, id uint) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Category").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		}).
		Preload("Steps.Approver").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&expense, id).Error
	return &expense, err
}

// Count counts all expenses including soft-deleted ones, so generated claim
// IDs are never reused
func (r *expenseRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.Expense{}).
		Count(&total).Error
	return total, err
}

// List lists all expenses with pagination
func (r *expenseRepository) List(ctx context.Context, offset, limit int) ([]*models.Expense, int64, error) {
	var expenses []*models.Expense
	var total int64

	r.db.WithContext(ctx).Model(&models.Expense{}).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Category").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		}).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&expenses).Error

	return expenses, total, err
}

// ListByEmployee lists expenses submitted by one employee
func (r *expenseRepository) ListByEmployee(ctx context.Context, employeeID uint, offset, limit int) ([]*models.Expense, int64, error) {
	var expenses []*models.Expense
	var total int64

	r.db.WithContext(ctx).Model(&models.Expense{}).Where("employee_id = ?", employeeID).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		}).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&expenses).Error

	return expenses, total, err
}

// ListPendingAtLevels lists claims awaiting action at any of the given
// levels. Status and level are kept consistent by the state machine, so
// matching on current_level with a pending status is sufficient.
func (r *expenseRepository) ListPendingAtLevels(ctx context.Context, levels []string) ([]*models.Expense, error) {
	if len(levels) == 0 {
		return []*models.Expense{}, nil
	}

	var expenses []*models.Expense
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Category").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		}).
		Where("current_level IN ?", levels).
		Where("status LIKE ?", "pending\\_%").
		Order("created_at DESC").
		Find(&expenses).Error
	return expenses, err
}

// UpdateStateGuarded applies a workflow transition with a compare-and-swap
// on (status, current_level). A concurrent transition makes the guard miss
// and the whole update is rolled back.
func (r *expenseRepository) UpdateStateGuarded(ctx context.Context, expense *models.Expense, step *models.ApprovalStep, expectedStatus, expectedLevel string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Expense{}).
			Where("id = ? AND status = ? AND current_level = ?", expense.ID, expectedStatus, expectedLevel).
			Updates(map[string]interface{}{
				"status":         expense.Status,
				"current_level":  expense.CurrentLevel,
				"rejected_by_id": expense.RejectedByID,
				"rejected_at":    expense.RejectedAt,
				"reject_reason":  expense.RejectReason,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrWorkflowConflict
		}

		if step != nil {
			res = tx.Model(&models.ApprovalStep{}).
				Where("id = ? AND status = ?", step.ID, string(domain.StepPending)).
				Updates(map[string]interface{}{
					"status":      step.Status,
					"approver_id": step.ApproverID,
					"comments":    step.Comments,
					"action_date": step.ActionDate,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return domain.ErrWorkflowConflict
			}
		}

		return nil
	})
}

// UpdatePaymentGuarded settles an approved claim. The guard holds the
// approved -> paid transition to exactly once.
func (r *expenseRepository) UpdatePaymentGuarded(ctx context.Context, expense *models.Expense) error {
	res := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Where("id = ? AND status = ?", expense.ID, domain.StatusApproved.String()).
		Updates(map[string]interface{}{
			"status":            expense.Status,
			"paid_at":           expense.PaidAt,
			"payment_method":    expense.PaymentMethod,
			"payment_reference": expense.PaymentReference,
			"paid_by_id":        expense.PaidByID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrWorkflowConflict
	}
	return nil
}

// AddComment adds a comment to an expense
func (r *expenseRepository) AddComment(ctx context.Context, comment *models.ExpenseComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// SumForEmployeeCategory sums claim amounts for an employee and category
// with expense dates in [from, to)
func (r *expenseRepository) SumForEmployeeCategory(ctx context.Context, employeeID, categoryID uint, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("employee_id = ? AND category_id = ?", employeeID, categoryID).
		Where("date >= ? AND date < ?", from, to).
		Scan(&total).Error
	return total, err
}

// StatusStatsByEmployee groups an employee's claims by status
func (r *expenseRepository) StatusStatsByEmployee(ctx context.Context, employeeID uint) ([]*models.StatusStat, error) {
	var stats []*models.StatusStat
	err := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_amount").
		Where("employee_id = ?", employeeID).
		Group("status").
		Scan(&stats).Error
	return stats, err
}
