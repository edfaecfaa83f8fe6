package repositories

import (
	"context"
	"time"

	"expensehub/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmployeeNo(ctx context.Context, employeeNo string) (*models.User, error)
	// ListByRole backs notification recipient lookup (e.g. every admin)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmployeeNo(ctx context.Context, employeeNo string) (bool, error)
	CountByRole(ctx context.Context) (map[string]int64, error)
	CountByDepartment(ctx context.Context) (map[string]int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// PasswordResetRepository defines password reset token repository interface
type PasswordResetRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id uint) error
	DeleteExpired(ctx context.Context) error
}

// ExpenseRepository defines expense repository interface. State transitions
// run through the guarded updates so that concurrent approvers cannot both
// act on the same step.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByID(ctx context.Context, id uint) (*models.Expense, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, offset, limit int) ([]*models.Expense, int64, error)
	ListByEmployee(ctx context.Context, employeeID uint, offset, limit int) ([]*models.Expense, int64, error)
	// ListPendingAtLevels returns claims whose current level is one of the
	// given levels and whose status is the matching pending form
	ListPendingAtLevels(ctx context.Context, levels []string) ([]*models.Expense, error)
	// UpdateStateGuarded applies an approval/rejection transition iff the
	// stored (status, current_level) still match the expected pair; returns
	// domain.ErrWorkflowConflict otherwise
	UpdateStateGuarded(ctx context.Context, expense *models.Expense, step *models.ApprovalStep, expectedStatus, expectedLevel string) error
	// UpdatePaymentGuarded moves an approved claim to paid iff it is still
	// approved; returns domain.ErrWorkflowConflict otherwise
	UpdatePaymentGuarded(ctx context.Context, expense *models.Expense) error
	AddComment(ctx context.Context, comment *models.ExpenseComment) error
	// SumForEmployeeCategory sums claim amounts for the employee and
	// category within [from, to)
	SumForEmployeeCategory(ctx context.Context, employeeID, categoryID uint, from, to time.Time) (float64, error)
	StatusStatsByEmployee(ctx context.Context, employeeID uint) ([]*models.StatusStat, error)
}
