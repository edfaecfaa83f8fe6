package services

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// User Statistics
	TotalUsers     int64 `json:"total_users"`
	TotalEmployees int64 `json:"total_employees"`
	TotalManagers  int64 `json:"total_managers"`
	TotalFinance   int64 `json:"total_finance"`
	TotalAdmins    int64 `json:"total_admins"`

	// Expense Statistics
	TotalExpenses    int64   `json:"total_expenses"`
	TotalAmount      float64 `json:"total_amount"`
	ApprovedAmount   float64 `json:"approved_amount"`
	PaidAmount       float64 `json:"paid_amount"`
	PendingExpenses  int64   `json:"pending_expenses"`
	ApprovedExpenses int64   `json:"approved_expenses"`
	RejectedExpenses int64   `json:"rejected_expenses"`
	PaidExpenses     int64   `json:"paid_expenses"`

	// Pending queue per approval tier
	PendingAtManager int64 `json:"pending_at_manager"`
	PendingAtFinance int64 `json:"pending_at_finance"`
	PendingAtAdmin   int64 `json:"pending_at_admin"`

	// Monthly Statistics
	ExpensesThisMonth int64   `json:"expenses_this_month"`
	AmountThisMonth   float64 `json:"amount_this_month"`

	// Support
	OpenTickets int64 `json:"open_tickets"`

	// Recent Activity
	RecentExpenses []ExpenseSummary `json:"recent_expenses"`

	// Top Spenders
	TopSpenders []SpenderStats `json:"top_spenders"`
}

// ExpenseSummary represents expense summary
type ExpenseSummary struct {
	ID           uint      `json:"id"`
	ExpenseID    string    `json:"expense_id"`
	EmployeeName string    `json:"employee_name"`
	Category     string    `json:"category"`
	Amount       float64   `json:"amount"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// SpenderStats represents per-employee spending statistics
type SpenderStats struct {
	EmployeeID  uint    `json:"employee_id"`
	Name        string  `json:"name"`
	TotalClaims int64   `json:"total_claims"`
	TotalAmount float64 `json:"total_amount"`
	Approved    int64   `json:"approved"`
	Rejected    int64   `json:"rejected"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}

	// User counts by role
	s.db.WithContext(ctx).Table("users").Where("deleted_at IS NULL").Count(&data.TotalUsers)
	s.db.WithContext(ctx).Table("users").Where("role = ? AND deleted_at IS NULL", "employee").Count(&data.TotalEmployees)
	s.db.WithContext(ctx).Table("users").Where("role = ? AND deleted_at IS NULL", "manager").Count(&data.TotalManagers)
	s.db.WithContext(ctx).Table("users").Where("role = ? AND deleted_at IS NULL", "finance").Count(&data.TotalFinance)
	s.db.WithContext(ctx).Table("users").Where("role = ? AND deleted_at IS NULL", "admin").Count(&data.TotalAdmins)

	// Expense counts
	s.db.WithContext(ctx).Table("expenses").Where("deleted_at IS NULL").Count(&data.TotalExpenses)

	// Amounts
	s.db.WithContext(ctx).Table("expenses").
		Where("deleted_at IS NULL").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.TotalAmount)

	s.db.WithContext(ctx).Table("expenses").
		Where("status = ? AND deleted_at IS NULL", "approved").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.ApprovedAmount)

	s.db.WithContext(ctx).Table("expenses").
		Where("status = ? AND deleted_at IS NULL", "paid").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.PaidAmount)

	// Expense counts by status
	s.db.WithContext(ctx).Table("expenses").
		Where("status LIKE ? AND deleted_at IS NULL", "pending\\_%").
		Count(&data.PendingExpenses)

	s.db.WithContext(ctx).Table("expenses").
		Where("status = ? AND deleted_at IS NULL", "approved").
		Count(&data.ApprovedExpenses)

	s.db.WithContext(ctx).Table("expenses").
		Where("status = ? AND deleted_at IS NULL", "rejected").
		Count(&data.RejectedExpenses)

	s.db.WithContext(ctx).Table("expenses").
		Where("status = ? AND deleted_at IS NULL", "paid").
		Count(&data.PaidExpenses)

	// Pending queue per tier
	s.db.WithContext(ctx).Table("expenses").
		Where("status = ? AND deleted_at IS NULL", "pending_manager").
		Count(&data.PendingAtManager)

	s.db.WithContext(ctx).Table("expenses").
		Where("status = ? AND deleted_at IS NULL", "pending_finance").
		Count(&data.PendingAtFinance)

	s.db.WithContext(ctx).Table("expenses").
		Where("status = ? AND deleted_at IS NULL", "pending_admin").
		Count(&data.PendingAtAdmin)

	// This month statistics
	startOfMonth := time.Now().AddDate(0, 0, -time.Now().Day()+1).Truncate(24 * time.Hour)
	s.db.WithContext(ctx).Table("expenses").
		Where("created_at >= ? AND deleted_at IS NULL", startOfMonth).
		Count(&data.ExpensesThisMonth)

	s.db.WithContext(ctx).Table("expenses").
		Where("created_at >= ? AND deleted_at IS NULL", startOfMonth).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.AmountThisMonth)

	// Open tickets
	s.db.WithContext(ctx).Table("tickets").
		Where("status IN ? AND deleted_at IS NULL", []string{"open", "in_progress"}).
		Count(&data.OpenTickets)

	// Recent expenses
	var recent []struct {
		ID           uint
		ExpenseID    string
		EmployeeName string
		Category     string
		Amount       float64
		Status       string
		CreatedAt    time.Time
	}
	s.db.WithContext(ctx).Table("expenses").
		Select("expenses.id, expenses.expense_id, users.name as employee_name, categories.name as category, expenses.amount, expenses.status, expenses.created_at").
		Joins("LEFT JOIN users ON expenses.employee_id = users.id").
		Joins("LEFT JOIN categories ON expenses.category_id = categories.id").
		Where("expenses.deleted_at IS NULL").
		Order("expenses.created_at DESC").
		Limit(10).
		Scan(&recent)

	data.RecentExpenses = make([]ExpenseSummary, len(recent))
	for i, e := range recent {
		data.RecentExpenses[i] = ExpenseSummary{
			ID:           e.ID,
			ExpenseID:    e.ExpenseID,
			EmployeeName: e.EmployeeName,
			Category:     e.Category,
			Amount:       e.Amount,
			Status:       e.Status,
			CreatedAt:    e.CreatedAt,
		}
	}

	// Top spenders
	var spenders []struct {
		EmployeeID  uint
		Name        string
		TotalClaims int64
		TotalAmount float64
		Approved    int64
		Rejected    int64
	}
	s.db.WithContext(ctx).Table("expenses").
		Select(`
			expenses.employee_id,
			users.name,
			COUNT(*) as total_claims,
			COALESCE(SUM(expenses.amount), 0) as total_amount,
			SUM(CASE WHEN expenses.status IN ('approved', 'paid') THEN 1 ELSE 0 END) as approved,
			SUM(CASE WHEN expenses.status = 'rejected' THEN 1 ELSE 0 END) as rejected
		`).
		Joins("LEFT JOIN users ON expenses.employee_id = users.id").
		Where("expenses.deleted_at IS NULL").
		Group("expenses.employee_id, users.name").
		Order("total_amount DESC").
		Limit(5).
		Scan(&spenders)

	data.TopSpenders = make([]SpenderStats, len(spenders))
	for i, sp := range spenders {
		data.TopSpenders[i] = SpenderStats{
			EmployeeID:  sp.EmployeeID,
			Name:        sp.Name,
			TotalClaims: sp.TotalClaims,
			TotalAmount: sp.TotalAmount,
			Approved:    sp.Approved,
			Rejected:    sp.Rejected,
		}
	}

	return data, nil
}

// ============================================================
// Employee Dashboard
// ============================================================

// EmployeeDashboardData represents employee dashboard data
type EmployeeDashboardData struct {
	// My Claims Summary
	TotalExpenses    int64   `json:"total_expenses"`
	PendingExpenses  int64   `json:"pending_expenses"`
	ApprovedExpenses int64   `json:"approved_expenses"`
	RejectedExpenses int64   `json:"rejected_expenses"`
	PaidExpenses     int64   `json:"paid_expenses"`
	TotalClaimed     float64 `json:"total_claimed"`
	TotalReimbursed  float64 `json:"total_reimbursed"`

	// My Recent Claims
	RecentExpenses []ExpenseSummary `json:"recent_expenses"`

	// My Open Tickets
	OpenTickets int64 `json:"open_tickets"`
}

// GetEmployeeDashboard returns employee dashboard data
func (s *DashboardService) GetEmployeeDashboard(ctx context.Context, employeeID uint) (*EmployeeDashboardData, error) {
	data := &EmployeeDashboardData{}

	// My statistics
	s.db.WithContext(ctx).Table("expenses").
		Where("employee_id = ? AND deleted_at IS NULL", employeeID).
		Count(&data.TotalExpenses)

	s.db.WithContext(ctx).Table("expenses").
		Where("employee_id = ? AND status LIKE ? AND deleted_at IS NULL", employeeID, "pending\\_%").
		Count(&data.PendingExpenses)

	s.db.WithContext(ctx).Table("expenses").
		Where("employee_id = ? AND status = ? AND deleted_at IS NULL", employeeID, "approved").
		Count(&data.ApprovedExpenses)

	s.db.WithContext(ctx).Table("expenses").
		Where("employee_id = ? AND status = ? AND deleted_at IS NULL", employeeID, "rejected").
		Count(&data.RejectedExpenses)

	s.db.WithContext(ctx).Table("expenses").
		Where("employee_id = ? AND status = ? AND deleted_at IS NULL", employeeID, "paid").
		Count(&data.PaidExpenses)

	s.db.WithContext(ctx).Table("expenses").
		Where("employee_id = ? AND deleted_at IS NULL", employeeID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.TotalClaimed)

	s.db.WithContext(ctx).Table("expenses").
		Where("employee_id = ? AND status = ? AND deleted_at IS NULL", employeeID, "paid").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.TotalReimbursed)

	// My recent claims
	var recent []struct {
		ID        uint
		ExpenseID string
		Category  string
		Amount    float64
		Status    string
		CreatedAt time.Time
	}
	s.db.WithContext(ctx).Table("expenses").
		Select("expenses.id, expenses.expense_id, categories.name as category, expenses.amount, expenses.status, expenses.created_at").
		Joins("LEFT JOIN categories ON expenses.category_id = categories.id").
		Where("expenses.employee_id = ? AND expenses.deleted_at IS NULL", employeeID).
		Order("expenses.created_at DESC").
		Limit(10).
		Scan(&recent)

	data.RecentExpenses = make([]ExpenseSummary, len(recent))
	for i, e := range recent {
		data.RecentExpenses[i] = ExpenseSummary{
			ID:        e.ID,
			ExpenseID: e.ExpenseID,
			Category:  e.Category,
			Amount:    e.Amount,
			Status:    e.Status,
			CreatedAt: e.CreatedAt,
		}
	}

	// My open tickets
	s.db.WithContext(ctx).Table("tickets").
		Where("employee_id = ? AND status IN ? AND deleted_at IS NULL", employeeID, []string{"open", "in_progress"}).
		Count(&data.OpenTickets)

	return data, nil
}
