package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Master Tables
// ============================================================

// Category represents expense categories (Master)
type Category struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	BudgetLimit    float64        `gorm:"type:decimal(15,2);default:0" json:"budget_limit"`
	RequireReceipt bool           `gorm:"default:true" json:"require_receipt"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// Policy represents spending policies (Master). A nil CategoryID means the
// policy applies to every category.
type Policy struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PolicyID    string         `gorm:"size:20;uniqueIndex;not null" json:"policy_id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CategoryID  *uint          `gorm:"index" json:"category_id"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	CreatedBy   uint           `json:"created_by"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Rules
	MaxAmount               *float64 `gorm:"type:decimal(15,2)" json:"max_amount"`
	RequiresReceipt         bool     `gorm:"default:true" json:"requires_receipt"`
	RequiresApprovalAbove   float64  `gorm:"type:decimal(15,2);default:5000" json:"requires_approval_above"`
	AllowedVendors          []string `gorm:"serializer:json" json:"allowed_vendors"`
	BlockedVendors          []string `gorm:"serializer:json" json:"blocked_vendors"`
	MaxPerDay               *float64 `gorm:"type:decimal(15,2)" json:"max_per_day"`
	MaxPerMonth             *float64 `gorm:"type:decimal(15,2)" json:"max_per_month"`
	RequiresManagerApproval bool     `gorm:"default:true" json:"requires_manager_approval"`

	// Relations
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Creator  *User     `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (Policy) TableName() string {
	return "policies"
}

// ============================================================
// Expense & Workflow Tables
// ============================================================

// Expense represents expense claims (aggregate root of the workflow)
type Expense struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ExpenseID   string    `gorm:"size:20;uniqueIndex;not null" json:"expense_id"`
	EmployeeID  uint      `gorm:"not null;index:idx_expenses_employee_status" json:"employee_id"`
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`
	Amount      float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date        time.Time `gorm:"type:date;not null" json:"date"`
	Vendor      string    `gorm:"size:200;not null" json:"vendor"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Receipt     string    `gorm:"size:255" json:"receipt,omitempty"`

	// Workflow state. Status carries the wire form ("pending_manager", ...)
	// and CurrentLevel the active tier ("manager", "finance", "admin",
	// "completed", or empty when no workflow was required yet).
	Status       string `gorm:"size:30;not null;default:'pending';index:idx_expenses_employee_status,priority:2;index:idx_expenses_level_status,priority:2" json:"status"`
	CurrentLevel string `gorm:"size:20;index:idx_expenses_level_status,priority:1" json:"current_level"`

	// Rejection record, set at most once
	RejectedByID *uint      `json:"rejected_by_id"`
	RejectedAt   *time.Time `json:"rejected_at"`
	RejectReason string     `gorm:"type:text" json:"reject_reason,omitempty"`

	// Payment record, set at most once
	PaidAt           *time.Time `json:"paid_at"`
	PaymentMethod    string     `gorm:"size:50" json:"payment_method,omitempty"`
	PaymentReference string     `gorm:"size:100" json:"payment_reference,omitempty"`
	PaidByID         *uint      `json:"paid_by_id"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Employee   *User            `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Category   *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Steps      []ApprovalStep   `gorm:"foreignKey:ExpenseRef" json:"approval_workflow,omitempty"`
	RejectedBy *User            `gorm:"foreignKey:RejectedByID" json:"rejected_by,omitempty"`
	PaidBy     *User            `gorm:"foreignKey:PaidByID" json:"paid_by,omitempty"`
	Comments   []ExpenseComment `gorm:"foreignKey:ExpenseRef" json:"comments,omitempty"`
}

func (Expense) TableName() string {
	return "expenses"
}

// ApprovalStep represents one required sign-off within a claim's workflow.
// Steps are fixed at creation; only Status/ApproverID/Comments/ActionDate
// change afterwards.
type ApprovalStep struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ExpenseRef uint       `gorm:"not null;index" json:"-"`
	StepOrder  int        `gorm:"not null" json:"step_order"`
	Level      string     `gorm:"size:20;not null" json:"level"`
	Status     string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	ApproverID *uint      `json:"approver_id"`
	Comments   string     `gorm:"type:text" json:"comments,omitempty"`
	ActionDate *time.Time `json:"action_date"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Approver *User `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
}

func (ApprovalStep) TableName() string {
	return "approval_steps"
}

// ExpenseComment represents free-form discussion on a claim
type ExpenseComment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExpenseRef uint      `gorm:"not null;index" json:"-"`
	UserID     uint      `gorm:"not null" json:"user_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ExpenseComment) TableName() string {
	return "expense_comments"
}

// StatusStat is a scan target for per-status aggregates
type StatusStat struct {
	Status      string  `json:"status"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// ExpenseResponse DTO
type ExpenseResponse struct {
	ID               uint           `json:"id"`
	ExpenseID        string         `json:"expense_id"`
	EmployeeID       uint           `json:"employee_id"`
	EmployeeName     string         `json:"employee_name,omitempty"`
	CategoryID       uint           `json:"category_id"`
	CategoryName     string         `json:"category_name,omitempty"`
	Amount           float64        `json:"amount"`
	Date             time.Time      `json:"date"`
	Vendor           string         `json:"vendor"`
	Description      string         `json:"description"`
	Receipt          string         `json:"receipt,omitempty"`
	Status           string         `json:"status"`
	CurrentLevel     string         `json:"current_level,omitempty"`
	ApprovalWorkflow []ApprovalStep `json:"approval_workflow"`
	RejectReason     string         `json:"reject_reason,omitempty"`
	RejectedAt       *time.Time     `json:"rejected_at,omitempty"`
	PaidAt           *time.Time     `json:"paid_at,omitempty"`
	PaymentMethod    string         `json:"payment_method,omitempty"`
	PaymentReference string         `json:"payment_reference,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (e *Expense) ToResponse() *ExpenseResponse {
	resp := &ExpenseResponse{
		ID:               e.ID,
		ExpenseID:        e.ExpenseID,
		EmployeeID:       e.EmployeeID,
		CategoryID:       e.CategoryID,
		Amount:           e.Amount,
		Date:             e.Date,
		Vendor:           e.Vendor,
		Description:      e.Description,
		Receipt:          e.Receipt,
		Status:           e.Status,
		CurrentLevel:     e.CurrentLevel,
		ApprovalWorkflow: e.Steps,
		RejectReason:     e.RejectReason,
		RejectedAt:       e.RejectedAt,
		PaidAt:           e.PaidAt,
		PaymentMethod:    e.PaymentMethod,
		PaymentReference: e.PaymentReference,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}

	if resp.ApprovalWorkflow == nil {
		resp.ApprovalWorkflow = []ApprovalStep{}
	}
	if e.Employee != nil {
		resp.EmployeeName = e.Employee.Name
	}
	if e.Category != nil {
		resp.CategoryName = e.Category.Name
	}

	return resp
}
