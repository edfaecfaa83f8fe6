package models

import (
	"time"

	"gorm.io/gorm"
)

// Ticket categories
const (
	TicketCategoryRejectionDispute   = "rejection_dispute"
	TicketCategoryPaymentNotReceived = "payment_not_received"
	TicketCategoryGeneralQuery       = "general_query"
	TicketCategoryOther              = "other"
)

// Ticket statuses
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

// ValidTicketCategory checks a ticket category value
func ValidTicketCategory(c string) bool {
	switch c {
	case TicketCategoryRejectionDispute, TicketCategoryPaymentNotReceived,
		TicketCategoryGeneralQuery, TicketCategoryOther:
		return true
	}
	return false
}

// ValidTicketStatus checks a ticket status value
func ValidTicketStatus(s string) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Ticket represents support tickets
type Ticket struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TicketID    string         `gorm:"size:20;uniqueIndex;not null" json:"ticket_id"`
	EmployeeID  uint           `gorm:"not null;index" json:"employee_id"`
	ExpenseID   string         `gorm:"size:20" json:"expense_id,omitempty"`
	Subject     string         `gorm:"size:200;not null" json:"subject"`
	Category    string         `gorm:"size:30;not null" json:"category"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Status      string         `gorm:"size:20;not null;default:'open';index" json:"status"`
	Priority    string         `gorm:"size:10;default:'medium'" json:"priority"`
	ResolvedBy  *uint          `json:"resolved_by"`
	ResolvedAt  *time.Time     `json:"resolved_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Employee *User         `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Resolver *User         `gorm:"foreignKey:ResolvedBy" json:"resolver,omitempty"`
	Replies  []TicketReply `gorm:"foreignKey:TicketRef" json:"replies,omitempty"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// TicketReply represents one message on a ticket thread
type TicketReply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TicketRef uint      `gorm:"not null;index" json:"-"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (TicketReply) TableName() string {
	return "ticket_replies"
}
