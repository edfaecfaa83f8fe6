package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleFinance  Role = "finance"
	RoleAdmin    Role = "admin"
)

// ValidRole checks whether the given role is one the system knows
func ValidRole(r Role) bool {
	switch r {
	case RoleEmployee, RoleManager, RoleFinance, RoleAdmin:
		return true
	}
	return false
}

// Level represents an approval authority tier
type Level string

const (
	LevelManager Level = "manager"
	LevelFinance Level = "finance"
	LevelAdmin   Level = "admin"
	// LevelCompleted marks a workflow with no pending step left
	LevelCompleted Level = "completed"
)

// StepStatus represents the state of a single approval step
type StepStatus string

const (
	StepPending  StepStatus = "pending"
	StepApproved StepStatus = "approved"
	StepRejected StepStatus = "rejected"
)

// User represents a user in the domain layer
type User struct {
	ID         uint
	EmployeeNo string
	Name       string
	Email      string
	Password   string // Hashed
	Role       Role
	Department string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RefreshToken represents a refresh token in the domain
type RefreshToken struct {
	ID        uint
	UserID    uint
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
