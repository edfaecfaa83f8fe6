package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidPassword   = errors.New("invalid password")
)

// Workflow errors
var (
	ErrExpenseNotFound = errors.New("expense not found")
	// ErrWrongLevel means the actor's role does not authorize action at the
	// claim's current approval level
	ErrWrongLevel = errors.New("role not authorized at current approval level")
	// ErrNoPendingStep means the workflow holds no step awaiting action
	ErrNoPendingStep = errors.New("no pending approval step")
	// ErrWorkflowConflict means the claim transitioned concurrently between
	// read and guarded update
	ErrWorkflowConflict = errors.New("expense workflow changed concurrently")
	// ErrInvalidState guards one-way transitions, e.g. paying a claim that
	// is not approved
	ErrInvalidState = errors.New("operation not allowed in current state")
)
