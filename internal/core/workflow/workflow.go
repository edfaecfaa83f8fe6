// Package workflow implements the amount-tiered approval workflow engine.
// It is pure state logic: services load the claim, call into this package to
// decide transitions, and persist the result.
package workflow

import "expensehub/internal/core/domain"

// Approval tier thresholds. A tier is added only when the amount strictly
// exceeds its threshold, so a claim of exactly 5000 needs no approval at all.
const (
	ManagerThreshold = 5000
	FinanceThreshold = 25000
	AdminThreshold   = 50000
)

// Step is the engine's view of one approval step
type Step struct {
	Level  domain.Level
	Status domain.StepStatus
}

// Init is the computed starting point of a claim's workflow
type Init struct {
	Levels       []domain.Level
	Status       domain.Status
	CurrentLevel domain.Level
}

// RequiredLevels returns the ordered approval levels the amount requires
func RequiredLevels(amount float64) []domain.Level {
	var levels []domain.Level
	if amount > ManagerThreshold {
		levels = append(levels, domain.LevelManager)
	}
	if amount > FinanceThreshold {
		levels = append(levels, domain.LevelFinance)
	}
	if amount > AdminThreshold {
		levels = append(levels, domain.LevelAdmin)
	}
	return levels
}

// Initialize computes the workflow for a newly submitted claim. Claims below
// every tier are auto-approved with an empty workflow.
func Initialize(amount float64) Init {
	levels := RequiredLevels(amount)
	if len(levels) == 0 {
		return Init{
			Status:       domain.StatusApproved,
			CurrentLevel: domain.LevelCompleted,
		}
	}

	return Init{
		Levels:       levels,
		Status:       domain.PendingAt(levels[0]),
		CurrentLevel: levels[0],
	}
}

// CanActAt reports whether a role may approve or reject at the given level.
// Admins act at any level; managers and finance only at their own tier.
func CanActAt(role domain.Role, level domain.Level) bool {
	switch role {
	case domain.RoleAdmin:
		return level == domain.LevelManager || level == domain.LevelFinance || level == domain.LevelAdmin
	case domain.RoleManager:
		return level == domain.LevelManager
	case domain.RoleFinance:
		return level == domain.LevelFinance
	}
	return false
}

// ActionableLevels returns the levels a role may act at, for pending queries
func ActionableLevels(role domain.Role) []domain.Level {
	switch role {
	case domain.RoleAdmin:
		return []domain.Level{domain.LevelManager, domain.LevelFinance, domain.LevelAdmin}
	case domain.RoleManager:
		return []domain.Level{domain.LevelManager}
	case domain.RoleFinance:
		return []domain.Level{domain.LevelFinance}
	}
	return nil
}

// ActiveIndex returns the index of the active step: the lowest-index step
// still pending. Returns -1 when no step is pending (workflow complete or
// rejected).
func ActiveIndex(steps []Step) int {
	for i, s := range steps {
		if s.Status == domain.StepPending {
			return i
		}
	}
	return -1
}

// NextPending returns the level of the first pending step, or LevelCompleted
// when none remain
func NextPending(steps []Step) domain.Level {
	if i := ActiveIndex(steps); i >= 0 {
		return steps[i].Level
	}
	return domain.LevelCompleted
}

// Advance is the result of applying an approval to the active step
type Advance struct {
	StepIndex int // index of the step that was approved
	NextLevel domain.Level
	Status    domain.Status
	Completed bool // true when every step is now approved
}

// Approve applies an approval at the claim's current level. It fails with
// ErrWrongLevel when the role cannot act at currentLevel, and with
// ErrNoPendingStep when no step at that level awaits action (already
// advanced, rejected, or auto-approved).
func Approve(steps []Step, currentLevel domain.Level, role domain.Role) (Advance, error) {
	if currentLevel == domain.LevelCompleted || currentLevel == "" {
		return Advance{}, domain.ErrNoPendingStep
	}
	if !CanActAt(role, currentLevel) {
		return Advance{}, domain.ErrWrongLevel
	}

	idx := -1
	for i, s := range steps {
		if s.Level == currentLevel && s.Status == domain.StepPending {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Advance{}, domain.ErrNoPendingStep
	}

	// Resolve the step after the one just approved
	remaining := make([]Step, len(steps))
	copy(remaining, steps)
	remaining[idx].Status = domain.StepApproved

	next := NextPending(remaining)
	adv := Advance{StepIndex: idx, NextLevel: next}
	if next == domain.LevelCompleted {
		adv.Status = domain.StatusApproved
		adv.Completed = true
	} else {
		adv.Status = domain.PendingAt(next)
	}
	return adv, nil
}

// Reject applies a rejection at the claim's current level. Rejection is
// final: the remaining steps are never touched and the claim cannot be
// resurrected. Returns the index of the rejected step.
func Reject(steps []Step, currentLevel domain.Level, role domain.Role) (int, error) {
	if currentLevel == domain.LevelCompleted || currentLevel == "" {
		return 0, domain.ErrNoPendingStep
	}
	if !CanActAt(role, currentLevel) {
		return 0, domain.ErrWrongLevel
	}

	for i, s := range steps {
		if s.Level == currentLevel && s.Status == domain.StepPending {
			return i, nil
		}
	}
	return 0, domain.ErrNoPendingStep
}
