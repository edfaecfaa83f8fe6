package domain

import (
	"fmt"
	"strings"
)

// Phase represents the lifecycle phase of an expense claim
type Phase string

const (
	PhasePending  Phase = "pending"
	PhaseApproved Phase = "approved"
	PhaseRejected Phase = "rejected"
	PhasePaid     Phase = "paid"
)

// Status combines the lifecycle phase with the active approval level.
// Level is set only while Phase is PhasePending; a pending claim at the
// manager tier serializes to "pending_manager". This keeps the stored
// status and the current approval level from drifting apart.
type Status struct {
	Phase Phase
	Level Level
}

var (
	StatusApproved = Status{Phase: PhaseApproved}
	StatusRejected = Status{Phase: PhaseRejected}
	StatusPaid     = Status{Phase: PhasePaid}
)

// PendingAt returns the pending status for the given approval level
func PendingAt(level Level) Status {
	return Status{Phase: PhasePending, Level: level}
}

// String serializes the status to its wire form ("pending_manager",
// "approved", ...)
func (s Status) String() string {
	if s.Phase == PhasePending && s.Level != "" {
		return fmt.Sprintf("pending_%s", s.Level)
	}
	return string(s.Phase)
}

// IsPending reports whether the claim still awaits at least one approval
func (s Status) IsPending() bool {
	return s.Phase == PhasePending
}

// IsTerminal reports whether no further approval action is possible.
// Approved claims are terminal for the workflow but may still be paid.
func (s Status) IsTerminal() bool {
	return s.Phase != PhasePending
}

// ParseStatus parses a wire status string back into a Status
func ParseStatus(raw string) (Status, error) {
	switch raw {
	case string(PhaseApproved):
		return StatusApproved, nil
	case string(PhaseRejected):
		return StatusRejected, nil
	case string(PhasePaid):
		return StatusPaid, nil
	case string(PhasePending):
		// Bare "pending" appears only before workflow initialization
		return Status{Phase: PhasePending}, nil
	}

	if level, ok := strings.CutPrefix(raw, "pending_"); ok {
		switch Level(level) {
		case LevelManager, LevelFinance, LevelAdmin:
			return PendingAt(Level(level)), nil
		}
	}

	return Status{}, fmt.Errorf("unknown expense status %q", raw)
}
