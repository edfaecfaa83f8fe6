package workflow

import (
	"errors"
	"testing"

	"expensehub/internal/core/domain"
)

func TestRequiredLevels(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   []domain.Level
	}{
		{"zero", 0, nil},
		{"below manager tier", 4999.99, nil},
		{"exactly manager threshold", 5000, nil},
		{"just above manager threshold", 5001, []domain.Level{domain.LevelManager}},
		{"exactly finance threshold", 25000, []domain.Level{domain.LevelManager}},
		{"just above finance threshold", 25001, []domain.Level{domain.LevelManager, domain.LevelFinance}},
		{"exactly admin threshold", 50000, []domain.Level{domain.LevelManager, domain.LevelFinance}},
		{"just above admin threshold", 50001, []domain.Level{domain.LevelManager, domain.LevelFinance, domain.LevelAdmin}},
		{"large amount", 1000000, []domain.Level{domain.LevelManager, domain.LevelFinance, domain.LevelAdmin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequiredLevels(tt.amount)
			if len(got) != len(tt.want) {
				t.Fatalf("RequiredLevels(%v) = %v, want %v", tt.amount, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("RequiredLevels(%v)[%d] = %v, want %v", tt.amount, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestInitialize_AutoApprove(t *testing.T) {
	for _, amount := range []float64{0, 100, 5000} {
		init := Initialize(amount)
		if len(init.Levels) != 0 {
			t.Errorf("Initialize(%v).Levels = %v, want empty", amount, init.Levels)
		}
		if init.Status != domain.StatusApproved {
			t.Errorf("Initialize(%v).Status = %v, want approved", amount, init.Status)
		}
		if init.CurrentLevel != domain.LevelCompleted {
			t.Errorf("Initialize(%v).CurrentLevel = %v, want completed", amount, init.CurrentLevel)
		}
	}
}

func TestInitialize_Tiered(t *testing.T) {
	init := Initialize(30000)
	if len(init.Levels) != 2 {
		t.Fatalf("Initialize(30000).Levels = %v, want [manager finance]", init.Levels)
	}
	if init.CurrentLevel != domain.LevelManager {
		t.Errorf("CurrentLevel = %v, want manager", init.CurrentLevel)
	}
	if init.Status.String() != "pending_manager" {
		t.Errorf("Status = %q, want pending_manager", init.Status.String())
	}
}

func TestCanActAt(t *testing.T) {
	tests := []struct {
		role  domain.Role
		level domain.Level
		want  bool
	}{
		{domain.RoleAdmin, domain.LevelManager, true},
		{domain.RoleAdmin, domain.LevelFinance, true},
		{domain.RoleAdmin, domain.LevelAdmin, true},
		{domain.RoleManager, domain.LevelManager, true},
		{domain.RoleManager, domain.LevelFinance, false},
		{domain.RoleManager, domain.LevelAdmin, false},
		{domain.RoleFinance, domain.LevelFinance, true},
		{domain.RoleFinance, domain.LevelManager, false},
		{domain.RoleEmployee, domain.LevelManager, false},
		{domain.RoleAdmin, domain.LevelCompleted, false},
	}

	for _, tt := range tests {
		if got := CanActAt(tt.role, tt.level); got != tt.want {
			t.Errorf("CanActAt(%s, %s) = %v, want %v", tt.role, tt.level, got, tt.want)
		}
	}
}

func pendingSteps(levels ...domain.Level) []Step {
	steps := make([]Step, len(levels))
	for i, l := range levels {
		steps[i] = Step{Level: l, Status: domain.StepPending}
	}
	return steps
}

func TestApprove_AdvancesToNextLevel(t *testing.T) {
	steps := pendingSteps(domain.LevelManager, domain.LevelFinance)

	adv, err := Approve(steps, domain.LevelManager, domain.RoleManager)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if adv.StepIndex != 0 {
		t.Errorf("StepIndex = %d, want 0", adv.StepIndex)
	}
	if adv.NextLevel != domain.LevelFinance {
		t.Errorf("NextLevel = %v, want finance", adv.NextLevel)
	}
	if adv.Completed {
		t.Error("Completed = true, want false")
	}
	if adv.Status.String() != "pending_finance" {
		t.Errorf("Status = %q, want pending_finance", adv.Status.String())
	}
}

func TestApprove_LastStepCompletes(t *testing.T) {
	steps := []Step{
		{Level: domain.LevelManager, Status: domain.StepApproved},
		{Level: domain.LevelFinance, Status: domain.StepPending},
	}

	adv, err := Approve(steps, domain.LevelFinance, domain.RoleFinance)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if !adv.Completed {
		t.Error("Completed = false, want true")
	}
	if adv.NextLevel != domain.LevelCompleted {
		t.Errorf("NextLevel = %v, want completed", adv.NextLevel)
	}
	if adv.Status != domain.StatusApproved {
		t.Errorf("Status = %v, want approved", adv.Status)
	}
}

func TestApprove_WrongRole(t *testing.T) {
	steps := pendingSteps(domain.LevelManager, domain.LevelFinance)

	// Manager has no authority once the claim sits at the finance tier
	steps[0].Status = domain.StepApproved
	_, err := Approve(steps, domain.LevelFinance, domain.RoleManager)
	if !errors.Is(err, domain.ErrWrongLevel) {
		t.Errorf("Approve() error = %v, want ErrWrongLevel", err)
	}

	// Admin may act at any tier
	if _, err := Approve(steps, domain.LevelFinance, domain.RoleAdmin); err != nil {
		t.Errorf("admin Approve() error = %v, want nil", err)
	}
}

func TestApprove_NoPendingStep(t *testing.T) {
	// Completed workflow
	_, err := Approve(nil, domain.LevelCompleted, domain.RoleAdmin)
	if !errors.Is(err, domain.ErrNoPendingStep) {
		t.Errorf("completed workflow: error = %v, want ErrNoPendingStep", err)
	}

	// Step at claimed level already resolved
	steps := []Step{{Level: domain.LevelManager, Status: domain.StepApproved}}
	_, err = Approve(steps, domain.LevelManager, domain.RoleAdmin)
	if !errors.Is(err, domain.ErrNoPendingStep) {
		t.Errorf("resolved step: error = %v, want ErrNoPendingStep", err)
	}
}

func TestApprove_CountInvariant(t *testing.T) {
	// After each approval exactly one more step is approved and the current
	// level equals the first remaining pending step
	steps := pendingSteps(domain.LevelManager, domain.LevelFinance, domain.LevelAdmin)
	current := domain.LevelManager

	for round := 1; round <= 3; round++ {
		adv, err := Approve(steps, current, domain.RoleAdmin)
		if err != nil {
			t.Fatalf("round %d: Approve() error = %v", round, err)
		}
		steps[adv.StepIndex].Status = domain.StepApproved

		approved := 0
		for _, s := range steps {
			if s.Status == domain.StepApproved {
				approved++
			}
		}
		if approved != round {
			t.Fatalf("round %d: approved steps = %d, want %d", round, approved, round)
		}
		if got := NextPending(steps); got != adv.NextLevel {
			t.Fatalf("round %d: NextPending = %v, advance said %v", round, got, adv.NextLevel)
		}
		current = adv.NextLevel
	}

	if current != domain.LevelCompleted {
		t.Errorf("final level = %v, want completed", current)
	}
}

func TestReject_LocatesActiveStep(t *testing.T) {
	steps := pendingSteps(domain.LevelManager, domain.LevelFinance)

	idx, err := Reject(steps, domain.LevelManager, domain.RoleManager)
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if idx != 0 {
		t.Errorf("Reject() index = %d, want 0", idx)
	}
}

func TestReject_IsFinal(t *testing.T) {
	// Submit 30000 -> [manager finance]; reject at manager; any further
	// action must fail because no step at the current level is pending
	steps := pendingSteps(domain.LevelManager, domain.LevelFinance)
	idx, err := Reject(steps, domain.LevelManager, domain.RoleManager)
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	steps[idx].Status = domain.StepRejected

	// After rejection the claim carries currentLevel = completed
	_, err = Approve(steps, domain.LevelCompleted, domain.RoleFinance)
	if !errors.Is(err, domain.ErrNoPendingStep) {
		t.Errorf("approve after reject: error = %v, want ErrNoPendingStep", err)
	}
	_, err = Reject(steps, domain.LevelCompleted, domain.RoleAdmin)
	if !errors.Is(err, domain.ErrNoPendingStep) {
		t.Errorf("reject after reject: error = %v, want ErrNoPendingStep", err)
	}
}

func TestReject_WrongRole(t *testing.T) {
	steps := pendingSteps(domain.LevelFinance)
	_, err := Reject(steps, domain.LevelFinance, domain.RoleManager)
	if !errors.Is(err, domain.ErrWrongLevel) {
		t.Errorf("Reject() error = %v, want ErrWrongLevel", err)
	}
}

func TestActionableLevels(t *testing.T) {
	if got := ActionableLevels(domain.RoleEmployee); got != nil {
		t.Errorf("employee levels = %v, want nil", got)
	}
	if got := ActionableLevels(domain.RoleAdmin); len(got) != 3 {
		t.Errorf("admin levels = %v, want three", got)
	}
}
