package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"expensehub/internal/adapters/persistence/models"
	"expensehub/internal/core/domain"

	"gorm.io/gorm"
)

// fakeExpenseRepo is an in-memory ExpenseRepository with the same guarded
// update semantics as the real one
type fakeExpenseRepo struct {
	expenses map[uint]*models.Expense
	nextID   uint

	// staleSnapshot, when set, is returned by the next GetByID call to
	// simulate a concurrent transition between read and update
	staleSnapshot *models.Expense
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{expenses: map[uint]*models.Expense{}, nextID: 1}
}

func copyExpense(e *models.Expense) *models.Expense {
	cp := *e
	cp.Steps = make([]models.ApprovalStep, len(e.Steps))
	copy(cp.Steps, e.Steps)
	return &cp
}

func (f *fakeExpenseRepo) Create(ctx context.Context, e *models.Expense) error {
	e.ID = f.nextID
	f.nextID++
	for i := range e.Steps {
		e.Steps[i].ID = e.ID*100 + uint(i)
		e.Steps[i].ExpenseRef = e.ID
	}
	f.expenses[e.ID] = copyExpense(e)
	return nil
}

func (f *fakeExpenseRepo) GetByID(ctx context.Context, id uint) (*models.Expense, error) {
	if f.staleSnapshot != nil {
		snap := f.staleSnapshot
		f.staleSnapshot = nil
		return copyExpense(snap), nil
	}
	e, ok := f.expenses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copyExpense(e), nil
}

func (f *fakeExpenseRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.expenses)), nil
}

func (f *fakeExpenseRepo) List(ctx context.Context, offset, limit int) ([]*models.Expense, int64, error) {
	return nil, 0, nil
}

func (f *fakeExpenseRepo) ListByEmployee(ctx context.Context, employeeID uint, offset, limit int) ([]*models.Expense, int64, error) {
	return nil, 0, nil
}

func (f *fakeExpenseRepo) ListPendingAtLevels(ctx context.Context, levels []string) ([]*models.Expense, error) {
	var out []*models.Expense
	for _, e := range f.expenses {
		for _, l := range levels {
			if e.CurrentLevel == l && e.Status == "pending_"+l {
				out = append(out, copyExpense(e))
			}
		}
	}
	return out, nil
}

func (f *fakeExpenseRepo) UpdateStateGuarded(ctx context.Context, expense *models.Expense, step *models.ApprovalStep, expectedStatus, expectedLevel string) error {
	stored, ok := f.expenses[expense.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Status != expectedStatus || stored.CurrentLevel != expectedLevel {
		return domain.ErrWorkflowConflict
	}

	stored.Status = expense.Status
	stored.CurrentLevel = expense.CurrentLevel
	stored.RejectedByID = expense.RejectedByID
	stored.RejectedAt = expense.RejectedAt
	stored.RejectReason = expense.RejectReason

	if step != nil {
		for i := range stored.Steps {
			if stored.Steps[i].ID == step.ID {
				if stored.Steps[i].Status != string(domain.StepPending) {
					return domain.ErrWorkflowConflict
				}
				stored.Steps[i].Status = step.Status
				stored.Steps[i].ApproverID = step.ApproverID
				stored.Steps[i].Comments = step.Comments
				stored.Steps[i].ActionDate = step.ActionDate
			}
		}
	}
	return nil
}

func (f *fakeExpenseRepo) UpdatePaymentGuarded(ctx context.Context, expense *models.Expense) error {
	stored, ok := f.expenses[expense.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Status != domain.StatusApproved.String() {
		return domain.ErrWorkflowConflict
	}
	stored.Status = expense.Status
	stored.PaidAt = expense.PaidAt
	stored.PaymentMethod = expense.PaymentMethod
	stored.PaymentReference = expense.PaymentReference
	stored.PaidByID = expense.PaidByID
	return nil
}

func (f *fakeExpenseRepo) AddComment(ctx context.Context, comment *models.ExpenseComment) error {
	return nil
}

func (f *fakeExpenseRepo) SumForEmployeeCategory(ctx context.Context, employeeID, categoryID uint, from, to time.Time) (float64, error) {
	return 0, nil
}

func (f *fakeExpenseRepo) StatusStatsByEmployee(ctx context.Context, employeeID uint) ([]*models.StatusStat, error) {
	return nil, nil
}

// seedClaim stores a claim with the workflow an amount of that size gets
func seedClaim(t *testing.T, repo *fakeExpenseRepo, amount float64, levels ...string) *models.Expense {
	t.Helper()

	e := &models.Expense{
		ExpenseID:   "EXP0001",
		EmployeeID:  10,
		CategoryID:  1,
		Amount:      amount,
		Date:        time.Now(),
		Vendor:      "Acme Travel",
		Description: "client visit",
	}
	if len(levels) == 0 {
		e.Status = domain.StatusApproved.String()
		e.CurrentLevel = string(domain.LevelCompleted)
	} else {
		e.Status = "pending_" + levels[0]
		e.CurrentLevel = levels[0]
		for i, l := range levels {
			e.Steps = append(e.Steps, models.ApprovalStep{
				StepOrder: i + 1,
				Level:     l,
				Status:    string(domain.StepPending),
			})
		}
	}
	if err := repo.Create(context.Background(), e); err != nil {
		t.Fatalf("seed claim: %v", err)
	}
	return e
}

func TestApproveAdvancesThroughLevels(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := NewApprovalService(repo, nil)
	ctx := context.Background()

	claim := seedClaim(t, repo, 30000, "manager", "finance")

	got, err := svc.Approve(ctx, claim.ID, 20, domain.RoleManager, "ok")
	if err != nil {
		t.Fatalf("manager approve: %v", err)
	}
	if got.Status != "pending_finance" || got.CurrentLevel != "finance" {
		t.Fatalf("after manager approve: status=%s level=%s", got.Status, got.CurrentLevel)
	}

	got, err = svc.Approve(ctx, claim.ID, 30, domain.RoleFinance, "ok")
	if err != nil {
		t.Fatalf("finance approve: %v", err)
	}
	if got.Status != "approved" || got.CurrentLevel != "completed" {
		t.Fatalf("after finance approve: status=%s level=%s", got.Status, got.CurrentLevel)
	}

	stored := repo.expenses[claim.ID]
	for _, s := range stored.Steps {
		if s.Status != string(domain.StepApproved) {
			t.Errorf("step %s not approved: %s", s.Level, s.Status)
		}
		if s.ApproverID == nil || s.ActionDate == nil {
			t.Errorf("step %s missing approver record", s.Level)
		}
	}
}

func TestApproveWrongRoleAtLevel(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := NewApprovalService(repo, nil)
	ctx := context.Background()

	claim := seedClaim(t, repo, 30000, "manager", "finance")

	if _, err := svc.Approve(ctx, claim.ID, 20, domain.RoleManager, ""); err != nil {
		t.Fatalf("manager approve: %v", err)
	}

	// Claim is now at the finance tier; a manager cannot act there
	if _, err := svc.Approve(ctx, claim.ID, 20, domain.RoleManager, ""); !errors.Is(err, domain.ErrWrongLevel) {
		t.Fatalf("manager at finance tier: got %v, want ErrWrongLevel", err)
	}

	// An admin can act at any tier
	if _, err := svc.Approve(ctx, claim.ID, 40, domain.RoleAdmin, ""); err != nil {
		t.Fatalf("admin at finance tier: %v", err)
	}
}

func TestRejectIsFinal(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := NewApprovalService(repo, nil)
	ctx := context.Background()

	claim := seedClaim(t, repo, 30000, "manager", "finance")

	got, err := svc.Reject(ctx, claim.ID, 20, domain.RoleManager, "no receipt attached")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got.Status != "rejected" || got.CurrentLevel != "completed" {
		t.Fatalf("after reject: status=%s level=%s", got.Status, got.CurrentLevel)
	}
	if got.RejectedByID == nil || *got.RejectedByID != 20 {
		t.Fatal("rejection record missing approver")
	}
	if got.RejectReason != "no receipt attached" {
		t.Fatalf("reject reason = %q", got.RejectReason)
	}

	// No further action is possible once rejected
	if _, err := svc.Approve(ctx, claim.ID, 30, domain.RoleFinance, ""); !errors.Is(err, domain.ErrNoPendingStep) {
		t.Fatalf("approve after reject: got %v, want ErrNoPendingStep", err)
	}
	if _, err := svc.Reject(ctx, claim.ID, 40, domain.RoleAdmin, "again"); !errors.Is(err, domain.ErrNoPendingStep) {
		t.Fatalf("reject after reject: got %v, want ErrNoPendingStep", err)
	}

	// The untouched finance step stays pending
	stored := repo.expenses[claim.ID]
	if stored.Steps[1].Status != string(domain.StepPending) {
		t.Fatalf("finance step after reject = %s, want pending", stored.Steps[1].Status)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := NewApprovalService(repo, nil)

	claim := seedClaim(t, repo, 10000, "manager")

	if _, err := svc.Reject(context.Background(), claim.ID, 20, domain.RoleManager, "   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("reject without reason: got %v, want ErrInvalidInput", err)
	}
}

func TestConcurrentApprovalConflicts(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := NewApprovalService(repo, nil)
	ctx := context.Background()

	claim := seedClaim(t, repo, 30000, "manager", "finance")

	// Capture the claim as a second approver would have read it
	stale := copyExpense(repo.expenses[claim.ID])

	if _, err := svc.Approve(ctx, claim.ID, 20, domain.RoleManager, ""); err != nil {
		t.Fatalf("first approve: %v", err)
	}

	// The second approver acts on the stale snapshot; the guard must miss
	repo.staleSnapshot = stale
	if _, err := svc.Approve(ctx, claim.ID, 21, domain.RoleManager, ""); !errors.Is(err, domain.ErrWorkflowConflict) {
		t.Fatalf("stale approve: got %v, want ErrWorkflowConflict", err)
	}

	// The stored claim is unchanged by the losing approver
	stored := repo.expenses[claim.ID]
	if stored.Status != "pending_finance" {
		t.Fatalf("status after conflict = %s", stored.Status)
	}
}

func TestApproveMissingExpense(t *testing.T) {
	svc := NewApprovalService(newFakeExpenseRepo(), nil)

	if _, err := svc.Approve(context.Background(), 99, 20, domain.RoleManager, ""); !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Fatalf("got %v, want ErrExpenseNotFound", err)
	}
}

func TestGetPendingApprovalsByRole(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := NewApprovalService(repo, nil)
	ctx := context.Background()

	seedClaim(t, repo, 10000, "manager")
	seedClaim(t, repo, 30000, "manager", "finance")
	atFinance := seedClaim(t, repo, 30000, "manager", "finance")
	if _, err := svc.Approve(ctx, atFinance.ID, 20, domain.RoleManager, ""); err != nil {
		t.Fatalf("advance to finance: %v", err)
	}

	managerQueue, err := svc.GetPendingApprovals(ctx, domain.RoleManager)
	if err != nil {
		t.Fatalf("manager queue: %v", err)
	}
	if len(managerQueue) != 2 {
		t.Fatalf("manager queue size = %d, want 2", len(managerQueue))
	}

	financeQueue, err := svc.GetPendingApprovals(ctx, domain.RoleFinance)
	if err != nil {
		t.Fatalf("finance queue: %v", err)
	}
	if len(financeQueue) != 1 {
		t.Fatalf("finance queue size = %d, want 1", len(financeQueue))
	}

	adminQueue, err := svc.GetPendingApprovals(ctx, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("admin queue: %v", err)
	}
	if len(adminQueue) != 3 {
		t.Fatalf("admin queue size = %d, want 3", len(adminQueue))
	}

	if _, err := svc.GetPendingApprovals(ctx, domain.RoleEmployee); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("employee queue: got %v, want ErrForbidden", err)
	}
}

func TestWorkflowHistoryVisibility(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := NewApprovalService(repo, nil)
	ctx := context.Background()

	claim := seedClaim(t, repo, 30000, "manager", "finance")

	if _, err := svc.GetWorkflowHistory(ctx, claim.ID, 10, domain.RoleEmployee); err != nil {
		t.Fatalf("owner history: %v", err)
	}
	if _, err := svc.GetWorkflowHistory(ctx, claim.ID, 11, domain.RoleEmployee); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("other employee history: got %v, want ErrForbidden", err)
	}
	if _, err := svc.GetWorkflowHistory(ctx, claim.ID, 40, domain.RoleAdmin); err != nil {
		t.Fatalf("admin history: %v", err)
	}
}
