package services

import (
	"context"
	"errors"
	"testing"

	"expensehub/internal/core/domain"
)

func TestProcessPaymentRoundTrip(t *testing.T) {
	repo := newFakeExpenseRepo()
	approvals := NewApprovalService(repo, nil)
	expenses := NewExpenseService(repo, nil, nil, nil)
	ctx := context.Background()

	claim := seedClaim(t, repo, 10000, "manager")

	if _, err := approvals.Approve(ctx, claim.ID, 20, domain.RoleManager, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	paid, err := expenses.ProcessPayment(ctx, claim.ID, 30, "bank_transfer", "TXN-1001")
	if err != nil {
		t.Fatalf("process payment: %v", err)
	}
	if paid.Status != "paid" {
		t.Fatalf("status after payment = %s", paid.Status)
	}
	if paid.PaidAt == nil || paid.PaidByID == nil || *paid.PaidByID != 30 {
		t.Fatal("payment record incomplete")
	}
	if paid.PaymentReference != "TXN-1001" {
		t.Fatalf("payment reference = %q", paid.PaymentReference)
	}

	// A claim can be paid exactly once
	if _, err := expenses.ProcessPayment(ctx, claim.ID, 30, "bank_transfer", "TXN-1002"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("second payment: got %v, want ErrInvalidState", err)
	}
}

func TestProcessPaymentRequiresApproval(t *testing.T) {
	repo := newFakeExpenseRepo()
	expenses := NewExpenseService(repo, nil, nil, nil)
	ctx := context.Background()

	pending := seedClaim(t, repo, 10000, "manager")
	if _, err := expenses.ProcessPayment(ctx, pending.ID, 30, "bank_transfer", "TXN-1"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("pay pending claim: got %v, want ErrInvalidState", err)
	}

	rejected := seedClaim(t, repo, 10000, "manager")
	approvals := NewApprovalService(repo, nil)
	if _, err := approvals.Reject(ctx, rejected.ID, 20, domain.RoleManager, "not reimbursable"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := expenses.ProcessPayment(ctx, rejected.ID, 30, "bank_transfer", "TXN-2"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("pay rejected claim: got %v, want ErrInvalidState", err)
	}
}

func TestAutoApprovedClaimIsPayable(t *testing.T) {
	repo := newFakeExpenseRepo()
	expenses := NewExpenseService(repo, nil, nil, nil)
	ctx := context.Background()

	// Amounts at or below the first tier carry no workflow at all
	claim := seedClaim(t, repo, 4500)

	paid, err := expenses.ProcessPayment(ctx, claim.ID, 30, "cash", "TXN-3")
	if err != nil {
		t.Fatalf("pay auto-approved claim: %v", err)
	}
	if paid.Status != "paid" {
		t.Fatalf("status = %s", paid.Status)
	}
}

func TestExpenseVisibility(t *testing.T) {
	repo := newFakeExpenseRepo()
	expenses := NewExpenseService(repo, nil, nil, nil)
	ctx := context.Background()

	claim := seedClaim(t, repo, 10000, "manager")

	if _, err := expenses.GetByID(ctx, claim.ID, 10, domain.RoleEmployee); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := expenses.GetByID(ctx, claim.ID, 11, domain.RoleEmployee); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("other employee read: got %v, want ErrForbidden", err)
	}
	if _, err := expenses.GetByID(ctx, claim.ID, 30, domain.RoleFinance); err != nil {
		t.Fatalf("finance read: %v", err)
	}
	if _, err := expenses.GetByID(ctx, 999, 10, domain.RoleEmployee); !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Fatalf("missing claim: got %v, want ErrExpenseNotFound", err)
	}
}
