package domain

import "testing"

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{PendingAt(LevelManager), "pending_manager"},
		{PendingAt(LevelFinance), "pending_finance"},
		{PendingAt(LevelAdmin), "pending_admin"},
		{StatusApproved, "approved"},
		{StatusRejected, "rejected"},
		{StatusPaid, "paid"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status%+v.String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"pending_manager", "pending_finance", "pending_admin", "pending", "approved", "rejected", "paid"} {
		status, err := ParseStatus(raw)
		if err != nil {
			t.Errorf("ParseStatus(%q) error = %v", raw, err)
			continue
		}
		if status.String() != raw {
			t.Errorf("ParseStatus(%q).String() = %q", raw, status.String())
		}
	}
}

func TestParseStatus_Invalid(t *testing.T) {
	for _, raw := range []string{"", "pending_", "pending_ceo", "done", "PAID"} {
		if _, err := ParseStatus(raw); err == nil {
			t.Errorf("ParseStatus(%q) error = nil, want error", raw)
		}
	}
}

func TestStatusPhaseChecks(t *testing.T) {
	if !PendingAt(LevelManager).IsPending() {
		t.Error("pending_manager should be pending")
	}
	if PendingAt(LevelManager).IsTerminal() {
		t.Error("pending_manager should not be terminal")
	}
	for _, s := range []Status{StatusApproved, StatusRejected, StatusPaid} {
		if s.IsPending() {
			t.Errorf("%v should not be pending", s)
		}
		if !s.IsTerminal() {
			t.Errorf("%v should be terminal", s)
		}
	}
}
