package policy

import "testing"

func limit(v float64) *float64 { return &v }

func onePolicy(rules Rules) []Policy {
	return []Policy{{PolicyID: "POL001", Name: "Travel policy", Rules: rules}}
}

func TestEvaluate_MaxAmount(t *testing.T) {
	policies := onePolicy(Rules{MaxAmount: limit(10000)})

	report := Evaluate(policies, Input{Amount: 15000, Vendor: "Acme"})
	if report.IsCompliant {
		t.Error("over-limit amount should not be compliant")
	}
	if len(report.Violations) != 1 || report.Violations[0].Rule != "maxAmount" {
		t.Errorf("violations = %+v, want one maxAmount", report.Violations)
	}

	report = Evaluate(policies, Input{Amount: 10000, Vendor: "Acme"})
	if !report.IsCompliant {
		t.Error("amount at the limit should be compliant")
	}
}

func TestEvaluate_BlockedVendor(t *testing.T) {
	policies := onePolicy(Rules{BlockedVendors: []string{"casino", "Liquor"}})

	tests := []struct {
		vendor  string
		blocked bool
	}{
		{"Grand Casino Resort", true}, // case-insensitive substring
		{"liquor mart", true},
		{"Office Depot", false},
	}

	for _, tt := range tests {
		report := Evaluate(policies, Input{Amount: 100, Vendor: tt.vendor})
		if got := !report.IsCompliant; got != tt.blocked {
			t.Errorf("vendor %q blocked = %v, want %v", tt.vendor, got, tt.blocked)
		}
	}
}

func TestEvaluate_AllowedVendorsWarnOnly(t *testing.T) {
	policies := onePolicy(Rules{AllowedVendors: []string{"uber", "lyft"}})

	report := Evaluate(policies, Input{Amount: 100, Vendor: "Joe's Taxi"})
	if !report.IsCompliant {
		t.Error("unlisted vendor must warn, not violate")
	}
	if len(report.Warnings) != 1 || report.Warnings[0].Rule != "allowedVendors" {
		t.Errorf("warnings = %+v, want one allowedVendors", report.Warnings)
	}

	report = Evaluate(policies, Input{Amount: 100, Vendor: "Uber BV"})
	if len(report.Warnings) != 0 {
		t.Errorf("listed vendor raised warnings: %+v", report.Warnings)
	}
}

func TestEvaluate_MaxPerDay(t *testing.T) {
	policies := onePolicy(Rules{MaxPerDay: limit(1000)})

	// Existing same-day spend 600: a further 500 breaks the limit (1100),
	// a further 300 stays under it (900)
	report := Evaluate(policies, Input{Amount: 500, Vendor: "Cafe", DayTotal: 600})
	if report.IsCompliant {
		t.Error("600+500 over a 1000 daily limit should violate")
	}
	if report.Violations[0].Rule != "maxPerDay" {
		t.Errorf("rule = %q, want maxPerDay", report.Violations[0].Rule)
	}

	report = Evaluate(policies, Input{Amount: 300, Vendor: "Cafe", DayTotal: 600})
	if !report.IsCompliant {
		t.Errorf("600+300 under a 1000 daily limit should pass, got %+v", report.Violations)
	}
}

func TestEvaluate_MaxPerMonth(t *testing.T) {
	policies := onePolicy(Rules{MaxPerMonth: limit(20000)})

	report := Evaluate(policies, Input{Amount: 5000, Vendor: "Hotel", MonthTotal: 19000})
	if report.IsCompliant {
		t.Error("19000+5000 over a 20000 monthly limit should violate")
	}

	report = Evaluate(policies, Input{Amount: 1000, Vendor: "Hotel", MonthTotal: 19000})
	if !report.IsCompliant {
		t.Error("19000+1000 at the monthly limit should pass")
	}
}

func TestEvaluate_ApprovalThresholdWarning(t *testing.T) {
	policies := onePolicy(Rules{RequiresManagerApproval: true, RequiresApprovalAbove: 5000})

	report := Evaluate(policies, Input{Amount: 8000, Vendor: "Airline"})
	if !report.IsCompliant {
		t.Error("approval threshold is informational, must not block")
	}
	if len(report.Warnings) != 1 || report.Warnings[0].Rule != "requiresManagerApproval" {
		t.Errorf("warnings = %+v, want one requiresManagerApproval", report.Warnings)
	}
}

func TestEvaluate_MultiplePolicies(t *testing.T) {
	policies := []Policy{
		{PolicyID: "POL001", Name: "Category cap", Rules: Rules{MaxAmount: limit(2000)}},
		{PolicyID: "POL002", Name: "Vendor rules", Rules: Rules{BlockedVendors: []string{"casino"}}},
	}

	report := Evaluate(policies, Input{Amount: 3000, Vendor: "Lucky Casino"})
	if len(report.Violations) != 2 {
		t.Errorf("violations = %d, want 2 (one per policy)", len(report.Violations))
	}
}

func TestEvaluate_NoPolicies(t *testing.T) {
	report := Evaluate(nil, Input{Amount: 99999, Vendor: "Anything"})
	if !report.IsCompliant {
		t.Error("no active policies means compliant")
	}
	if report.Violations == nil || report.Warnings == nil {
		t.Error("findings slices must be non-nil for JSON encoding")
	}
}
