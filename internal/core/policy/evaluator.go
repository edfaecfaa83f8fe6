// Package policy evaluates expense claims against active spending policies.
// The evaluation is advisory: violations and warnings are reported to the
// submitter, nothing here blocks submission or mutates state.
package policy

import (
	"fmt"
	"strings"
)

// Rules holds the configurable limits of one policy. Nil numeric limits mean
// no limit; empty vendor lists mean no restriction.
type Rules struct {
	MaxAmount               *float64
	RequiresReceipt         bool
	RequiresApprovalAbove   float64
	AllowedVendors          []string
	BlockedVendors          []string
	MaxPerDay               *float64
	MaxPerMonth             *float64
	RequiresManagerApproval bool
}

// Policy is the evaluator's view of one active policy
type Policy struct {
	PolicyID string
	Name     string
	Rules    Rules
}

// Input describes the proposed expense being checked
type Input struct {
	Amount float64
	Vendor string
	// DayTotal and MonthTotal are the actor's existing same-category spend
	// on the expense's calendar day and month, excluding the new amount
	DayTotal   float64
	MonthTotal float64
}

// Finding is a single violation or warning raised by a rule
type Finding struct {
	PolicyID   string `json:"policy_id"`
	PolicyName string `json:"policy_name"`
	Rule       string `json:"rule"`
	Message    string `json:"message"`
	Severity   string `json:"severity"`
}

// Report is the outcome of a compliance check
type Report struct {
	IsCompliant bool      `json:"is_compliant"`
	Violations  []Finding `json:"violations"`
	Warnings    []Finding `json:"warnings"`
}

// Evaluate checks the proposed expense against every supplied policy.
// Violations make the report non-compliant; warnings never do.
func Evaluate(policies []Policy, in Input) Report {
	report := Report{
		Violations: []Finding{},
		Warnings:   []Finding{},
	}

	for _, p := range policies {
		r := p.Rules

		if r.MaxAmount != nil && in.Amount > *r.MaxAmount {
			report.Violations = append(report.Violations, Finding{
				PolicyID:   p.PolicyID,
				PolicyName: p.Name,
				Rule:       "maxAmount",
				Message:    fmt.Sprintf("Amount %.2f exceeds policy limit of %.2f", in.Amount, *r.MaxAmount),
				Severity:   "high",
			})
		}

		if len(r.BlockedVendors) > 0 && vendorMatches(in.Vendor, r.BlockedVendors) {
			report.Violations = append(report.Violations, Finding{
				PolicyID:   p.PolicyID,
				PolicyName: p.Name,
				Rule:       "blockedVendor",
				Message:    fmt.Sprintf("Vendor %q is in the blocked list", in.Vendor),
				Severity:   "high",
			})
		}

		if len(r.AllowedVendors) > 0 && !vendorMatches(in.Vendor, r.AllowedVendors) {
			report.Warnings = append(report.Warnings, Finding{
				PolicyID:   p.PolicyID,
				PolicyName: p.Name,
				Rule:       "allowedVendors",
				Message:    fmt.Sprintf("Vendor %q is not in the approved vendor list", in.Vendor),
				Severity:   "medium",
			})
		}

		if r.MaxPerDay != nil {
			if total := in.DayTotal + in.Amount; total > *r.MaxPerDay {
				report.Violations = append(report.Violations, Finding{
					PolicyID:   p.PolicyID,
					PolicyName: p.Name,
					Rule:       "maxPerDay",
					Message:    fmt.Sprintf("Daily limit exceeded: %.2f (limit: %.2f)", total, *r.MaxPerDay),
					Severity:   "high",
				})
			}
		}

		if r.MaxPerMonth != nil {
			if total := in.MonthTotal + in.Amount; total > *r.MaxPerMonth {
				report.Violations = append(report.Violations, Finding{
					PolicyID:   p.PolicyID,
					PolicyName: p.Name,
					Rule:       "maxPerMonth",
					Message:    fmt.Sprintf("Monthly limit exceeded: %.2f (limit: %.2f)", total, *r.MaxPerMonth),
					Severity:   "high",
				})
			}
		}

		// Informational only: workflow tiering enforces approvals on its own
		if r.RequiresManagerApproval && in.Amount > r.RequiresApprovalAbove {
			report.Warnings = append(report.Warnings, Finding{
				PolicyID:   p.PolicyID,
				PolicyName: p.Name,
				Rule:       "requiresManagerApproval",
				Message:    fmt.Sprintf("Amount exceeds %.2f. Manager approval required.", r.RequiresApprovalAbove),
				Severity:   "medium",
			})
		}
	}

	report.IsCompliant = len(report.Violations) == 0
	return report
}

// vendorMatches reports whether the vendor contains any of the terms,
// case-insensitively
func vendorMatches(vendor string, terms []string) bool {
	v := strings.ToLower(vendor)
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(v, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
