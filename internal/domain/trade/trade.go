// Package trade decides whether a proposed salary exchange is legal under the apron rules.
//
// Only the proposing team's pre-trade payroll is checked; the receiving side
// is vetted by its GM and the approver before acceptance.
package trade

import (
	"fmt"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/capmath"
	"github.com/shopspring/decimal"
)

// Rule names the check that refused a trade.
type Rule string

const (
	RuleHardCap Rule = "hard_cap"
	RuleApron   Rule = "apron"
)

// DefaultApronMultiplier lets a team over the soft cap take back up to 30% more than it sends.
var DefaultApronMultiplier = decimal.RequireFromString("1.30")

// Violation is the typed refusal; it unwraps to ErrCapViolation.
type Violation struct {
	Rule     Rule
	Total    decimal.Decimal
	Outgoing decimal.Decimal
	Incoming decimal.Decimal
	// Limit is the highest legal incoming salary.
	Limit decimal.Decimal
}

func (v *Violation) Error() string {
	switch v.Rule {
	case RuleHardCap:
		return fmt.Sprintf("team payroll $%sM is over the hard cap: incoming salary $%sM may not exceed outgoing $%sM",
			v.Total, v.Incoming, v.Outgoing)
	default:
		return fmt.Sprintf("team payroll $%sM is over the soft cap: incoming salary $%sM exceeds the apron limit $%sM (outgoing $%sM)",
			v.Total, v.Incoming, v.Limit, v.Outgoing)
	}
}

func (v *Violation) Unwrap() error { return ErrCapViolation }

// Validator applies the apron rules with a configurable multiplier.
type Validator struct {
	apron decimal.Decimal
}

// NewValidator returns a Validator; a multiplier below 1 falls back to the default.
func NewValidator(apronMultiplier decimal.Decimal) *Validator {
	if apronMultiplier.LessThan(decimal.NewFromInt(1)) {
		apronMultiplier = DefaultApronMultiplier
	}
	return &Validator{apron: apronMultiplier}
}

// Validate returns nil when the exchange is legal for the sending team, or a *Violation.
//
//  1. Over the hard cap: incoming must not exceed outgoing.
//  2. Over the soft cap: incoming must not exceed outgoing * multiplier.
//  3. Otherwise no salary matching applies.
func (v *Validator) Validate(sender capmath.State, outgoing, incoming decimal.Decimal) error {
	switch sender.Status {
	case capmath.OverHardCap:
		if incoming.GreaterThan(outgoing) {
			return &Violation{Rule: RuleHardCap, Total: sender.Total, Outgoing: outgoing, Incoming: incoming, Limit: outgoing}
		}
	case capmath.OverSoftCap:
		limit := outgoing.Mul(v.apron)
		if incoming.GreaterThan(limit) {
			return &Violation{Rule: RuleApron, Total: sender.Total, Outgoing: outgoing, Incoming: incoming, Limit: limit}
		}
	}
	return nil
}

// Validate runs the rules with the default multiplier.
func Validate(sender capmath.State, outgoing, incoming decimal.Decimal) error {
	return NewValidator(DefaultApronMultiplier).Validate(sender, outgoing, incoming)
}
