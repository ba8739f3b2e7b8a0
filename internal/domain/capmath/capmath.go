// Package capmath derives payroll totals and cap status bands from rosters.
package capmath

import (
	"fmt"
	"strings"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Bar rendering constants.
const (
	BarWidth     = 20
	barFilled    = "█"
	barEmpty     = "░"
	maxFillRatio = 1.2
)

// Status is one of the four payroll bands.
type Status string

const (
	BelowFloor  Status = "BELOW_FLOOR"
	Compliant   Status = "COMPLIANT"
	OverSoftCap Status = "OVER_SOFT_CAP"
	OverHardCap Status = "OVER_HARD_CAP"
)

// Thresholds are the league-wide ascending breakpoints.
type Thresholds struct {
	Floor   decimal.Decimal
	SoftCap decimal.Decimal
	HardCap decimal.Decimal
}

// NewThresholds builds thresholds from config floats.
func NewThresholds(floor, soft, hard float64) (Thresholds, error) {
	t := Thresholds{
		Floor:   decimal.NewFromFloat(floor),
		SoftCap: decimal.NewFromFloat(soft),
		HardCap: decimal.NewFromFloat(hard),
	}
	if t.Floor.GreaterThan(t.SoftCap) || t.SoftCap.GreaterThan(t.HardCap) {
		return Thresholds{}, fmt.Errorf("%w: floor %s, soft %s, hard %s", ErrThresholdOrder, t.Floor, t.SoftCap, t.HardCap)
	}
	return t, nil
}

// State is a team's payroll for one season with its band.
type State struct {
	Total  decimal.Decimal
	Status Status
}

// ComputeSalaryTotal sums each player's figure for season. Free agent
// sentinels and None are skipped by variant; Fixed(0) contributes zero.
func ComputeSalaryTotal(roster []model.Player, season string) decimal.Decimal {
	total := decimal.Zero
	for _, p := range roster {
		if amount, ok := p.SalaryFor(season).Amount(); ok {
			total = total.Add(amount)
		}
	}
	return total
}

// ClassifyCapStatus maps a total onto a band. Escalation is strict: a total equal
// to the soft cap is compliant and one equal to the hard cap is over the soft cap.
func ClassifyCapStatus(total decimal.Decimal, t Thresholds) Status {
	switch {
	case total.GreaterThan(t.HardCap):
		return OverHardCap
	case total.GreaterThan(t.SoftCap):
		return OverSoftCap
	case total.LessThan(t.Floor):
		return BelowFloor
	default:
		return Compliant
	}
}

// Evaluate computes the total and band in one step.
func Evaluate(roster []model.Player, season string, t Thresholds) State {
	total := ComputeSalaryTotal(roster, season)
	return State{Total: total, Status: ClassifyCapStatus(total, t)}
}

// CapSpace is soft cap minus total; negative when over the cap.
func CapSpace(total decimal.Decimal, t Thresholds) decimal.Decimal {
	return t.SoftCap.Sub(total)
}

// RenderCapBar draws a fixed-width bar for total against cap followed by the
// percentage. The full bar stands for maxFillRatio times the cap, so payroll
// somewhat over the cap still shows as a partial fill; anything beyond is
// clamped and the segment count never exceeds BarWidth.
func RenderCapBar(total, capAmount decimal.Decimal) string {
	if !capAmount.IsPositive() {
		return strings.Repeat(barEmpty, BarWidth) + " n/a"
	}
	ratio, _ := total.Div(capAmount).Float64()
	pct := ratio * 100
	if ratio < 0 {
		ratio = 0
	}
	if ratio > maxFillRatio {
		ratio = maxFillRatio
	}
	filled := int(ratio / maxFillRatio * BarWidth)
	if filled > BarWidth {
		filled = BarWidth
	}
	return fmt.Sprintf("%s%s %.0f%%", strings.Repeat(barFilled, filled), strings.Repeat(barEmpty, BarWidth-filled), pct)
}
