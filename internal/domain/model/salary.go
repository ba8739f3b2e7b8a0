package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SalaryKind tags the variant held by a Salary.
type SalaryKind uint8

const (
	// SalaryNone means no salary is owed for the season.
	SalaryNone SalaryKind = iota
	// SalaryFixed is a contracted amount, zero included.
	SalaryFixed
	// SalaryRestrictedFA marks a restricted free agent season.
	SalaryRestrictedFA
	// SalaryUnrestrictedFA marks an unrestricted free agent season.
	SalaryUnrestrictedFA
)

// Wire labels for the sentinel variants.
const (
	LabelRestrictedFA   = "RESTRICTED_FREE_AGENT"
	LabelUnrestrictedFA = "UNRESTRICTED_FREE_AGENT"
	LabelNone           = "NONE"
)

// Salary is one season's figure for a player: Fixed(amount) | RFA | UFA | None.
// The zero value is None.
type Salary struct {
	kind   SalaryKind
	amount decimal.Decimal
}

// Fixed returns a contracted amount.
func Fixed(amount decimal.Decimal) Salary {
	return Salary{kind: SalaryFixed, amount: amount}
}

// FixedFloat is a convenience for literals and config values.
func FixedFloat(amount float64) Salary {
	return Fixed(decimal.NewFromFloat(amount))
}

// RestrictedFreeAgent returns the RFA sentinel.
func RestrictedFreeAgent() Salary { return Salary{kind: SalaryRestrictedFA} }

// UnrestrictedFreeAgent returns the UFA sentinel.
func UnrestrictedFreeAgent() Salary { return Salary{kind: SalaryUnrestrictedFA} }

// NoSalary returns the None variant.
func NoSalary() Salary { return Salary{} }

// Kind reports the variant.
func (s Salary) Kind() SalaryKind { return s.kind }

// Amount returns the contracted amount; ok is false for every non-Fixed variant.
func (s Salary) Amount() (decimal.Decimal, bool) {
	if s.kind != SalaryFixed {
		return decimal.Zero, false
	}
	return s.amount, true
}

// IsFreeAgent reports whether s is one of the free agent sentinels.
func (s Salary) IsFreeAgent() bool {
	return s.kind == SalaryRestrictedFA || s.kind == SalaryUnrestrictedFA
}

// Equal compares variant and amount.
func (s Salary) Equal(o Salary) bool {
	if s.kind != o.kind {
		return false
	}
	return s.kind != SalaryFixed || s.amount.Equal(o.amount)
}

// String renders the figure for messages: "$35.5M", "RFA", "UFA" or "-".
func (s Salary) String() string {
	switch s.kind {
	case SalaryFixed:
		return "$" + s.amount.String() + "M"
	case SalaryRestrictedFA:
		return "RFA"
	case SalaryUnrestrictedFA:
		return "UFA"
	default:
		return "-"
	}
}

// MarshalJSON writes Fixed as a bare number, sentinels as labels and None as null.
func (s Salary) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case SalaryFixed:
		return []byte(s.amount.String()), nil
	case SalaryRestrictedFA:
		return json.Marshal(LabelRestrictedFA)
	case SalaryUnrestrictedFA:
		return json.Marshal(LabelUnrestrictedFA)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts numbers, numeric strings, sentinel labels and their
// short forms (RFA, UFA), and null/empty/NONE for no salary.
func (s *Salary) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = NoSalary()
		return nil
	}
	if data[0] != '"' {
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidSalary, data)
		}
		*s = Fixed(d)
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSalary, err)
	}
	parsed, err := ParseSalary(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSalary reads a salary cell from free text.
func ParseSalary(raw string) (Salary, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	v = strings.TrimSuffix(strings.TrimPrefix(v, "$"), "M")
	switch v {
	case "", "-", LabelNone, "N/A":
		return NoSalary(), nil
	case "RFA", LabelRestrictedFA:
		return RestrictedFreeAgent(), nil
	case "UFA", LabelUnrestrictedFA:
		return UnrestrictedFreeAgent(), nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		return NoSalary(), fmt.Errorf("%w: %q", ErrInvalidSalary, raw)
	}
	return Fixed(d), nil
}
