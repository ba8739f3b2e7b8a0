package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// seasonKey matches the per-season salary columns of the roster dataset:
// "2025", "2025-26", "2025/26", "2025-2026".
var seasonKey = regexp.MustCompile(`^\d{4}([-/]\d{2}(\d{2})?)?$`)

// IsSeasonLabel reports whether key names a salary season column.
func IsSeasonLabel(key string) bool {
	return seasonKey.MatchString(strings.TrimSpace(key))
}

// Player is a contracted player with per-season salary figures.
type Player struct {
	Name     string
	Salaries map[string]Salary
	Overall  int
	Position string
}

// SalaryFor returns the season figure; a missing season is None.
func (p Player) SalaryFor(season string) Salary {
	if p.Salaries == nil {
		return NoSalary()
	}
	return p.Salaries[season]
}

// Seasons returns the salary season labels in ascending order.
func (p Player) Seasons() []string {
	out := make([]string, 0, len(p.Salaries))
	for k := range p.Salaries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON writes the dataset shape: nome, overall, posizione and one key per season.
func (p Player) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(p.Salaries)+3)
	doc["nome"] = p.Name
	if p.Overall != 0 {
		doc["overall"] = p.Overall
	}
	if p.Position != "" {
		doc["posizione"] = p.Position
	}
	for season, s := range p.Salaries {
		doc[season] = s
	}
	return json.Marshal(doc)
}

// UnmarshalJSON reads a dataset player object. Name comes from "nome" or "name",
// position from "posizione" or "position"; season-shaped keys become salaries
// and every other key is ignored.
func (p *Player) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPlayer, err)
	}

	out := Player{Salaries: make(map[string]Salary)}
	for key, value := range raw {
		switch strings.ToLower(key) {
		case "nome", "name":
			if err := json.Unmarshal(value, &out.Name); err != nil {
				return fmt.Errorf("%w: name: %w", ErrInvalidPlayer, err)
			}
		case "posizione", "position":
			if err := json.Unmarshal(value, &out.Position); err != nil {
				return fmt.Errorf("%w: position: %w", ErrInvalidPlayer, err)
			}
		case "overall":
			ovr, err := parseLooseInt(value)
			if err != nil {
				return fmt.Errorf("%w: overall: %w", ErrInvalidPlayer, err)
			}
			out.Overall = ovr
		default:
			if !IsSeasonLabel(key) {
				continue
			}
			var s Salary
			if err := s.UnmarshalJSON(value); err != nil {
				return fmt.Errorf("%w: season %s: %w", ErrInvalidPlayer, key, err)
			}
			out.Salaries[strings.TrimSpace(key)] = s
		}
	}
	if strings.TrimSpace(out.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidPlayer)
	}
	*p = out
	return nil
}

// parseLooseInt accepts 87, 87.0, "87" and null.
func parseLooseInt(value json.RawMessage) (int, error) {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return 0, nil
	}
	text := string(value)
	if value[0] == '"' {
		if err := json.Unmarshal(value, &text); err != nil {
			return 0, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// UserRef is a gateway user identifier; the dataset stores it as a string or a number.
type UserRef string

// UnmarshalJSON accepts a JSON string, number or null.
func (u *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*u = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = UserRef(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*u = UserRef(n.String())
	}
	return nil
}
