// Package model contains the league domain types shared across layers.
package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RosterEntry is one player on a locally tracked roster. Stipendio holds the
// active-season figure only.
type RosterEntry struct {
	Name     string `json:"nome"`
	Salary   Salary `json:"stipendio"`
	Position string `json:"posizione,omitempty"`
	Overall  int    `json:"overall,omitempty"`
}

// Team is a franchise registered in the local league state.
type Team struct {
	// Key is the dataset key when the franchise exists there, else the chosen nickname.
	Key      string          `json:"key"`
	Name     string          `json:"nome"`
	GM       string          `json:"gm"`
	CapSpace decimal.Decimal `json:"cap_space"`
	Roster   []RosterEntry   `json:"roster"`
}

// Players adapts the roster for cap accounting in the given season.
func (t *Team) Players(season string) []Player {
	out := make([]Player, len(t.Roster))
	for i, e := range t.Roster {
		out[i] = Player{
			Name:     e.Name,
			Salaries: map[string]Salary{season: e.Salary},
			Overall:  e.Overall,
			Position: e.Position,
		}
	}
	return out
}

// FindPlayer returns the index of the named player (case-insensitive) or -1.
func (t *Team) FindPlayer(name string) int {
	name = strings.TrimSpace(name)
	for i, e := range t.Roster {
		if strings.EqualFold(e.Name, name) {
			return i
		}
	}
	return -1
}

// RealTeam is one franchise of the external roster dataset.
type RealTeam struct {
	Roster []Player `json:"roster"`
	GM     UserRef  `json:"discord_user"`
	Name   string   `json:"squadra"`
}

// DisplayName falls back to the dataset key when squadra is empty.
func (r RealTeam) DisplayName(key string) string {
	if strings.TrimSpace(r.Name) != "" {
		return r.Name
	}
	return key
}

// Entries projects the dataset roster onto local roster entries for a season.
func (r RealTeam) Entries(season string) []RosterEntry {
	out := make([]RosterEntry, len(r.Roster))
	for i, p := range r.Roster {
		out[i] = RosterEntry{
			Name:     p.Name,
			Salary:   p.SalaryFor(season),
			Position: p.Position,
			Overall:  p.Overall,
		}
	}
	return out
}

// Snapshot is a full copy of the roster dataset keyed by team.
type Snapshot map[string]RealTeam
