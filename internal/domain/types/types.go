// Package types contains the read models returned by the league service and
// rendered by the HTTP surface and leaguectl.
package types

import (
	"github.com/shopspring/decimal"
)

// TeamSummary is the show-team view.
type TeamSummary struct {
	Key      string          `json:"key"`
	Name     string          `json:"name"`
	GM       string          `json:"gm"`
	CapSpace decimal.Decimal `json:"cap_space"`
	Payroll  decimal.Decimal `json:"payroll"`
	Players  int             `json:"players"`
	Status   string          `json:"status"`
	CapBar   string          `json:"cap_bar"`
}

// RosterLine is one player row; Salary is already formatted ("$12M", "UFA", "-").
type RosterLine struct {
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	Overall  int    `json:"overall,omitempty"`
	Salary   string `json:"salary"`
}

// Roster sources.
const (
	SourceLocal   = "local"
	SourceDataset = "dataset"
)

// RosterView is a roster with its season payroll.
type RosterView struct {
	Team    string          `json:"team"`
	Key     string          `json:"key"`
	Source  string          `json:"source"`
	Season  string          `json:"season"`
	Payroll decimal.Decimal `json:"payroll"`
	Lines   []RosterLine    `json:"lines"`
}

// ResyncReport summarizes a roster dataset sync.
type ResyncReport struct {
	DatasetTeams int `json:"dataset_teams"`
	Synced       int `json:"synced"`
	Created      int `json:"created"`
}

// ProvisionReport lists channel outcomes per team.
type ProvisionReport struct {
	Created  []string          `json:"created"`
	Existing []string          `json:"existing"`
	Failed   map[string]string `json:"failed,omitempty"`
}

// AvailableTeam is a dataset franchise nobody has claimed yet.
type AvailableTeam struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Players int    `json:"players"`
}
