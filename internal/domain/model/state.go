package model

import (
	"sort"
	"strings"
)

// LeagueState is the whole persisted league document.
type LeagueState struct {
	Teams    map[string]*Team `json:"teams"`
	Players  []Player         `json:"players"`
	Trades   []Transaction    `json:"trades"`
	External Snapshot         `json:"reali"`
}

// NewLeagueState returns the empty default document.
func NewLeagueState() *LeagueState {
	s := &LeagueState{}
	s.Normalize()
	return s
}

// Normalize replaces nil collections so a decoded partial document behaves like the default.
func (s *LeagueState) Normalize() {
	if s.Teams == nil {
		s.Teams = map[string]*Team{}
	}
	if s.Players == nil {
		s.Players = []Player{}
	}
	if s.Trades == nil {
		s.Trades = []Transaction{}
	}
	if s.External == nil {
		s.External = Snapshot{}
	}
}

// TeamByKey finds a registered team by its key, case-insensitively.
// It returns the owning requester id too.
func (s *LeagueState) TeamByKey(key string) (string, *Team) {
	for owner, t := range s.Teams {
		if strings.EqualFold(t.Key, key) {
			return owner, t
		}
	}
	return "", nil
}

// Transaction returns a pointer into the log for in-place status updates.
func (s *LeagueState) Transaction(id string) *Transaction {
	for i := range s.Trades {
		if s.Trades[i].ID == id {
			return &s.Trades[i]
		}
	}
	return nil
}

// Pending counts proposals not yet resolved.
func (s *LeagueState) Pending() int {
	n := 0
	for _, t := range s.Trades {
		if t.Status == StatusProposed {
			n++
		}
	}
	return n
}

// Owners returns the registered requester ids in stable order.
func (s *LeagueState) Owners() []string {
	out := make([]string, 0, len(s.Teams))
	for id := range s.Teams {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
