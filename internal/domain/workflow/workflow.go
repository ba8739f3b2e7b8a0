// Package workflow is the proposal state machine: it builds transaction records
// and applies Accept/Reject to a league state in memory. Callers persist.
package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/capmath"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Verdict is the approver's decision on a trade.
type Verdict string

const (
	Accept Verdict = "accept"
	Reject Verdict = "reject"
)

// ParseVerdict accepts accept/reject in any case.
func ParseVerdict(s string) (Verdict, error) {
	switch v := Verdict(strings.ToLower(strings.TrimSpace(s))); v {
	case Accept, Reject:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVerdict, s)
}

// Sign builds a free agent signing request.
func Sign(requester string, team *model.Team, player string, amount decimal.Decimal, years int, justification string, now time.Time) model.Transaction {
	return model.Transaction{
		ID:            uuid.NewString(),
		Kind:          model.KindSign,
		Status:        model.StatusProposed,
		Requester:     requester,
		Team:          team.Key,
		Justification: justification,
		CreatedAt:     now.UTC(),
		Player:        player,
		Amount:        &amount,
		Years:         years,
	}
}

// Cut builds a release request.
func Cut(requester string, team *model.Team, player, justification string, now time.Time) model.Transaction {
	return model.Transaction{
		ID:            uuid.NewString(),
		Kind:          model.KindCut,
		Status:        model.StatusProposed,
		Requester:     requester,
		Team:          team.Key,
		Justification: justification,
		CreatedAt:     now.UTC(),
		Player:        player,
	}
}

// TradeRequest is a validated exchange between two registered teams.
type TradeRequest struct {
	Requester        string
	Team             string
	Counterparty     string
	CounterpartyTeam string
	Outgoing         []string
	Incoming         []string
	OutgoingSalary   decimal.Decimal
	IncomingSalary   decimal.Decimal
	Justification    string
}

// Trade builds a trade proposal with a fresh action token for its Accept/Reject pair.
func Trade(req TradeRequest, now time.Time) model.Transaction {
	return model.Transaction{
		ID:               uuid.NewString(),
		Kind:             model.KindTrade,
		Status:           model.StatusProposed,
		Requester:        req.Requester,
		Team:             req.Team,
		Justification:    req.Justification,
		CreatedAt:        now.UTC(),
		Counterparty:     req.Counterparty,
		CounterpartyTeam: req.CounterpartyTeam,
		Outgoing:         append([]string(nil), req.Outgoing...),
		Incoming:         append([]string(nil), req.Incoming...),
		OutgoingSalary:   req.OutgoingSalary,
		IncomingSalary:   req.IncomingSalary,
		ActionToken:      uuid.NewString(),
	}
}

// resolvable returns the pending trade id or the reason it cannot be resolved.
func resolvable(state *model.LeagueState, id string) (*model.Transaction, error) {
	tx := state.Transaction(id)
	if tx == nil {
		return nil, fmt.Errorf("%w: %s", ErrProposalNotFound, id)
	}
	if tx.Kind != model.KindTrade {
		return nil, fmt.Errorf("%w: %s is a %s request", ErrNotResolvable, id, tx.Kind)
	}
	if tx.Status.Terminal() {
		return nil, fmt.Errorf("%w: %s is %s", ErrAlreadyResolved, id, tx.Status)
	}
	return tx, nil
}

// ApplyAccept completes a pending trade: players change rosters and both
// teams' cap space is recomputed for season. Nothing is changed on error.
func ApplyAccept(state *model.LeagueState, id, actor, season string, t capmath.Thresholds, now time.Time) (*model.Transaction, error) {
	tx, err := resolvable(state, id)
	if err != nil {
		return nil, err
	}
	from := state.Teams[tx.Requester]
	to := state.Teams[tx.Counterparty]
	if from == nil || to == nil {
		return nil, fmt.Errorf("%w: a team in trade %s is no longer registered", ErrInvariant, id)
	}

	outIdx, err := locate(from, tx.Outgoing)
	if err != nil {
		return nil, err
	}
	inIdx, err := locate(to, tx.Incoming)
	if err != nil {
		return nil, err
	}

	moving := pick(from, outIdx)
	arriving := pick(to, inIdx)
	from.Roster = append(drop(from.Roster, outIdx), arriving...)
	to.Roster = append(drop(to.Roster, inIdx), moving...)
	Recompute(from, season, t)
	Recompute(to, season, t)

	resolvedAt := now.UTC()
	tx.Status = model.StatusCompleted
	tx.ResolvedAt = &resolvedAt
	tx.ResolvedBy = actor
	return tx, nil
}

// ApplyReject marks a pending trade rejected. Rosters are not touched.
func ApplyReject(state *model.LeagueState, id, actor string, now time.Time) (*model.Transaction, error) {
	tx, err := resolvable(state, id)
	if err != nil {
		return nil, err
	}
	resolvedAt := now.UTC()
	tx.Status = model.StatusRejected
	tx.ResolvedAt = &resolvedAt
	tx.ResolvedBy = actor
	return tx, nil
}

// Recompute resets cap space from the roster. It is the only writer of CapSpace.
func Recompute(team *model.Team, season string, t capmath.Thresholds) {
	total := capmath.ComputeSalaryTotal(team.Players(season), season)
	team.CapSpace = capmath.CapSpace(total, t)
}

// LatestIncoming returns the most recent pending trade addressed to counterparty.
func LatestIncoming(state *model.LeagueState, counterparty string) *model.Transaction {
	for i := len(state.Trades) - 1; i >= 0; i-- {
		tx := &state.Trades[i]
		if tx.Kind == model.KindTrade && tx.Counterparty == counterparty && tx.Status == model.StatusProposed {
			return tx
		}
	}
	return nil
}

func locate(team *model.Team, names []string) ([]int, error) {
	idx := make([]int, 0, len(names))
	seen := make(map[int]bool, len(names))
	for _, name := range names {
		i := team.FindPlayer(name)
		if i < 0 || seen[i] {
			return nil, fmt.Errorf("%w: %s is no longer on the %s roster", ErrInvariant, name, team.Name)
		}
		seen[i] = true
		idx = append(idx, i)
	}
	return idx, nil
}

func pick(team *model.Team, idx []int) []model.RosterEntry {
	out := make([]model.RosterEntry, len(idx))
	for i, j := range idx {
		out[i] = team.Roster[j]
	}
	return out
}

// drop returns roster without the entries at idx, keeping order.
func drop(roster []model.RosterEntry, idx []int) []model.RosterEntry {
	skip := make(map[int]bool, len(idx))
	for _, i := range idx {
		skip[i] = true
	}
	out := make([]model.RosterEntry, 0, len(roster))
	for i, e := range roster {
		if !skip[i] {
			out = append(out, e)
		}
	}
	return out
}
