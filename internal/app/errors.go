package service

import (
	"errors"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/provision"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/rostersource"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/resolve"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/trade"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/workflow"
)

// Sentinel kinds for service errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrCapViolation = trade.ErrCapViolation
	ErrTransient    = errors.New("external service failure")
	ErrInvariant    = workflow.ErrInvariant
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// Kind is the failure class reported to the requester.
type Kind string

const (
	KindNone         Kind = ""
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindCapViolation Kind = "cap_violation"
	KindTransient    Kind = "transient"
	KindInvariant    Kind = "invariant"
	KindForbidden    Kind = "forbidden"
	KindBadRequest   Kind = "bad_request"
	KindInternal     Kind = "internal"
)

// kindTable is checked in order; the first match wins.
var kindTable = []struct {
	target error
	kind   Kind
}{
	{ErrCapViolation, KindCapViolation},
	{ErrInvariant, KindInvariant},
	{ErrNotFound, KindNotFound},
	{workflow.ErrProposalNotFound, KindNotFound},
	{resolve.ErrTeamNotFound, KindNotFound},
	{ErrConflict, KindConflict},
	{workflow.ErrAlreadyResolved, KindConflict},
	{ErrForbidden, KindForbidden},
	{ErrBadRequest, KindBadRequest},
	{workflow.ErrNotResolvable, KindBadRequest},
	{workflow.ErrUnknownVerdict, KindBadRequest},
	{ErrTransient, KindTransient},
	{rostersource.ErrFetch, KindTransient},
	{provision.ErrCategoryFull, KindTransient},
}

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, e := range kindTable {
		if errors.Is(err, e.target) {
			return e.kind
		}
	}
	return KindInternal
}
