// Package repository persists the league state document.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/model"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/metrics"
)

// Store reads and writes the whole league document. There are no partial
// updates and no concurrency token: callers run load-mutate-save as one unit.
type Store interface {
	// Load returns the stored state, or the empty default when nothing was saved yet.
	Load(ctx context.Context) (*model.LeagueState, error)
	// Save replaces the stored document.
	Save(ctx context.Context, state *model.LeagueState) error
	Close() error
}

// Update loads the state, applies fn and saves the result. When fn fails
// nothing is written and its error is returned unchanged.
func Update(ctx context.Context, store Store, fn func(*model.LeagueState) error) (*model.LeagueState, error) {
	state, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(state); err != nil {
		return nil, err
	}
	if err := store.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// SyncFromRosterSource overwrites the cached dataset copy wholesale. Team
// records are left alone; re-seeding rosters is the service's job.
func SyncFromRosterSource(ctx context.Context, store Store, snap model.Snapshot) error {
	_, err := Update(ctx, store, func(s *model.LeagueState) error {
		ApplySnapshot(s, snap)
		return nil
	})
	if err != nil {
		return fmt.Errorf("sync roster snapshot: %w", err)
	}
	return nil
}

// ApplySnapshot replaces the dataset copy held in state. It never merges.
func ApplySnapshot(state *model.LeagueState, snap model.Snapshot) {
	out := make(model.Snapshot, len(snap))
	for k, v := range snap {
		out[k] = v
	}
	state.External = out
}

// observe records one store call.
func observe(backend, op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordStoreOperation(backend, op, outcome, float64(time.Since(start).Microseconds())/1000)
}
