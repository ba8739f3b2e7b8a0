package worker

import (
	"sync/atomic"
	"time"

	"github.com/SamHedgehogs/nba2k-league-bot/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithJobTimeout bounds each job's context.
func WithJobTimeout(d time.Duration) Option {
	return func(w *InMemoryWorker) {
		if d > 0 {
			w.jobTimeout = d
		}
	}
}

// withBusyCounter shares the active-worker gauge across a pool.
func withBusyCounter(c *atomic.Int32) Option {
	return func(w *InMemoryWorker) {
		w.busy = c
	}
}
