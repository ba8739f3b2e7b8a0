package gateway

import (
	"time"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/mq/queue"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/logger"
)

// Option applies a configuration option to the Dispatcher.
type Option func(*Dispatcher)

// WithQueue runs deferred work on q. Without a queue it runs inline after the ack.
func WithQueue(q queue.Queue) Option {
	return func(d *Dispatcher) { d.jobs = q }
}

// WithLogger sets a custom logger for the dispatcher.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithClock overrides time.Now for job timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// InboxOption applies a configuration option to the Inbox.
type InboxOption func(*Inbox)

// WithInboxLimit bounds the number of kept interactions; the oldest is dropped first.
func WithInboxLimit(n int) InboxOption {
	return func(b *Inbox) {
		if n > 0 {
			b.limit = n
		}
	}
}
