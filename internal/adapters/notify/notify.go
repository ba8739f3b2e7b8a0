// Package notify delivers approval requests and public announcements.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/model"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/logger"
	"github.com/google/uuid"
)

// Action is one button on an approval message. Token scopes it to a single proposal.
type Action struct {
	Label      string `json:"label"`
	Verdict    string `json:"verdict"`
	ProposalID string `json:"proposal_id"`
	Token      string `json:"token"`
}

// Approval is a request posted to the approval channel.
type Approval struct {
	Channel     string            `json:"channel"`
	Transaction model.Transaction `json:"transaction"`
	Lines       []string          `json:"lines"`
	// Actions is empty for Sign and Cut, which are decided out of band.
	Actions []Action `json:"actions,omitempty"`
}

// Notifier is the outbound sink.
type Notifier interface {
	RequestApproval(ctx context.Context, a Approval) error
	Announce(ctx context.Context, channel, text string) error
}

// Message is a posted entry as kept by Feed.
type Message struct {
	ID       string    `json:"id"`
	Channel  string    `json:"channel"`
	Text     string    `json:"text"`
	Actions  []Action  `json:"actions,omitempty"`
	PostedAt time.Time `json:"posted_at"`
}

// Feed keeps the most recent messages per channel in memory. It backs the
// HTTP channel view and doubles as a recorder in tests.
type Feed struct {
	mu       sync.RWMutex
	limit    int
	channels map[string][]Message
}

// NewFeed keeps up to limit messages per channel; limit <= 0 keeps everything.
func NewFeed(limit int) *Feed {
	return &Feed{limit: limit, channels: make(map[string][]Message)}
}

func (f *Feed) RequestApproval(_ context.Context, a Approval) error {
	f.post(Message{Channel: a.Channel, Text: strings.Join(a.Lines, "\n"), Actions: a.Actions})
	return nil
}

func (f *Feed) Announce(_ context.Context, channel, text string) error {
	f.post(Message{Channel: channel, Text: text})
	return nil
}

func (f *Feed) post(m Message) {
	m.ID = uuid.NewString()
	m.PostedAt = time.Now().UTC()

	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := append(f.channels[m.Channel], m)
	if f.limit > 0 && len(msgs) > f.limit {
		msgs = msgs[len(msgs)-f.limit:]
	}
	f.channels[m.Channel] = msgs
}

// Messages returns a copy of channel's history, oldest first.
func (f *Feed) Messages(channel string) []Message {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Message(nil), f.channels[channel]...)
}

// LogNotifier writes every notification to the structured log.
type LogNotifier struct {
	log logger.Logger
}

func NewLogNotifier(l logger.Logger) *LogNotifier {
	return &LogNotifier{log: l}
}

func (n *LogNotifier) RequestApproval(ctx context.Context, a Approval) error {
	n.log.Info(ctx, "approval requested",
		logger.String("channel", a.Channel),
		logger.String("proposal", a.Transaction.ID),
		logger.String("kind", string(a.Transaction.Kind)),
		logger.Int("actions", len(a.Actions)))
	return nil
}

func (n *LogNotifier) Announce(ctx context.Context, channel, text string) error {
	n.log.Info(ctx, "announcement", logger.String("channel", channel), logger.String("text", text))
	return nil
}

// Multi fans out to every sink and joins their errors.
type Multi []Notifier

func (m Multi) RequestApproval(ctx context.Context, a Approval) error {
	var errs []error
	for _, n := range m {
		if err := n.RequestApproval(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrDelivery, errors.Join(errs...))
	}
	return nil
}

func (m Multi) Announce(ctx context.Context, channel, text string) error {
	var errs []error
	for _, n := range m {
		if err := n.Announce(ctx, channel, text); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrDelivery, errors.Join(errs...))
	}
	return nil
}
