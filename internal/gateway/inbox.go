package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultInboxLimit = 1000

// Interaction is the reply history of one command.
type Interaction struct {
	ID        string    `json:"id"`
	Command   string    `json:"command"`
	Requester string    `json:"requester"`
	CreatedAt time.Time `json:"created_at"`
	Done      bool      `json:"done"`
	Messages  []Reply   `json:"messages"`
}

// Inbox keeps recent interactions so deferred follow-ups can be collected later.
type Inbox struct {
	mu    sync.Mutex
	limit int
	items map[string]*Interaction
	order []string
}

// NewInbox creates an inbox holding up to 1000 interactions by default.
func NewInbox(opts ...InboxOption) *Inbox {
	b := &Inbox{limit: defaultInboxLimit, items: make(map[string]*Interaction)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open registers cmd, assigning its id when empty, and returns the Responder
// that records its replies.
func (b *Inbox) Open(cmd *Command) Responder {
	if cmd.ID == "" {
		cmd.ID = uuid.NewString()
	}
	it := &Interaction{
		ID:        cmd.ID,
		Command:   cmd.Name,
		Requester: cmd.Actor.ID,
		CreatedAt: time.Now().UTC(),
		Messages:  []Reply{},
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.items[it.ID]; !ok {
		b.order = append(b.order, it.ID)
	}
	b.items[it.ID] = it
	for len(b.order) > b.limit {
		delete(b.items, b.order[0])
		b.order = b.order[1:]
	}
	return &recorder{inbox: b, id: it.ID}
}

// Get returns a copy of the interaction.
func (b *Inbox) Get(id string) (Interaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	it, ok := b.items[id]
	if !ok {
		return Interaction{}, fmt.Errorf("%w: %s", ErrInteractionMissing, id)
	}
	out := *it
	out.Messages = append([]Reply(nil), it.Messages...)
	return out, nil
}

// Len reports the number of kept interactions.
func (b *Inbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

func (b *Inbox) append(id string, r Reply, done bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	it, ok := b.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInteractionMissing, id)
	}
	it.Messages = append(it.Messages, r)
	it.Done = done
	return nil
}

type recorder struct {
	inbox *Inbox
	id    string
}

func (r *recorder) Ack(_ context.Context, reply Reply) error {
	return r.inbox.append(r.id, reply, !reply.Deferred)
}

func (r *recorder) FollowUp(_ context.Context, reply Reply) error {
	return r.inbox.append(r.id, reply, true)
}
