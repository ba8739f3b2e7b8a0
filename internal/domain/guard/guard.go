// Package guard provides the single-fire claim used by proposal resolution actions.
package guard

import (
	"context"
	"sync"
	"sync/atomic"
)

// Guard hands out at most one claim per proposal id.
type Guard interface {
	// Claim atomically takes the id. It returns true for the first caller only.
	Claim(ctx context.Context, id string) bool

	// Release gives the id back after a resolution failed before any state
	// change, so the action stays usable.
	Release(ctx context.Context, id string)

	Size() int64
}

// node is one claimed id in the recency list.
type node struct {
	id   string
	next *node
}

// inMemoryGuard keeps claims in a map with a singly linked list for
// eviction of the oldest claim once maxSize is reached. Evicted ids are
// still protected by the persisted terminal status.
type inMemoryGuard struct {
	mu      sync.Mutex
	claimed map[string]*node
	head    *node // most recent
	maxSize int   // <= 0 means unbounded
	size    atomic.Int64
}

// NewInMemoryGuard creates a claim registry.
func NewInMemoryGuard(opts ...Option) Guard {
	g := &inMemoryGuard{maxSize: 10000}
	for _, opt := range opts {
		opt(g)
	}
	g.claimed = make(map[string]*node)
	return g
}

func (g *inMemoryGuard) Claim(_ context.Context, id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, taken := g.claimed[id]; taken {
		return false
	}
	if g.maxSize > 0 && len(g.claimed) >= g.maxSize {
		g.evictOldest()
	}
	n := &node{id: id, next: g.head}
	g.head = n
	g.claimed[id] = n
	g.size.Add(1)
	return true
}

func (g *inMemoryGuard) Release(_ context.Context, id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.claimed[id]
	if !ok {
		return
	}
	delete(g.claimed, id)
	if g.head == n {
		g.head = n.next
	} else {
		for cur := g.head; cur != nil; cur = cur.next {
			if cur.next == n {
				cur.next = n.next
				break
			}
		}
	}
	g.size.Add(-1)
}

// evictOldest drops the tail. Caller holds g.mu.
func (g *inMemoryGuard) evictOldest() {
	if g.head == nil {
		return
	}
	if g.head.next == nil {
		delete(g.claimed, g.head.id)
		g.head = nil
		g.size.Add(-1)
		return
	}
	prev := g.head
	for prev.next.next != nil {
		prev = prev.next
	}
	delete(g.claimed, prev.next.id)
	prev.next = nil
	g.size.Add(-1)
}

func (g *inMemoryGuard) Size() int64 {
	return g.size.Load()
}
