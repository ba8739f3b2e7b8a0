package repository

import (
	"context"
	"sync"
	"time"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/model"
)

const backendMemory = "memory"

// MemoryStore keeps the encoded document in memory. Loads decode a fresh
// copy, so callers never share state with the store.
type MemoryStore struct {
	mu  sync.Mutex
	doc []byte
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load(context.Context) (state *model.LeagueState, err error) {
	start := time.Now()
	defer func() { observe(backendMemory, "load", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	return decodeState(s.doc)
}

func (s *MemoryStore) Save(_ context.Context, state *model.LeagueState) (err error) {
	start := time.Now()
	defer func() { observe(backendMemory, "save", start, err) }()

	data, err := encodeState(state, false)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = data
	return nil
}

func (s *MemoryStore) Close() error { return nil }
