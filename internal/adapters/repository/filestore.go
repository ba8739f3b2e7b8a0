package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/model"
)

const backendFile = "file"

// FileStore keeps the league state as one JSON document on disk.
type FileStore struct {
	mu     sync.Mutex
	path   string
	mode   os.FileMode
	indent bool
}

// NewFileStore returns a store for path. The file need not exist yet.
func NewFileStore(path string, opts ...FileOption) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoStorage
	}
	s := &FileStore{path: filepath.Clean(path), mode: 0o644, indent: true}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the document location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(_ context.Context) (state *model.LeagueState, err error) {
	start := time.Now()
	defer func() { observe(backendFile, "load", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewLeagueState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return decodeState(data)
}

func (s *FileStore) Save(_ context.Context, state *model.LeagueState) (err error) {
	start := time.Now()
	defer func() { observe(backendFile, "save", start, err) }()

	data, err := encodeState(state, s.indent)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err := tmp.Chmod(s.mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// decodeState treats an empty document as the default state.
func decodeState(data []byte) (*model.LeagueState, error) {
	state := model.NewLeagueState()
	if len(bytes.TrimSpace(data)) == 0 {
		return state, nil
	}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	state.Normalize()
	return state, nil
}

func encodeState(state *model.LeagueState, indent bool) ([]byte, error) {
	if state == nil {
		state = model.NewLeagueState()
	}
	state.Normalize()
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(state, "", "  ")
	} else {
		data, err = json.Marshal(state)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSave, err)
	}
	return data, nil
}
