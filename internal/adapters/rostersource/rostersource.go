// Package rostersource fetches the external roster dataset over HTTP.
package rostersource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/model"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/logger"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/metrics"
)

// DefaultTimeout bounds one fetch when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxBody caps the dataset read.
const maxBody = 32 << 20

// Source returns a full snapshot or fails.
type Source interface {
	Fetch(ctx context.Context) (model.Snapshot, error)
}

// HTTPSource issues a single GET per fetch, following redirects.
type HTTPSource struct {
	url    string
	client *http.Client
	log    logger.Logger
}

// Option configures an HTTPSource.
type Option func(*HTTPSource)

// WithTimeout sets the connect+read budget for a fetch.
func WithTimeout(d time.Duration) Option {
	return func(s *HTTPSource) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the client, e.g. with an httptest server's.
func WithHTTPClient(c *http.Client) Option {
	return func(s *HTTPSource) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *HTTPSource) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a source for url. An empty url is an error.
func New(url string, opts ...Option) (*HTTPSource, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrNoURL
	}
	s := &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: DefaultTimeout},
		log:    logger.Get().Named("rostersource"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *HTTPSource) Fetch(ctx context.Context) (snap model.Snapshot, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.RecordRosterFetch(outcome, float64(time.Since(start).Milliseconds()))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn(ctx, "roster fetch failed", logger.String("url", s.url), logger.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		s.log.Warn(ctx, "roster fetch returned non-200", logger.String("url", s.url), logger.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	snap = model.Snapshot{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: decode dataset: %w", ErrFetch, err)
	}
	s.log.Debug(ctx, "roster dataset fetched",
		logger.Int("teams", len(snap)),
		logger.Duration("took", time.Since(start)))
	return snap, nil
}

// Static serves a fixed snapshot; used in tests and when the dataset is preloaded.
type Static struct {
	Snapshot model.Snapshot
	Err      error
}

func (s Static) Fetch(context.Context) (model.Snapshot, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Snapshot, nil
}
