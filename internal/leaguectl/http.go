package leaguectl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/gateway"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/logger"
)

// Identity headers understood by the API.
const (
	headerUserID    = "X-User-ID"
	headerUserRoles = "X-User-Roles"
)

// Client talks to the league command API as one user.
type Client struct {
	http *http.Client
	cfg  Config
	log  logger.Logger
}

// NewClient creates a client; zero config fields take their defaults.
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		http: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
		log:  logger.Get().Named("leaguectl"),
	}
}

// answer is either an interaction or an API error body.
type answer struct {
	gateway.Interaction
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Command posts a command and waits until its interaction is done or the
// configured wait runs out. A pending interaction is returned together with
// ErrStillPending.
func (c *Client) Command(ctx context.Context, name string, args gateway.Args) (gateway.Interaction, error) {
	body, err := json.Marshal(args)
	if err != nil {
		return gateway.Interaction{}, fmt.Errorf("failed to marshal arguments: %w", err)
	}
	it, err := c.do(ctx, http.MethodPost, "/commands/"+url.PathEscape(name), body)
	if err != nil {
		return it, err
	}
	return c.await(ctx, it)
}

// Resolve presses an approval button of a pending proposal.
func (c *Client) Resolve(ctx context.Context, proposal, verdict, token string) (gateway.Interaction, error) {
	path := "/proposals/" + url.PathEscape(proposal) + "/" + url.PathEscape(verdict) + "?token=" + url.QueryEscape(token)
	it, err := c.do(ctx, http.MethodPost, path, nil)
	if err != nil {
		return it, err
	}
	return c.await(ctx, it)
}

// Interaction fetches the current state of an interaction.
func (c *Client) Interaction(ctx context.Context, id string) (gateway.Interaction, error) {
	return c.do(ctx, http.MethodGet, "/interactions/"+url.PathEscape(id), nil)
}

// await polls until it is done.
func (c *Client) await(ctx context.Context, it gateway.Interaction) (gateway.Interaction, error) {
	if it.Done {
		return it, nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Wait)
	defer cancel()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return it, fmt.Errorf("%w: %s", ErrStillPending, it.ID)
		case <-ticker.C:
			next, err := c.Interaction(ctx, it.ID)
			if err != nil {
				c.log.Debug(ctx, "interaction poll failed", logger.String("id", it.ID), logger.Error(err))
				continue
			}
			if next.Done {
				return next, nil
			}
			it = next
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (gateway.Interaction, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return gateway.Interaction{}, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(headerUserID, c.cfg.User)
	if len(c.cfg.Roles) > 0 {
		req.Header.Set(headerUserRoles, strings.Join(c.cfg.Roles, ","))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return gateway.Interaction{}, fmt.Errorf("failed to reach service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return gateway.Interaction{}, fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debug(ctx, "api call",
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("took", time.Since(start)))

	var a answer
	if err := json.Unmarshal(raw, &a); err != nil {
		return gateway.Interaction{}, &APIError{Status: resp.StatusCode, Code: "invalid_response", Message: strings.TrimSpace(string(raw))}
	}
	if a.ID == "" {
		return gateway.Interaction{}, &APIError{Status: resp.StatusCode, Code: a.Code, Message: a.Message}
	}
	return a.Interaction, nil
}
