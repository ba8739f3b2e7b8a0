// Package provision creates one communication channel per registered team.
package provision

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxPerCategory mirrors the chat platform's channel limit per category.
const MaxPerCategory = 50

// Channel is a provisioned team channel.
type Channel struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	TeamKey  string `json:"team_key"`
}

// Provisioner creates or looks up a team's channel.
type Provisioner interface {
	// Ensure returns the channel for teamKey, creating it when absent.
	// created reports whether this call made it.
	Ensure(ctx context.Context, category, teamKey, display string) (ch Channel, created bool, err error)
}

// Registry is an in-process Provisioner.
type Registry struct {
	mu    sync.Mutex
	limit int
	// category -> team key -> channel
	channels map[string]map[string]Channel
}

// Option configures a Registry.
type Option func(*Registry)

// WithLimit overrides the per-category channel limit.
func WithLimit(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.limit = n
		}
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{limit: MaxPerCategory, channels: make(map[string]map[string]Channel)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Ensure(_ context.Context, category, teamKey, display string) (Channel, bool, error) {
	name := Slug(display)
	if name == "" {
		name = Slug(teamKey)
	}
	if name == "" || strings.TrimSpace(category) == "" {
		return Channel{}, false, fmt.Errorf("%w: category %q team %q", ErrInvalidName, category, teamKey)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byTeam := r.channels[category]
	if byTeam == nil {
		byTeam = make(map[string]Channel)
		r.channels[category] = byTeam
	}
	if ch, ok := byTeam[teamKey]; ok {
		return ch, false, nil
	}
	if len(byTeam) >= r.limit {
		return Channel{}, false, fmt.Errorf("%w: %s has %d channels", ErrCategoryFull, category, len(byTeam))
	}
	ch := Channel{Category: category, Name: name, TeamKey: teamKey}
	byTeam[teamKey] = ch
	return ch, true, nil
}

// Channels lists a category's channels.
func (r *Registry) Channels(category string) []Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Channel, 0, len(r.channels[category]))
	for _, ch := range r.channels[category] {
		out = append(out, ch)
	}
	return out
}

// Slug lowercases s and joins its words with dashes: "LA Lakers!" -> "la-lakers".
func Slug(s string) string {
	lower := cases.Lower(language.Und).String(s)
	var b strings.Builder
	dash := false
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}
