// Package leaguectl is a terminal client for the league command API. It posts
// one command as a given user, waits for deferred follow-ups and renders the
// replies.
package leaguectl

import (
	"strings"
	"time"
)

// Defaults for the command line client.
const (
	DefaultBaseURL      = "http://localhost:9080"
	DefaultTimeout      = 30 * time.Second
	DefaultWait         = 2 * time.Minute
	DefaultPollInterval = 250 * time.Millisecond
)

// Config holds the client settings.
type Config struct {
	BaseURL      string        // Base URL of the service
	User         string        // Acting user id
	Roles        []string      // Acting user's roles
	Timeout      time.Duration // Per-request timeout
	Wait         time.Duration // How long to wait for a deferred follow-up
	PollInterval time.Duration // Delay between interaction polls
	JSON         bool          // Print the raw interaction instead of rendering it
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Wait <= 0 {
		c.Wait = DefaultWait
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}

// SplitRoles parses a comma separated role list, dropping blanks.
func SplitRoles(raw string) []string {
	var out []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
