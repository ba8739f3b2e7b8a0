package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "LEAGUE_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if LEAGUE_CONFIG is set
//  3. env (prefix LEAGUE_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// LEAGUE_SOFT_CAP -> soft_cap; underscores are kept to match the koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the cross-field constraints Load relies on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StoreDriver != StoreDriverFile && c.StoreDriver != StoreDriverSQLite:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	case strings.TrimSpace(c.StorePath) == "":
		return fmt.Errorf("%w: store_path must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.Season) == "":
		return fmt.Errorf("%w: season must not be empty", ErrInvalidConfig)
	case c.CapFloor > c.SoftCap || c.SoftCap > c.HardCap:
		return fmt.Errorf("%w: cap thresholds must ascend (floor %.2f, soft %.2f, hard %.2f)",
			ErrInvalidConfig, c.CapFloor, c.SoftCap, c.HardCap)
	case c.ApronMultiplier < 1:
		return fmt.Errorf("%w: apron_multiplier must be >= 1", ErrInvalidConfig)
	case c.RosterTimeoutSec <= 0:
		return fmt.Errorf("%w: roster_timeout_sec must be positive", ErrInvalidConfig)
	}
	return nil
}
