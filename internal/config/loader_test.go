package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have league defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreDriverFile)
			convey.So(cfg.StorePath, convey.ShouldEqual, "league_db.json")
			convey.So(cfg.RosterTimeoutSec, convey.ShouldEqual, 30)
			convey.So(cfg.SoftCap, convey.ShouldEqual, 140)
			convey.So(cfg.ApronMultiplier, convey.ShouldEqual, 1.30)
			convey.So(cfg.TeamAliases["bucks"], convey.ShouldEqual, "BUCKS")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.HardCap, convey.ShouldEqual, 178)
				convey.So(cfg.Season, convey.ShouldEqual, "2025-26")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("LEAGUE_ADDR", ":8080")
			_ = os.Setenv("LEAGUE_SOFT_CAP", "160")
			_ = os.Setenv("LEAGUE_HARD_CAP", "200")
			_ = os.Setenv("LEAGUE_STORE_DRIVER", "sqlite")
			_ = os.Setenv("LEAGUE_ROSTER_TIMEOUT_SEC", "5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SoftCap, convey.ShouldEqual, 160)
				convey.So(cfg.HardCap, convey.ShouldEqual, 200)
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreDriverSQLite)
				convey.So(cfg.RosterTimeoutSec, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading config with a YAML file and env on top", func() {
			yamlContent := `
addr: ":9090"
season: "2026-27"
cap_floor: 100
soft_cap: 150
hard_cap: 190
roster_url: "https://example.test/roster.json"
team_aliases:
  bucks: BUCKS
  cream: CITY
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("LEAGUE_CONFIG", tmpFile)
			_ = os.Setenv("LEAGUE_ADDR", ":7070")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env wins over file and file wins over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.Season, convey.ShouldEqual, "2026-27")
				convey.So(cfg.CapFloor, convey.ShouldEqual, 100)
				convey.So(cfg.SoftCap, convey.ShouldEqual, 150)
				convey.So(cfg.HardCap, convey.ShouldEqual, 190)
				convey.So(cfg.RosterURL, convey.ShouldEqual, "https://example.test/roster.json")
				convey.So(cfg.TeamAliases["cream"], convey.ShouldEqual, "CITY")
				convey.So(cfg.ApronMultiplier, convey.ShouldEqual, 1.30)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("LEAGUE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("LEAGUE_CONFIG", "/non/existent/league.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the cap thresholds do not ascend", func() {
			_ = os.Setenv("LEAGUE_SOFT_CAP", "200")
			_ = os.Setenv("LEAGUE_HARD_CAP", "150")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "ascend")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown store driver", func() {
			_ = os.Setenv("LEAGUE_STORE_DRIVER", "postgres")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("LEAGUE_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("LEAGUE_WORKER_COUNT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	envVars := []string{
		"LEAGUE_CONFIG",
		"LEAGUE_ADDR",
		"LEAGUE_SOFT_CAP",
		"LEAGUE_HARD_CAP",
		"LEAGUE_STORE_DRIVER",
		"LEAGUE_ROSTER_TIMEOUT_SEC",
		"LEAGUE_WORKER_COUNT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "league-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
