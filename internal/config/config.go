// Package config defines the league service configuration and its loader.
//
// Conventions:
// - Defaults live in New; Load layers an optional YAML file and env vars on top.
// - Money thresholds are plain numbers in millions, the unit used by the roster dataset.
package config

// Store drivers accepted by StoreDriver.
const (
	StoreDriverFile   = "file"
	StoreDriverSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the league state backend: "file" or "sqlite".
	StoreDriver string `koanf:"store_driver"`

	// StorePath is the JSON document path or the SQLite database path.
	StorePath string `koanf:"store_path"`

	// RosterURL is the roster dataset endpoint. Empty disables resync.
	RosterURL string `koanf:"roster_url"`

	// RosterTimeoutSec bounds a single roster fetch.
	RosterTimeoutSec int `koanf:"roster_timeout_sec"`

	// Season is the active salary season label, e.g. "2025-26".
	Season string `koanf:"season"`

	// CapFloor, SoftCap and HardCap are the ascending payroll breakpoints.
	CapFloor float64 `koanf:"cap_floor"`
	SoftCap  float64 `koanf:"soft_cap"`
	HardCap  float64 `koanf:"hard_cap"`

	// ApronMultiplier bounds incoming salary for teams between the soft and hard cap.
	ApronMultiplier float64 `koanf:"apron_multiplier"`

	// ApproverRole is the single role allowed to resolve proposals.
	ApproverRole string `koanf:"approver_role"`

	// ApprovalChannel and PublicChannel name the notification sinks.
	ApprovalChannel string `koanf:"approval_channel"`
	PublicChannel   string `koanf:"public_channel"`

	// TeamCategory groups provisioned team channels.
	TeamCategory string `koanf:"team_category"`

	// WorkerCount and QueueSize size the deferred job pipeline.
	WorkerCount int `koanf:"worker_count"`
	QueueSize   int `koanf:"queue_size"`

	// TeamAliases maps nicknames and cities to a canonical keyword.
	TeamAliases map[string]string `koanf:"team_aliases"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		StoreDriver:      StoreDriverFile,
		StorePath:        "league_db.json",
		RosterTimeoutSec: 30,
		Season:           "2025-26",
		CapFloor:         126,
		SoftCap:          140,
		HardCap:          178,
		ApronMultiplier:  1.30,
		ApproverRole:     "commissioner",
		ApprovalChannel:  "trade-approvals",
		PublicChannel:    "transactions",
		TeamCategory:     "Franchises",
		WorkerCount:      4,
		QueueSize:        256,
		TeamAliases: map[string]string{
			"bucks":     "BUCKS",
			"milwaukee": "BUCKS",
			"lakers":    "LAKERS",
			"la":        "LAKERS",
			"celtics":   "CELTICS",
			"boston":    "CELTICS",
			"knicks":    "KNICKS",
			"ny":        "KNICKS",
			"warriors":  "WARRIORS",
			"gsw":       "WARRIORS",
			"sixers":    "76ERS",
			"philly":    "76ERS",
		},
	}
}
