// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable of the server process.
type Config struct {
	Addr   string `env:"TICKMUD_ADDR" envDefault:":8080"`
	DBPath string `env:"TICKMUD_DB_PATH" envDefault:"./data/tickmud.db"`

	TickInterval  time.Duration `env:"TICKMUD_TICK_INTERVAL" envDefault:"100ms"`
	RoundInterval time.Duration `env:"TICKMUD_ROUND_INTERVAL" envDefault:"1500ms"`
	RegenInterval time.Duration `env:"TICKMUD_REGEN_INTERVAL" envDefault:"2s"`

	// MaxIdleMinutes of zero or less disables idle eviction.
	MaxIdleMinutes int `env:"TICKMUD_MAX_IDLE_MINUTES" envDefault:"20"`

	StartingRoom string        `env:"TICKMUD_STARTING_ROOM" envDefault:"limbo:start"`
	SkillLag     time.Duration `env:"TICKMUD_SKILL_LAG" envDefault:"1000ms"`
	AllowPvP     bool          `env:"TICKMUD_ALLOW_PVP" envDefault:"false"`

	LogFormat string `env:"TICKMUD_LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"TICKMUD_LOG_LEVEL" envDefault:"info"`

	SnapshotCacheSize int           `env:"TICKMUD_SNAPSHOT_CACHE_SIZE" envDefault:"256"`
	BackupInterval    time.Duration `env:"TICKMUD_BACKUP_INTERVAL" envDefault:"5m"`

	OTelEndpoint string `env:"TICKMUD_OTEL_ENDPOINT"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	return Config{
		Addr:              ":8080",
		DBPath:            "./data/tickmud.db",
		TickInterval:      100 * time.Millisecond,
		RoundInterval:     1500 * time.Millisecond,
		RegenInterval:     2 * time.Second,
		MaxIdleMinutes:    20,
		StartingRoom:      "limbo:start",
		SkillLag:          time.Second,
		LogFormat:         "text",
		LogLevel:          "info",
		SnapshotCacheSize: 256,
		BackupInterval:    5 * time.Minute,
	}
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.RoundInterval < 0 || c.RegenInterval < 0 {
		return fmt.Errorf("round and regen intervals must not be negative")
	}
	if c.SnapshotCacheSize <= 0 {
		return fmt.Errorf("snapshot cache size must be positive, got %d", c.SnapshotCacheSize)
	}
	return nil
}

// MaxIdle converts MaxIdleMinutes into a duration. Zero means disabled.
func (c Config) MaxIdle() time.Duration {
	if c.MaxIdleMinutes <= 0 {
		return 0
	}
	return time.Duration(c.MaxIdleMinutes) * time.Minute
}
