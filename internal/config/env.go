// Package config reads shelflife defaults from the environment.
//
// Command-line flags always win; the environment only supplies the value a
// flag falls back to when it is not set.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds environment-provided defaults for the CLI.
type Config struct {
	// DBPath is the SQLite database used by simulate and report.
	// Empty means simulate runs without persistence.
	DBPath string `env:"SHELFLIFE_DB"`

	// Days is the default number of days simulate runs.
	Days int `env:"SHELFLIFE_DAYS" envDefault:"1"`

	// Format is the default output format (text or json).
	Format string `env:"SHELFLIFE_FORMAT" envDefault:"text"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the CLI configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Days < 0 {
		return Config{}, fmt.Errorf("SHELFLIFE_DAYS must be non-negative, got %d", cfg.Days)
	}
	return cfg, nil
}
