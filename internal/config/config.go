// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config holds all runtime settings.
type Config struct {
	// DBPath is the exercise database. Empty means ~/.reorder/reorder.db.
	DBPath      string        `env:"REORDER_DB"`
	LogLevel    string        `env:"REORDER_LOG_LEVEL" envDefault:"warn" validate:"oneof=debug info warn error"`
	Addr        string        `env:"REORDER_ADDR" envDefault:"127.0.0.1:8080" validate:"hostname_port"`
	ShuffleSeed uint64        `env:"REORDER_SHUFFLE_SEED"`
	// SessionTTL is how long serve keeps an idle session. Zero never expires.
	SessionTTL  time.Duration `env:"REORDER_SESSION_TTL" envDefault:"30m" validate:"gte=0"`
}

var validate = validator.New()

// Load parses the environment into a validated Config.
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Database returns the database path, falling back to the home directory.
func (c *Config) Database() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".reorder", "reorder.db")
}
