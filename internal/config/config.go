// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds runtime configuration for the server, worker and seed commands.
type Config struct {
	AppEnv  string `envconfig:"APP_ENV" default:"development"`
	AppPort string `envconfig:"APP_PORT" default:"8080"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DBDriver         string        `envconfig:"DB_DRIVER" default:"sqlite"`
	DatabaseURL      string        `envconfig:"DATABASE_URL"`
	SQLitePath       string        `envconfig:"SQLITE_PATH" default:"storepos.db"`
	StatementTimeout time.Duration `envconfig:"STATEMENT_TIMEOUT" default:"30s"`

	// StrictStock rejects sales that would drive stock below zero.
	StrictStock bool `envconfig:"STRICT_STOCK" default:"false"`

	WorkerInterval time.Duration `envconfig:"WORKER_INTERVAL" default:"1m"`
	WorkerBatch    int           `envconfig:"WORKER_BATCH" default:"50"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from environment variables only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH must be set for driver %q", c.DBDriver)
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set for driver %q", c.DBDriver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.WorkerInterval <= 0 {
		return fmt.Errorf("WORKER_INTERVAL must be positive")
	}
	if c.WorkerBatch <= 0 {
		return fmt.Errorf("WORKER_BATCH must be positive")
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c != nil && c.AppEnv == "development"
}
