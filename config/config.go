// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port        int    `env:"PORT"         envDefault:"3000"`
	BindAddress string `env:"BIND_ADDRESS" envDefault:""`
	StaticDir   string `env:"STATIC_DIR"`

	CardLimit         int           `env:"CARD_LIMIT"          envDefault:"50"`
	NewCardRateLimit  int           `env:"NEW_CARD_RATE_LIMIT"  envDefault:"50"`
	NewCardRateWindow time.Duration `env:"NEW_CARD_RATE_WINDOW" envDefault:"60s"`

	// SurfaceSilentErrors sends an error event for rate-limited requests,
	// invalid tap/move indexes and failed draws, which are otherwise only logged.
	SurfaceSilentErrors bool `env:"SURFACE_SILENT_ERRORS" envDefault:"false"`

	ScryfallBaseURL     string        `env:"SCRYFALL_BASE_URL"     envDefault:"https://api.scryfall.com"`
	ScryfallMinInterval time.Duration `env:"SCRYFALL_MIN_INTERVAL" envDefault:"100ms"`
	ScryfallTimeout     time.Duration `env:"SCRYFALL_TIMEOUT"      envDefault:"0s"`
	LookupWorkers       int           `env:"LOOKUP_WORKERS"        envDefault:"64"`

	DatabaseURL string `env:"DATABASE_URL"`

	Log Log `envPrefix:"LOG_"`
}

// Log configures the process logger.
type Log struct {
	Level      string `env:"LEVEL"         envDefault:"info"`
	Format     string `env:"FORMAT"        envDefault:"console"`
	File       string `env:"FILE"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB"   envDefault:"100"`
	MaxBackups int    `env:"MAX_BACKUPS"   envDefault:"7"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS"  envDefault:"7"`
}

// Load parses the environment into a Config and validates it.
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

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.CardLimit <= 0 {
		errs = append(errs, fmt.Errorf("CARD_LIMIT must be positive, got %d", c.CardLimit))
	}
	if c.NewCardRateLimit <= 0 {
		errs = append(errs, fmt.Errorf("NEW_CARD_RATE_LIMIT must be positive, got %d", c.NewCardRateLimit))
	}
	if c.NewCardRateWindow <= 0 {
		errs = append(errs, fmt.Errorf("NEW_CARD_RATE_WINDOW must be positive, got %s", c.NewCardRateWindow))
	}
	if c.LookupWorkers <= 0 {
		errs = append(errs, fmt.Errorf("LOOKUP_WORKERS must be positive, got %d", c.LookupWorkers))
	}
	return errors.Join(errs...)
}

// Addr is the listen address built from BindAddress and Port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.BindAddress, strconv.Itoa(c.Port))
}
