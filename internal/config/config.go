// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings. Every field has an ATELIER_*
// environment variable; only the JWT secret is required to serve.
type Config struct {
	DBPath    string        `env:"ATELIER_DB" envDefault:"atelier.db"`
	Addr      string        `env:"ATELIER_ADDR" envDefault:":8080"`
	JWTSecret string        `env:"ATELIER_JWT_SECRET"`
	TokenTTL  time.Duration `env:"ATELIER_TOKEN_TTL" envDefault:"24h"`
	LogFormat string        `env:"ATELIER_LOG_FORMAT" envDefault:"text"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
		cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	default:
		return Config{}, fmt.Errorf("ATELIER_LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	return cfg, nil
}

// RequireSecret validates that a JWT secret is configured, needed by
// commands that mint or verify tokens.
func (c Config) RequireSecret() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("ATELIER_JWT_SECRET is required")
	}
	return nil
}
