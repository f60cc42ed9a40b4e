// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from REDUX_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/redux-collective/redux-go/internal/kv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"REDUX_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"REDUX_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"REDUX_ENV" envDefault:"development"`
	LogLevel   string `env:"REDUX_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"REDUX_LOG_FORMAT" envDefault:"text"` // text or json

	// Storage backend
	StoreBackend string `env:"REDUX_STORE_BACKEND" envDefault:"sqlite"` // memory, sqlite or redis
	DBPath       string `env:"REDUX_DB_PATH" envDefault:"./data/redux.db"`
	RedisURL     string `env:"REDUX_REDIS_URL"`
	RedisPrefix  string `env:"REDUX_REDIS_PREFIX" envDefault:"redux:"`

	// Content
	VersionRetention int    `env:"REDUX_VERSION_RETENTION" envDefault:"0"` // 0 = built-in default
	UploadsDir       string `env:"REDUX_UPLOADS_DIR" envDefault:"./uploads"`

	// Site identity, embedded in exports
	SiteName        string `env:"REDUX_SITE_NAME" envDefault:"REDUX"`
	SiteDescription string `env:"REDUX_SITE_DESCRIPTION"`
	SiteURL         string `env:"REDUX_SITE_URL"`

	// Background maintenance
	SchedulerEnabled bool `env:"REDUX_SCHEDULER_ENABLED" envDefault:"true"`
	EventMaxAgeDays  int  `env:"REDUX_EVENT_MAX_AGE_DAYS" envDefault:"90"` // 0 = keep forever

	// API rate limiting
	RateLimitRPS   float64 `env:"REDUX_RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"REDUX_RATE_LIMIT_BURST" envDefault:"40"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// SlogLevel maps the configured log level onto slog's levels.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.StoreBackend {
	case kv.BackendMemory, kv.BackendSQLite, kv.BackendRedis:
	default:
		return nil, fmt.Errorf("REDUX_STORE_BACKEND must be memory, sqlite or redis, got %q", cfg.StoreBackend)
	}
	if cfg.StoreBackend == kv.BackendRedis && cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDUX_REDIS_URL is required for the redis backend")
	}
	if cfg.VersionRetention < 0 {
		return nil, fmt.Errorf("REDUX_VERSION_RETENTION must not be negative, got %d", cfg.VersionRetention)
	}
	if cfg.EventMaxAgeDays < 0 {
		return nil, fmt.Errorf("REDUX_EVENT_MAX_AGE_DAYS must not be negative, got %d", cfg.EventMaxAgeDays)
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("rate limit settings must be positive")
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		slog.Warn("unknown REDUX_LOG_FORMAT, falling back to text", "format", cfg.LogFormat)
		cfg.LogFormat = "text"
	}

	return cfg, nil
}
