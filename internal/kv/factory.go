package kv

import (
	"fmt"
	"net/url"
)

// Backend types
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// StoreConfig holds configuration for store creation.
type StoreConfig struct {
	// Type is the backend type: "memory", "sqlite" or "redis"
	Type string

	// DBPath is the SQLite database path (only for sqlite type)
	DBPath string

	// RedisURL is the Redis connection URL (only for redis type)
	// Example: redis://localhost:6379/0
	RedisURL string

	// Prefix is the key prefix for Redis (only for redis type)
	Prefix string
}

// NewStore creates a store based on the provided configuration.
func NewStore(cfg StoreConfig) (Store, error) {
	switch cfg.Type {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendSQLite:
		if cfg.DBPath == "" {
			return nil, fmt.Errorf("sqlite backend requires a database path")
		}
		return NewSQLiteStore(cfg.DBPath)
	case BackendRedis:
		return NewRedisStoreFromURL(cfg.RedisURL, cfg.Prefix)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Type)
	}
}

// SanitizeRedisURL masks the password in a Redis URL for safe logging.
func SanitizeRedisURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "[invalid URL]"
	}
	if _, has := u.User.Password(); has {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
