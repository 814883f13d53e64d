// Package config loads service configuration from the environment so main
// stays lean. Store credentials are validated at startup, not here.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr string

	// DatabaseURL selects the postgres store. Empty means the in-memory
	// store, which only makes sense for development.
	DatabaseURL string

	// RedisURL selects the redis-backed rate-limit store. Empty means the
	// in-process store (single-instance deployments).
	RedisURL string

	// KafkaBrokers enables the kafka audit sink when non-empty.
	KafkaBrokers []string

	RateLimit RateLimit

	// AdminKeyHash is the bcrypt hash guarding the operator endpoints.
	// Empty disables the admin surface.
	AdminKeyHash string

	LogLevel  string
	LogFormat string
}

// RateLimit holds the fixed-window admission parameters.
type RateLimit struct {
	Window time.Duration
	Max    int
}

// Defaults for the admission window: 10 submissions per 5 minutes per client.
const (
	DefaultRateLimitWindow = 5 * time.Minute
	DefaultRateLimitMax    = 10
)

// FromEnv builds a Config from environment variables, applying defaults for
// anything unset.
func FromEnv() Config {
	cfg := Config{
		Addr:         envOr("MATRICULA_ADDR", ":8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		AdminKeyHash: os.Getenv("ADMIN_KEY_HASH"),
		LogLevel:     envOr("LOG_LEVEL", "info"),
		LogFormat:    envOr("LOG_FORMAT", "json"),
		RateLimit: RateLimit{
			Window: DefaultRateLimitWindow,
			Max:    DefaultRateLimitMax,
		},
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RateLimit.Window = d
		}
	}
	if v := os.Getenv("RATE_LIMIT_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimit.Max = n
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
