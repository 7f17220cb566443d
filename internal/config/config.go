// Package config handles runtime configuration for the server,
// including defaults and environment variable overrides.
package config

import (
	"errors"
	"os"
	"time"
)

// Config holds runtime settings for the taskdeck server.
//
// Fields:
//   - Port: HTTP listen port.
//   - DatabasePath: path to the sqlite database file.
//   - RedisAddr: address of the redis instance backing the task cache.
//   - JWTSecret: HMAC secret for signing session tokens (HS256).
//   - TokenTTL: session token lifetime.
//   - OtelEndpoint: OTLP collector endpoint for traces/metrics/logs.
type Config struct {
	Port         string
	DatabasePath string
	RedisAddr    string
	JWTSecret    string
	TokenTTL     time.Duration
	OtelEndpoint string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret default is insecure and must be overridden in prod.
func (c *Config) LoadDefaults() {
	c.Port = "3000"
	c.DatabasePath = "./taskdeck.db"
	c.RedisAddr = "localhost:6379"
	c.JWTSecret = ""
	c.TokenTTL = 72 * time.Hour
	c.OtelEndpoint = "otel-collector:4317"
}

// Load builds a Config by applying defaults and then overlaying values
// from the process environment.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("REDIS_CONNSTRING"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.New("TOKEN_TTL must be a valid duration, e.g. 72h")
		}
		cfg.TokenTTL = d
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OtelEndpoint = v
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("you must set your 'JWT_SECRET' environmental variable")
	}

	return cfg, nil
}
