package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultListenAddr      = ":8080"
	defaultDatabaseURL     = "inspectdesk.db"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "24h"
	defaultMaxSqft         = "20000"
	defaultMinYearBuilt    = "1800"
	defaultOutboxInterval  = "30s"
	defaultOutboxBatchSize = "50"
)

// Config is the process configuration, loaded from the environment.
type Config struct {
	AppEnv      string
	ListenAddr  string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	// Property validation bounds.
	MaxSqft      int
	MinYearBuilt int

	// Outbox dispatcher.
	OutboxInterval  time.Duration
	OutboxBatchSize int
}

// Load reads the configuration from the environment, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.ListenAddr = getEnv("LISTEN_ADDR", defaultListenAddr)
	cfg.DatabaseURL = getEnv("DATABASE_URL", defaultDatabaseURL)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.MaxSqft, err = parseIntEnv("MAX_SQFT", defaultMaxSqft); err != nil {
		return nil, err
	}
	if cfg.MinYearBuilt, err = parseIntEnv("MIN_YEAR_BUILT", defaultMinYearBuilt); err != nil {
		return nil, err
	}
	if cfg.OutboxInterval, err = parseDurationEnv("OUTBOX_INTERVAL", defaultOutboxInterval); err != nil {
		return nil, err
	}
	if cfg.OutboxBatchSize, err = parseIntEnv("OUTBOX_BATCH_SIZE", defaultOutboxBatchSize); err != nil {
		return nil, err
	}

	if cfg.AppEnv == "prod" && cfg.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set in prod")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	v := getEnv(key, fallback)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key, fallback string) (int, error) {
	v := getEnv(key, fallback)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
