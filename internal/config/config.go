// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken  string
	PollInterval time.Duration
	ListenAddr   string
	DBPath       string
}

// Load reads configuration from environment variables and returns a validated Config.
// PRFEED_GITHUB_TOKEN is optional; without it requests run unauthenticated and hit
// GitHub's lower anonymous rate limit. Optional variables with defaults:
// PRFEED_POLL_INTERVAL (2m), PRFEED_LISTEN_ADDR (127.0.0.1:8080),
// PRFEED_DB_PATH (prfeed.db).
func Load() (*Config, error) {
	token := os.Getenv("PRFEED_GITHUB_TOKEN")

	pollInterval := 2 * time.Minute
	if v, ok := os.LookupEnv("PRFEED_POLL_INTERVAL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("PRFEED_POLL_INTERVAL has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("PRFEED_POLL_INTERVAL must be positive, got %q", v)
		}
		pollInterval = parsed
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("PRFEED_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "prfeed.db"
	if v, ok := os.LookupEnv("PRFEED_DB_PATH"); ok {
		dbPath = v
	}

	return &Config{
		GitHubToken:  token,
		PollInterval: pollInterval,
		ListenAddr:   listenAddr,
		DBPath:       dbPath,
	}, nil
}
