package scheduler

import (
	"os"
	"strings"
	"time"
)

// Config controls the recompute cadence and per-job timeout.
type Config struct {
	RunInterval time.Duration
	JobTimeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		RunInterval: 10 * time.Minute,
		JobTimeout:  30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	return c
}

// ProvideConfig reads overrides from the environment, for example
// RISK_RECOMPUTE_INTERVAL=1m during local development.
func ProvideConfig() Config {
	cfg := Config{}
	if raw := strings.TrimSpace(os.Getenv("RISK_RECOMPUTE_INTERVAL")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.RunInterval = d
		}
	}
	if raw := strings.TrimSpace(os.Getenv("RISK_RECOMPUTE_TIMEOUT")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.JobTimeout = d
		}
	}
	return cfg
}
