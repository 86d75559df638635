package ratelimit

import (
	"fmt"
	"time"

	"github.com/ulule/limiter/v3"
)

// Config represents rate limiting configuration
type Config struct {
	Rate RateConfig
	// Prefix namespaces limiter keys in the store.
	Prefix string
	// MaxRetry bounds optimistic-lock retries against Redis.
	MaxRetry int

	ExcludedPaths []string
	ExcludedIPs   []string
}

// RateConfig represents a single rate limit configuration
type RateConfig struct {
	Period time.Duration
	Limit  int64
}

// DefaultConfig returns default rate limiting configuration
func DefaultConfig() *Config {
	return &Config{
		Rate: RateConfig{
			Limit:  100,
			Period: 1 * time.Minute,
		},
		Prefix:        "gantt:ratelimit",
		MaxRetry:      3,
		ExcludedPaths: []string{"/healthz", "/metrics"},
		ExcludedIPs:   []string{},
	}
}

// ToLimiterRate converts RateConfig to limiter.Rate
func (rc RateConfig) ToLimiterRate() limiter.Rate {
	return limiter.Rate{
		Period: rc.Period,
		Limit:  rc.Limit,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Rate.Limit <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	if c.Rate.Period <= 0 {
		return fmt.Errorf("rate limit period must be positive")
	}
	return nil
}
