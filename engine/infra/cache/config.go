package cache

import (
	"time"

	"github.com/compozy/gantt/pkg/config"
)

type Config struct {
	URL         string        `json:"url,omitempty"          yaml:"url,omitempty"          mapstructure:"url"`
	Addr        string        `json:"addr,omitempty"         yaml:"addr,omitempty"         mapstructure:"addr"`
	Password    string        `json:"password,omitempty"     yaml:"password,omitempty"     mapstructure:"password"`
	DB          int           `json:"db,omitempty"           yaml:"db,omitempty"           mapstructure:"db"`
	PingTimeout time.Duration `json:"ping_timeout,omitempty" yaml:"ping_timeout,omitempty" mapstructure:"ping_timeout"`
}

// FromRateLimitConfig returns the Redis settings of the rate limiter, or nil when
// counters should stay in memory.
func FromRateLimitConfig(cfg *config.RateLimitConfig) *Config {
	if cfg == nil || cfg.RedisAddr == "" {
		return nil
	}
	return &Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}
