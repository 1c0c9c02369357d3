package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// UserAgent identifies the proxy to NOAA. api.weather.gov rejects or
	// throttles anonymous clients, so this must stay non-empty.
	UserAgent       string        `envconfig:"USER_AGENT" default:"boatsafe-sub000 (https://github.com/yarimitsu/boatsafe-sub000)"`
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"15s"`

	CacheEnabled    bool `envconfig:"CACHE_ENABLED" default:"true"`
	CacheMaxEntries int  `envconfig:"CACHE_MAX_ENTRIES" default:"1000"`

	// TrustProxyHeaders switches rate-limit keying to X-Forwarded-For /
	// X-Real-IP. The deploy target fronts the service with a reverse
	// proxy, so this defaults on; turn it off when exposing the listener
	// directly, otherwise callers can spoof their way past the limiter.
	TrustProxyHeaders bool `envconfig:"TRUST_PROXY_HEADERS" default:"true"`

	// RedisAddr enables the shared rate-limit store. Empty keeps limiting
	// in process memory, which is fine for a single replica.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	RateLimitPerHour     int `envconfig:"RATE_LIMIT_PER_HOUR" default:"60"`
	TideRateLimitPerHour int `envconfig:"TIDE_RATE_LIMIT_PER_HOUR" default:"120"`
	RateLimitMaxKeys     int `envconfig:"RATE_LIMIT_MAX_KEYS" default:"10000"`
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}

	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if cfg.UpstreamTimeout <= 0 {
		return nil, errors.New("UPSTREAM_TIMEOUT must be positive")
	}
	if cfg.UserAgent == "" {
		return nil, errors.New("USER_AGENT is required")
	}
	if cfg.CacheMaxEntries <= 0 {
		return nil, errors.New("CACHE_MAX_ENTRIES must be positive")
	}
	if cfg.RateLimitPerHour <= 0 {
		return nil, errors.New("RATE_LIMIT_PER_HOUR must be positive")
	}
	if cfg.TideRateLimitPerHour <= 0 {
		return nil, errors.New("TIDE_RATE_LIMIT_PER_HOUR must be positive")
	}
	if cfg.RateLimitMaxKeys <= 0 {
		return nil, errors.New("RATE_LIMIT_MAX_KEYS must be positive")
	}

	return &cfg, nil
}
