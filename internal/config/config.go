package config

import (
	"fmt"
	"time"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/domain"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/syncguard"
	pkgconfig "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/config"
)

// Config holds all configuration for the storefront BFF.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort          int      `env:"BFF_HTTP_PORT" envDefault:"8090"`
	CORSOrigins       []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envSeparator:","`

	// Remote storefront API
	RemoteBaseURL    string `env:"REMOTE_API_BASE_URL" envDefault:"http://localhost:5000/api"`
	RemoteTimeoutMS  int    `env:"REMOTE_TIMEOUT_MS" envDefault:"10000"`
	RemoteMaxRetries int    `env:"REMOTE_MAX_RETRIES" envDefault:"2"`

	// Circuit breaker around the remote API
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"15"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// Redis (guest mirrors)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	SlowCommandThresholdMs int `env:"REDIS_SLOW_COMMAND_MS" envDefault:"100"`

	// Guest mirror TTL in hours (default: 30 days)
	LocalStoreTTL int `env:"LOCAL_STORE_TTL_HOURS" envDefault:"720"`

	// In-memory sessions idle longer than this are evicted; their mirror stays.
	SessionIdleMinutes int `env:"SESSION_IDLE_MINUTES" envDefault:"30"`

	CategoryCacheTTLSeconds int `env:"CATEGORY_CACHE_TTL_SECONDS" envDefault:"300"`

	// Pricing
	DefaultPriceTier string `env:"DEFAULT_PRICE_TIER" envDefault:"1"`
	CurrencySymbol   string `env:"CURRENCY_SYMBOL" envDefault:"€"`

	// Login policies: abandon | merge
	WishlistLoginPolicy string `env:"WISHLIST_LOGIN_POLICY" envDefault:"abandon"`
	CartLoginPolicy     string `env:"CART_LOGIN_POLICY" envDefault:"abandon"`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load bff config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.RemoteBaseURL == "" {
		return fmt.Errorf("REMOTE_API_BASE_URL is required")
	}
	if c.RemoteTimeoutMS <= 0 {
		return fmt.Errorf("REMOTE_TIMEOUT_MS must be positive")
	}
	if c.RemoteMaxRetries < 0 {
		return fmt.Errorf("REMOTE_MAX_RETRIES must not be negative")
	}
	if c.LocalStoreTTL <= 0 {
		return fmt.Errorf("LOCAL_STORE_TTL_HOURS must be positive")
	}
	if c.SessionIdleMinutes <= 0 {
		return fmt.Errorf("SESSION_IDLE_MINUTES must be positive")
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1 {
		return fmt.Errorf("CB_FAILURE_RATIO must be in (0, 1]")
	}
	if c.CBTimeout <= 0 {
		return fmt.Errorf("CB_TIMEOUT_SECONDS must be positive")
	}
	if c.CategoryCacheTTLSeconds <= 0 {
		return fmt.Errorf("CATEGORY_CACHE_TTL_SECONDS must be positive")
	}
	if _, err := domain.ParsePriceTier(c.DefaultPriceTier); err != nil {
		return fmt.Errorf("DEFAULT_PRICE_TIER: %w", err)
	}
	if _, err := syncguard.ParseLoginPolicy(c.WishlistLoginPolicy); err != nil {
		return fmt.Errorf("WISHLIST_LOGIN_POLICY: %w", err)
	}
	if _, err := syncguard.ParseLoginPolicy(c.CartLoginPolicy); err != nil {
		return fmt.Errorf("CART_LOGIN_POLICY: %w", err)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0")
	}
	return nil
}

// RemoteTimeout returns the per-request timeout of the remote API client.
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutMS) * time.Millisecond
}

// LocalTTL returns the lifetime of a guest mirror key.
func (c *Config) LocalTTL() time.Duration {
	return time.Duration(c.LocalStoreTTL) * time.Hour
}

// SessionIdle returns how long an unused session stays in memory.
func (c *Config) SessionIdle() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}

// CategoryCacheTTL returns how long a fetched category list is served.
func (c *Config) CategoryCacheTTL() time.Duration {
	return time.Duration(c.CategoryCacheTTLSeconds) * time.Second
}

// PriceTier returns the parsed default price tier. Call after Load.
func (c *Config) PriceTier() domain.PriceTier {
	t, _ := domain.ParsePriceTier(c.DefaultPriceTier)
	return t
}

// WishlistPolicy returns the parsed wishlist login policy. Call after Load.
func (c *Config) WishlistPolicy() syncguard.LoginPolicy {
	p, _ := syncguard.ParseLoginPolicy(c.WishlistLoginPolicy)
	return p
}

// CartPolicy returns the parsed cart login policy. Call after Load.
func (c *Config) CartPolicy() syncguard.LoginPolicy {
	p, _ := syncguard.ParseLoginPolicy(c.CartLoginPolicy)
	return p
}
