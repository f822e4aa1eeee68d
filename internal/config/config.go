package config

import (
	"fmt"
	"strings"

	pkgconfig "github.com/YousefAboschwaly/ecommerce-V2/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Commerce API (upstream source of truth)
	CommerceBaseURL string `env:"COMMERCE_BASE_URL" envDefault:"https://ecommerce.routemisr.com"`

	// Where the payment provider redirects the shopper after checkout.
	CheckoutReturnURL string `env:"CHECKOUT_RETURN_URL" envDefault:"http://localhost:5173/orders"`

	// Session storage: "redis", "file", or "memory".
	SessionStore    string `env:"SESSION_STORE" envDefault:"redis"`
	SessionFilePath string `env:"SESSION_FILE_PATH" envDefault:"storefront-sessions.toml"`
	SessionTTLHours int    `env:"SESSION_TTL_HOURS" envDefault:"24"`

	// Secure session cookie (requires TLS in front of the service).
	SecureCookie bool `env:"SECURE_COOKIE" envDefault:"false"`

	// Redis (sessions and catalog cache)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// In-memory cart/wishlist read cache TTL in seconds.
	SyncCacheTTLSeconds int `env:"SYNC_CACHE_TTL_SECONDS" envDefault:"30"`

	// Shared catalog cache TTL in minutes.
	CatalogTTLMinutes int `env:"CATALOG_TTL_MINUTES" envDefault:"10"`

	// Kafka activity events. Disabled when no brokers are configured.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"" envSeparator:","`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof IP allowlist (CIDRs).
	PprofCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
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
	if !strings.HasPrefix(c.CommerceBaseURL, "http://") && !strings.HasPrefix(c.CommerceBaseURL, "https://") {
		return fmt.Errorf("invalid commerce base URL: %q", c.CommerceBaseURL)
	}
	switch c.SessionStore {
	case "redis", "file", "memory":
	default:
		return fmt.Errorf("invalid session store %q: must be redis, file, or memory", c.SessionStore)
	}
	if c.SessionTTLHours < 1 {
		return fmt.Errorf("session TTL must be at least 1 hour, got %d", c.SessionTTLHours)
	}
	return nil
}

// KafkaEnabled reports whether activity events should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaBrokers[0] != ""
}
