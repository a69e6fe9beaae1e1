package config

import (
	"fmt"

	pkgconfig "github.com/velora/storefront-cart/pkg/config"
)

// Store backends selectable via CART_STORE.
const (
	StoreMongo = "mongo"
	StoreRedis = "redis"
)

// Config holds all configuration for the cart service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"CART_HTTP_PORT" envDefault:"8003"`

	// Persistence backend: mongo (default) or redis.
	CartStore string `env:"CART_STORE" envDefault:"mongo"`

	// MongoDB
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"storefront"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL in hours for the redis backend (default: 7 days).
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"168"`

	// Display currency stamped on new carts.
	Currency string `env:"CART_CURRENCY" envDefault:"USD"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Catalog service; empty disables stock ceilings.
	CatalogBaseURL string `env:"CATALOG_BASE_URL" envDefault:""`

	// JWT auth; empty trusts the X-User-ID header from the gateway.
	JWTSecret string `env:"JWT_SECRET" envDefault:""`

	// Rate limiting per client IP; 0 disables.
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"0"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Pprof access allowlist.
	PprofCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32" envSeparator:","`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load cart config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CartStore != StoreMongo && c.CartStore != StoreRedis {
		return fmt.Errorf("invalid CART_STORE: %q (must be %q or %q)", c.CartStore, StoreMongo, StoreRedis)
	}
	if c.CartTTL < 1 {
		return fmt.Errorf("CART_TTL_HOURS must be positive, got %d", c.CartTTL)
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("CART_CURRENCY must be a 3-letter code, got %q", c.Currency)
	}
	if c.OTELSampleRate < 0.0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %g", c.OTELSampleRate)
	}
	return nil
}
