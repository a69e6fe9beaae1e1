package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8003, cfg.HTTPPort)
	assert.Equal(t, StoreMongo, cfg.CartStore)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 168, cfg.CartTTL)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Empty(t, cfg.JWTSecret)
	assert.Empty(t, cfg.CatalogBaseURL)
}

func TestLoad_RedisStore(t *testing.T) {
	t.Setenv("CART_STORE", "redis")
	t.Setenv("REDIS_ADDR", "redis.prod:6380")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, StoreRedis, cfg.CartStore)
	assert.Equal(t, "redis.prod:6380", cfg.RedisAddr)
}

func TestLoad_UnknownStoreRejected(t *testing.T) {
	t.Setenv("CART_STORE", "postgres")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid CART_STORE")
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("CART_HTTP_PORT", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidCurrency(t *testing.T) {
	t.Setenv("CART_CURRENCY", "DOLLARS")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "CART_CURRENCY")
}

func TestLoad_InvalidOTELSampleRate(t *testing.T) {
	t.Setenv("OTEL_SAMPLE_RATE", "2.0")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTEL_SAMPLE_RATE must be between 0.0 and 1.0")
}

func TestLoad_KafkaBrokersList(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}
