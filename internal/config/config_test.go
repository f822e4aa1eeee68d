package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "https://ecommerce.routemisr.com", cfg.CommerceBaseURL)
	assert.Equal(t, "redis", cfg.SessionStore)
	assert.Equal(t, 24, cfg.SessionTTLHours)
	assert.Equal(t, 30, cfg.SyncCacheTTLSeconds)
	assert.Equal(t, 10, cfg.CatalogTTLMinutes)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, []string{"127.0.0.1/32"}, cfg.PprofCIDRs)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "9090")
	t.Setenv("SESSION_STORE", "file")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com,https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "file", cfg.SessionStore)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidBaseURL(t *testing.T) {
	t.Setenv("COMMERCE_BASE_URL", "ecommerce.routemisr.com")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid commerce base URL")
}

func TestLoad_InvalidSessionStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid session store")
}

func TestLoad_InvalidSessionTTL(t *testing.T) {
	t.Setenv("SESSION_TTL_HOURS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session TTL")
}

func TestKafkaEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.KafkaEnabled())

	cfg.KafkaBrokers = []string{""}
	assert.False(t, cfg.KafkaEnabled())

	cfg.KafkaBrokers = []string{"localhost:9092"}
	assert.True(t, cfg.KafkaEnabled())
}
