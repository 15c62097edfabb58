package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("LOGISTICS_API_URL", "https://logistics.test/NewLogistic/v2")
	t.Setenv("SESSION_SECRET", "test-secret")
}

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 15*time.Second, cfg.Logistics.Timeout())
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "portal_session", cfg.Session.CookieName)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL())
	assert.Equal(t, 30*time.Minute, cfg.Session.PendingTTL())
	assert.True(t, cfg.Workflow.QuoteFallback)
	assert.False(t, cfg.Workflow.AllowFallbackOrders)
	assert.True(t, cfg.Workflow.SimulatePlaceholderPickup)
	assert.Equal(t, "parcel.events", cfg.Events.Topic)
	assert.Empty(t, cfg.Events.KafkaBrokers)
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("QUOTE_FALLBACK_ENABLED", "false")
	t.Setenv("PROXY_ENABLED", "true")
	t.Setenv("PROXY_HOSTNAME", "proxy.test")
	t.Setenv("PROXY_PORT", "3128")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "https://logistics.test/NewLogistic/v2", cfg.Logistics.URL)
	assert.Equal(t, "test-secret", cfg.Session.Secret)
	assert.False(t, cfg.Workflow.QuoteFallback)
	assert.True(t, cfg.Proxy.Enabled)
	assert.Equal(t, "proxy.test", cfg.Proxy.Hostname)
	assert.Equal(t, 3128, cfg.Proxy.Port)
	assert.Equal(t, "kafka-1:9092,kafka-2:9092", cfg.Events.KafkaBrokers)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
LOGISTICS_API_URL=https://staging.logistics.test
SESSION_SECRET=staging-secret
SESSION_TTL_SECONDS=600
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "https://staging.logistics.test", cfg.Logistics.URL)
	assert.Equal(t, 10*time.Minute, cfg.Session.TTL())
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	t.Setenv("LOGISTICS_API_URL", "")
	t.Setenv("SESSION_SECRET", "")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration")
}

// TestLoad_MissingSecret verifies that the session secret is mandatory.
func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("LOGISTICS_API_URL", "https://logistics.test")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load(".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}
