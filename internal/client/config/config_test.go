package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8000", c.BaseURL)
	assert.Equal(t, "storefront.db", c.DatabasePath)
	assert.Empty(t, c.RedisAddr)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8000", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "http://api.example:9000")
	t.Setenv("STOREFRONT_DB", "/tmp/profile.db")
	t.Setenv("STOREFRONT_REDIS_ADDR", "redis.example:6379")
	t.Setenv("STOREFRONT_TIMEOUT", "25s")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "http://api.example:9000", cfg.BaseURL)
	assert.Equal(t, "/tmp/profile.db", cfg.DatabasePath)
	assert.Equal(t, "redis.example:6379", cfg.RedisAddr)
	assert.Equal(t, 25*time.Second, cfg.RequestTimeout)
}

func TestParseEnv_MalformedTimeoutIgnored(t *testing.T) {
	t.Setenv("STOREFRONT_TIMEOUT", "soon")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}
