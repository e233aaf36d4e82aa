package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"SHOP_ADDR", "SHOP_DATA_DIR", "SHOP_REDIS_URL", "SHOP_CATALOG", "JWT_SIGNING_KEY", "SHOP_LOG_LEVEL", "SHOP_STARTING_GOLD"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SHOP_ADDR", ":9000")
	t.Setenv("SHOP_DATA_DIR", "/tmp/shop")
	t.Setenv("SHOP_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SHOP_STARTING_GOLD", "250")
	t.Setenv("SHOP_LOG_LEVEL", "DEBUG")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "/tmp/shop", cfg.DataDir)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, int64(250), cfg.StartingGold)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFromEnvBadGold(t *testing.T) {
	t.Setenv("SHOP_STARTING_GOLD", "-3")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("SHOP_STARTING_GOLD", "lots")
	_, err = FromEnv()
	assert.Error(t, err)
}
