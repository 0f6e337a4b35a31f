package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 25, cfg.MySQL.MaxOpenConns)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 100*time.Millisecond, cfg.Realtime.DisconnectSettleDelay)
	assert.Equal(t, 256, cfg.Realtime.SendBufferSize)
	assert.Equal(t, time.Minute, cfg.Realtime.KPIRefreshInterval)
}

func TestLoadRequiresSecret(t *testing.T) {
	viper.Reset()
	t.Setenv("JWT_SECRET", "placeholder")
	os.Unsetenv("JWT_SECRET")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ADDRESS", "redis.internal:6380")
	t.Setenv("REALTIME_DISCONNECT_SETTLE_DELAY", "250ms")
	t.Setenv("REALTIME_SEND_BUFFER_SIZE", "64")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis.internal:6380", cfg.Redis.Address)
	assert.Equal(t, 250*time.Millisecond, cfg.Realtime.DisconnectSettleDelay)
	assert.Equal(t, 64, cfg.Realtime.SendBufferSize)
}

func TestLoadFromFile(t *testing.T) {
	viper.Reset()

	content := `
server:
  port: 7001
  host: 127.0.0.1
jwt:
  secret: file-secret
  ttl: 1h
realtime:
  disconnect_settle_delay: 50ms
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 7001, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 50*time.Millisecond, cfg.Realtime.DisconnectSettleDelay)
}
