package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "waterjug.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
environment: Development
server:
  port: 9090
cache:
  backend: redis
  sliding_ttl: 10m
redis:
  addr: redis:6379
  db: 2
`)

	cfg, err := load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "Development", cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout, "untouched keys keep defaults")
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.Sliding)
	assert.Equal(t, time.Hour, cfg.Cache.Absolute)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "waterjug:", cfg.Redis.Prefix)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "server:\n  port: 9090\n")

	cfg, err := load(path, []string{
		"WATERJUG_SERVER_PORT=7070",
		"WATERJUG_CACHE_ABSOLUTE_TTL=2h",
		"WATERJUG_METRICS_ENABLED=false",
		"WATERJUG_LOG_LEVEL=debug",
		"WATERJUG_ENVIRONMENT=Staging",
		"WATERJUG_CONFIG=/etc/waterjug.yaml",
		"HOME=/root",
	})
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Cache.Absolute)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "Staging", cfg.Environment)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "server:\n  prot: 9090\n")

	_, err := load(path, nil)
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := writeFile(t, "cache:\n  backend: memcached\nserver:\n  port: 0\n")

	_, err := load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.backend")
	assert.Contains(t, err.Error(), "server.port")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_Timeouts(t *testing.T) {
	cfg, err := load("", []string{
		"WATERJUG_SERVER_REQUEST_TIMEOUT=2s",
		"WATERJUG_SERVER_WRITE_TIMEOUT=3s",
		"WATERJUG_CACHE_PRUNE_INTERVAL=1m",
	})
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 3*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, time.Minute, cfg.Cache.PruneInterval)
}

func TestLoad_WriteTimeoutMustExceedRequestTimeout(t *testing.T) {
	path := writeFile(t, "server:\n  request_timeout: 10s\n  write_timeout: 10s\n")

	_, err := load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.write_timeout")

	path = writeFile(t, "server:\n  request_timeout: 0s\n  write_timeout: 1s\n")
	_, err = load(path, nil)
	assert.NoError(t, err, "a disabled request timeout imposes no ordering")
}
