package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.UpstreamMinLatency)
	assert.Equal(t, 1500*time.Millisecond, cfg.UpstreamMaxLatency)
	assert.Equal(t, 0, cfg.FanOutLimit)
	assert.True(t, cfg.SeedData)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_LIMIT", "100")
	t.Setenv("RATE_WINDOW", "30s")
	t.Setenv("SEED_DATA", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.RateWindow)
	assert.False(t, cfg.SeedData)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("rate_limit: 42\nfanout_limit: 4\n"), 0o600))

	t.Setenv("CONFIG_FILE", file)
	t.Setenv("FANOUT_LIMIT", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.RateLimit)
	assert.Equal(t, 8, cfg.FanOutLimit)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "zero limit", env: map[string]string{"RATE_LIMIT": "0"}},
		{name: "negative fan-out", env: map[string]string{"FANOUT_LIMIT": "-1"}},
		{name: "latency range", env: map[string]string{"UPSTREAM_MIN_LATENCY": "2s", "UPSTREAM_MAX_LATENCY": "1s"}},
		{name: "missing file", env: map[string]string{"CONFIG_FILE": "/nonexistent/config.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
