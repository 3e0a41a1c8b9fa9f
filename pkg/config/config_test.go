package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)

	assert.Equal(t, "https://buscacursos.uc.cl", cfg.Upstream.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 2.0, cfg.Upstream.RateLimit)

	assert.Equal(t, 300*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "memory", cfg.Cache.Backend)

	assert.Equal(t, 20, cfg.Batch.MaxSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("CACHE_BACKEND", "REDIS")
	t.Setenv("UPSTREAM_TIMEOUT", "10s")
	t.Setenv("MAX_BATCH_SIZE", "10")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "redis", cfg.Cache.Backend, "backend is lowercased")
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 10, cfg.Batch.MaxSize)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoadInvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
}

func TestLoadNonPositiveTTLFallsBack(t *testing.T) {
	t.Setenv("CACHE_TTL_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 300*time.Second, cfg.Cache.TTL)
}
