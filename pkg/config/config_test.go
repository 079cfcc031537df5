package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("CACHE_DEFAULT_STALE_SECONDS", "")
	t.Setenv("CACHE_DASHBOARD_STALE_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, time.Minute, cfg.Cache.DefaultStale())
	assert.Equal(t, 5*time.Minute, cfg.Cache.DashboardStale())
	assert.Equal(t, 1, cfg.Cache.QueryRetries)
	assert.True(t, cfg.Features.RoutePreload)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoad_BackendAndCache(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://hms-backend:9000")
	t.Setenv("CACHE_DEFAULT_STALE_SECONDS", "30")
	t.Setenv("CACHE_DASHBOARD_STALE_SECONDS", "120")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://hms-backend:9000", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Cache.DefaultStale())
	assert.Equal(t, 2*time.Minute, cfg.Cache.DashboardStale())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6380", cfg.Redis.RedisAddr())
}

func TestLoad_RejectsNegativeStaleness(t *testing.T) {
	t.Setenv("CACHE_DEFAULT_STALE_SECONDS", "-5")

	_, err := Load()
	assert.Error(t, err)
}
