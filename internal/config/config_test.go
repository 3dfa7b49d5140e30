package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/academy-recommender/internal/scoring"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.False(t, cfg.UsesPostgres())
	assert.Equal(t, CacheMemory, cfg.CacheBackend)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "Europe/Madrid", cfg.Timezone.String())
	assert.Equal(t, DefaultLocations, cfg.Locations)
	assert.Equal(t, 10, cfg.RecommendMax)
	assert.Equal(t, scoring.DefaultPolicy().Weights, cfg.Scoring.Weights)
	assert.True(t, cfg.Today().IsValid())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/academy")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ACADEMY_TIMEZONE", "UTC")
	t.Setenv("LOCATIONS", "Madrid, Lisbon")
	t.Setenv("RECOMMEND_DEFAULT_MAX", "5")
	t.Setenv("SCORE_WEIGHT_CATEGORY", "40")
	t.Setenv("SCORE_WEIGHT_AVAILABILITY", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.UsesPostgres())
	assert.Equal(t, "postgres://localhost/academy", cfg.DatabaseURL)
	assert.Equal(t, CacheRedis, cfg.CacheBackend)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.Equal(t, []string{"Madrid", "Lisbon"}, cfg.Locations)
	assert.Equal(t, 5, cfg.RecommendMax)
	assert.Equal(t, 40.0, cfg.Scoring.Weights.Category)
	assert.Equal(t, 10.0, cfg.Scoring.Weights.Availability)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without url", map[string]string{"STORE_BACKEND": "postgres"}},
		{"unknown store", map[string]string{"STORE_BACKEND": "sqlite"}},
		{"redis without url", map[string]string{"CACHE_BACKEND": "redis"}},
		{"unknown cache", map[string]string{"CACHE_BACKEND": "memcached"}},
		{"bad timezone", map[string]string{"ACADEMY_TIMEZONE": "Mars/Olympus"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
		{"weights not summing to 100", map[string]string{"SCORE_WEIGHT_SURFACE": "50"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
