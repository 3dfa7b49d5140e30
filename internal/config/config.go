// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/academyctl.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // ACADEMY_TIMEZONE on hosts without zoneinfo

	"cloud.google.com/go/civil"

	"github.com/courtside/academy-recommender/internal/scoring"
)

// --------------------------------------------------------------------------
// Store backends
// --------------------------------------------------------------------------

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// DefaultLocations seeds the query gazetteer before store locations are
// merged in.
var DefaultLocations = []string{
	"Madrid", "Barcelona", "Valencia", "Sevilla", "Malaga", "Bilbao",
	"Zaragoza", "Alicante", "Mallorca", "San Sebastian",
	"Paris", "Roma", "Milan", "Lisbon", "London",
}

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Store
	StoreBackend   string
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool
	LogLevel    slog.Level

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool
	CacheBackend string
	CacheTTL     time.Duration
	RedisURL     string

	// Recommendation
	Timezone         *time.Location
	Locations        []string
	RecommendMax     int
	RecommendWorkers int
	Scoring          scoring.Policy
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	backend := strings.ToLower(envOr("STORE_BACKEND", StoreMemory))
	dbURL := envOr("DATABASE_URL", "")
	switch backend {
	case StoreMemory:
	case StorePostgres:
		if dbURL == "" {
			return nil, fmt.Errorf("DATABASE_URL must be set when STORE_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}

	cacheBackend := strings.ToLower(envOr("CACHE_BACKEND", CacheMemory))
	redisURL := envOr("REDIS_URL", "")
	if cacheBackend == CacheRedis && redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL must be set when CACHE_BACKEND=redis")
	}
	if cacheBackend != CacheMemory && cacheBackend != CacheRedis {
		return nil, fmt.Errorf("unknown CACHE_BACKEND %q", cacheBackend)
	}

	tzName := envOr("ACADEMY_TIMEZONE", "Europe/Madrid")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tzName, err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(envOr("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	policy := scoring.DefaultPolicy()
	policy.Weights = scoring.Weights{
		Category:     envFloat("SCORE_WEIGHT_CATEGORY", policy.Weights.Category),
		Surface:      envFloat("SCORE_WEIGHT_SURFACE", policy.Weights.Surface),
		Type:         envFloat("SCORE_WEIGHT_TYPE", policy.Weights.Type),
		Proximity:    envFloat("SCORE_WEIGHT_PROXIMITY", policy.Weights.Proximity),
		Availability: envFloat("SCORE_WEIGHT_AVAILABILITY", policy.Weights.Availability),
	}
	policy.PlayingUpCredit = envFloat("SCORE_PLAYING_UP_CREDIT", policy.PlayingUpCredit)
	policy.SurfaceMismatchCredit = envFloat("SCORE_SURFACE_MISMATCH_CREDIT", policy.SurfaceMismatchCredit)
	policy.NationalRating = envFloat("SCORE_NATIONAL_RATING", policy.NationalRating)
	policy.InternationalRating = envFloat("SCORE_INTERNATIONAL_RATING", policy.InternationalRating)
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("scoring policy: %w", err)
	}

	return &Config{
		StoreBackend:   backend,
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),
		LogLevel:    level,

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),
		CacheBackend: cacheBackend,
		CacheTTL:     time.Duration(envInt("CACHE_TTL_MINUTES", 15)) * time.Minute,
		RedisURL:     redisURL,

		Timezone:         tz,
		Locations:        envList("LOCATIONS", DefaultLocations),
		RecommendMax:     envInt("RECOMMEND_DEFAULT_MAX", 10),
		RecommendWorkers: envInt("RECOMMEND_WORKERS", 4),
		Scoring:          policy,
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesPostgres reports whether the Postgres store backend is selected.
func (c *Config) UsesPostgres() bool {
	return c.StoreBackend == StorePostgres
}

// Today returns the current calendar date in the academy timezone. Only
// entry points call this; the core always receives an explicit date.
func (c *Config) Today() civil.Date {
	return civil.DateOf(time.Now().In(c.Timezone))
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
