// Package handler provides HTTP handlers for all API endpoints.
// Handlers translate query parameters into engine requests and encode the
// results; ranking and scoring live in package recommend.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"cloud.google.com/go/civil"

	"github.com/courtside/academy-recommender/internal/api/respond"
	"github.com/courtside/academy-recommender/internal/cache"
	"github.com/courtside/academy-recommender/internal/config"
	"github.com/courtside/academy-recommender/internal/query"
	"github.com/courtside/academy-recommender/internal/recommend"
)

// HealthChecker is satisfied by *db.Pool.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps are the collaborators the handlers need. DB is nil in guest mode.
type Deps struct {
	Engine *recommend.Engine
	Parser *query.Parser
	Cache  cache.Cache
	DB     HealthChecker
	Logger *slog.Logger
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	engine *recommend.Engine
	parser *query.Parser
	cache  cache.Cache
	db     HealthChecker
	cfg    *config.Config
	logger *slog.Logger
	today  func() civil.Date
}

// New creates a Handler with shared dependencies.
func New(deps Deps, cfg *config.Config) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := deps.Cache
	if c == nil {
		c = cache.NewMemory(false)
	}
	return &Handler{
		engine: deps.Engine,
		parser: deps.Parser,
		cache:  c,
		db:     deps.DB,
		cfg:    cfg,
		logger: logger,
		today:  cfg.Today,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status and store backend.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Academy Tournament Recommender",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"store":   h.cfg.StoreBackend,
		"guest":   !h.cfg.UsesPostgres(),
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity. Guest mode reports the in-memory store.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "memory",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns recommendation cache statistics.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(r.Context()),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
