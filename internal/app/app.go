// Package app assembles the stores, cache, parser and engine from a Config.
// Both cmd/api and cmd/academyctl start from here.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/courtside/academy-recommender/internal/cache"
	"github.com/courtside/academy-recommender/internal/config"
	"github.com/courtside/academy-recommender/internal/db"
	"github.com/courtside/academy-recommender/internal/model"
	"github.com/courtside/academy-recommender/internal/query"
	"github.com/courtside/academy-recommender/internal/recommend"
	"github.com/courtside/academy-recommender/internal/scoring"
	"github.com/courtside/academy-recommender/internal/store"
)

// Store is what the engine and the gazetteer need from a backend.
type Store interface {
	recommend.PlayerStore
	recommend.TournamentStore
	recommend.AvailabilityStore
	GetTournament(ctx context.Context, id string) (model.TournamentCandidate, error)
	Locations(ctx context.Context) ([]string, error)
}

// App is a fully wired recommender.
type App struct {
	Config *config.Config
	Store  Store
	Pool   *db.Pool      // nil in guest mode
	Memory *store.Memory // non-nil in guest mode
	Cache  cache.Cache
	Parser *query.Parser
	Engine *recommend.Engine

	closers []func()
}

// Build connects the configured backends. The caller must Close the result.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg}

	if cfg.UsesPostgres() {
		logger.Info("Connecting to database...")
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		a.Pool = pool
		a.Store = store.NewPostgres(pool.Pool)
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)
	} else {
		mem := store.NewMemory()
		store.SeedDemo(mem, cfg.Today())
		a.Memory = mem
		a.Store = mem
		logger.Info("Guest mode: using in-memory demo data")
	}

	switch {
	case cfg.CacheEnabled && cfg.CacheBackend == config.CacheRedis:
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = rc.Close() })
		a.Cache = rc
	default:
		a.Cache = cache.NewMemory(cfg.CacheEnabled)
	}
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled, "backend", cfg.CacheBackend)

	locations := append([]string(nil), cfg.Locations...)
	stored, err := a.Store.Locations(ctx)
	if err != nil {
		logger.Warn("Failed to load store locations, using configured list only", "error", err)
	}
	locations = append(locations, stored...)
	a.Parser = query.NewParser(locations)

	scorer, err := scoring.New(cfg.Scoring)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("scoring policy: %w", err)
	}
	a.Engine = recommend.NewEngine(a.Store, a.Store, a.Store,
		recommend.WithScorer(scorer),
		recommend.WithDefaultMax(cfg.RecommendMax),
		recommend.WithWorkers(cfg.RecommendWorkers),
		recommend.WithLogger(logger),
	)
	return a, nil
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
