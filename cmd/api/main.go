// Command api is the Academy Tournament Recommender API server.
//
// Usage:
//
//	academy-api
//	STORE_BACKEND=postgres DATABASE_URL=postgres://... academy-api

// @title Academy Tournament Recommender API
// @version 1.0.0
// @description Ranks upcoming tennis tournaments for academy players from a natural-language query, the player profile and the player's calendar.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Courtside
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/courtside/academy-recommender/internal/api"
	"github.com/courtside/academy-recommender/internal/api/handler"
	"github.com/courtside/academy-recommender/internal/app"
	"github.com/courtside/academy-recommender/internal/cache"
	"github.com/courtside/academy-recommender/internal/config"
	"github.com/courtside/academy-recommender/internal/listener"
	"github.com/courtside/academy-recommender/internal/maintenance"

	_ "github.com/courtside/academy-recommender/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	deps := handler.Deps{
		Engine: a.Engine,
		Parser: a.Parser,
		Cache:  a.Cache,
		Logger: logger,
	}

	tasks := maintenance.Tasks{Today: cfg.Today}
	if mem, ok := a.Cache.(*cache.Memory); ok {
		tasks.Cache = mem
	}

	if a.Pool != nil {
		deps.DB = a.Pool
		tasks.Store = a.Store.(maintenance.AvailabilityPurger)

		// LISTEN/NOTIFY consumer keeps cached rankings in step with the tables
		go listener.Start(ctx, cfg.DatabaseURL, a.Cache, logger)
	}

	// Start maintenance tickers (cache eviction, availability purge)
	go maintenance.Start(ctx, tasks, maintenance.DefaultConfig(), logger)

	// Create router
	router := api.NewRouter(deps, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Academy Tournament Recommender API",
			"addr", addr,
			"environment", cfg.Environment,
			"store", cfg.StoreBackend,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
