// Package maintenance runs periodic background tasks as Go tickers: expiring
// cached rankings and purging busy blocks that are long past.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	EvictInterval    time.Duration // Expired in-memory cache entries
	PurgeInterval    time.Duration // Old availability rows
	AvailabilityKeep int           // Days of past availability to retain
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		EvictInterval:    5 * time.Minute,
		PurgeInterval:    6 * time.Hour,
		AvailabilityKeep: 30,
	}
}

// Evicter is satisfied by *cache.Memory.
type Evicter interface {
	Evict() int
}

// AvailabilityPurger is satisfied by *store.Postgres.
type AvailabilityPurger interface {
	PurgeAvailabilityBefore(ctx context.Context, cutoff civil.Date) (int64, error)
}

// Tasks are the collaborators maintenance acts on. Nil members disable the
// matching task.
type Tasks struct {
	Cache Evicter
	Store AvailabilityPurger
	Today func() civil.Date
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, tasks Tasks, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"evict", cfg.EvictInterval,
		"purge", cfg.PurgeInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.EvictInterval > 0 && tasks.Cache != nil {
		t := time.NewTicker(cfg.EvictInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { EvictCache(tasks.Cache, logger) })
	}

	if cfg.PurgeInterval > 0 && tasks.Store != nil && tasks.Today != nil {
		t := time.NewTicker(cfg.PurgeInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() {
			PurgeAvailability(ctx, tasks.Store, tasks.Today(), cfg.AvailabilityKeep, logger)
		})
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// EvictCache drops expired cache entries.
func EvictCache(c Evicter, logger *slog.Logger) int {
	n := c.Evict()
	if n > 0 {
		logger.Info("Evict: dropped expired cache entries", "count", n)
	}
	return n
}

// PurgeAvailability deletes busy blocks that ended more than keepDays
// before today.
func PurgeAvailability(ctx context.Context, s AvailabilityPurger, today civil.Date, keepDays int, logger *slog.Logger) int64 {
	cutoff := today.AddDays(-keepDays)
	n, err := s.PurgeAvailabilityBefore(ctx, cutoff)
	if err != nil {
		logger.Warn("Purge: failed to delete old availability", "cutoff", cutoff, "error", err)
		return 0
	}
	if n > 0 {
		logger.Info("Purge: deleted old availability", "cutoff", cutoff, "count", n)
	}
	return n
}
