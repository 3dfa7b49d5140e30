// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtside/academy-recommender/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// Statements maps prepared statement names to SQL. Column order is what
// package store scans.
var Statements = map[string]string{
	// Health
	"health_check": "SELECT 1",

	// Players
	"player_profile": `SELECT id::text, name, category, rating, COALESCE(preferred_surfaces, '{}'),
		home_location, home_lat, home_lon, travel_willingness
		FROM players WHERE id = $1`,

	// Tournaments: NULL parameters disable the corresponding filter
	"query_tournaments": `SELECT id::text, name, start_date, end_date, category, type, location, lat, lon, surface
		FROM tournaments
		WHERE ($1::date IS NULL OR end_date >= $1)
		  AND ($2::date IS NULL OR start_date <= $2)
		  AND ($3::text IS NULL OR category = $3)
		  AND ($4::text IS NULL OR position(lower($4) in lower(location)) > 0)
		  AND ($5::text IS NULL OR type = $5)
		ORDER BY start_date, name, id`,
	"tournament_by_id": `SELECT id::text, name, start_date, end_date, category, type, location, lat, lon, surface
		FROM tournaments WHERE id = $1::uuid`,
	"tournament_locations": `SELECT DISTINCT split_part(location, ',', 1)
		FROM tournaments WHERE location IS NOT NULL AND location <> '' ORDER BY 1`,

	// Availability
	"player_availability": "SELECT start_date, end_date FROM player_availability WHERE player_id = $1 ORDER BY start_date",
	"purge_availability":  "DELETE FROM player_availability WHERE end_date < $1::date",
}

// registerPreparedStatements registers all statements the API and CLI use.
// Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	for name, sql := range Statements {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
