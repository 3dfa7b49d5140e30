// Package listener provides a Postgres LISTEN/NOTIFY consumer that keeps the
// recommendation cache consistent with the stores. It holds a dedicated pgx
// connection (not from the pool) listening on the `academy_changes` channel.
//
// Triggers on players, player_availability and tournaments publish a JSON
// payload naming the table and, where relevant, the player. Player-scoped
// changes drop that player's cached rankings; tournament changes drop all.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/courtside/academy-recommender/internal/cache"
)

const (
	Channel          = "academy_changes"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// ChangeEvent is the JSON payload from pg_notify('academy_changes', ...).
type ChangeEvent struct {
	Table    string `json:"table"`
	PlayerID string `json:"player_id,omitempty"`
}

// Start opens a dedicated connection and listens on the change channel. It
// reconnects automatically on connection loss. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, c cache.Cache, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, c, logger)
		if ctx.Err() != nil {
			logger.Info("Change listener stopped (context cancelled)")
			return
		}

		logger.Error("Change listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, c cache.Cache, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+Channel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", Channel, err)
	}
	logger.Info("Change listener connected", "channel", Channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		event, err := ParseEvent(notification.Payload)
		if err != nil {
			logger.Warn("Failed to parse change event",
				"payload", notification.Payload, "error", err)
			continue
		}

		dropped := Apply(ctx, c, event)
		logger.Info("Change event applied",
			"table", event.Table,
			"player_id", event.PlayerID,
			"cache_entries_dropped", dropped)
	}
}

// ParseEvent decodes a notification payload.
func ParseEvent(payload string) (ChangeEvent, error) {
	var event ChangeEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return event, err
	}
	if event.Table == "" {
		return event, fmt.Errorf("change event without table")
	}
	return event, nil
}

// Apply invalidates the cache entries an event affects and returns how many
// were dropped.
func Apply(ctx context.Context, c cache.Cache, event ChangeEvent) int {
	if event.PlayerID != "" && event.Table != "tournaments" {
		return c.DeletePrefix(ctx, cache.PlayerPrefix(event.PlayerID))
	}
	return c.DeletePrefix(ctx, cache.RecommendationPrefix)
}
