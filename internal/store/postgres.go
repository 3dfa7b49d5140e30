package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtside/academy-recommender/internal/model"
)

// Postgres reads players, tournaments and availability through the
// prepared statements registered by package db.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps a connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// GetPlayerProfile implements recommend.PlayerStore. Ids that are not
// UUIDs cannot exist and report not found without a round trip.
func (s *Postgres) GetPlayerProfile(ctx context.Context, playerID string) (model.PlayerProfile, error) {
	id, err := uuid.Parse(playerID)
	if err != nil {
		return model.PlayerProfile{}, fmt.Errorf("player %s: %w", playerID, model.ErrNotFound)
	}

	var (
		p            model.PlayerProfile
		name, home   *string
		category     *string
		travel       *string
		rating       *float64
		lat, lon     *float64
		surfaceNames []string
	)
	err = s.pool.QueryRow(ctx, "player_profile", id).Scan(
		&p.ID, &name, &category, &rating, &surfaceNames, &home, &lat, &lon, &travel,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.PlayerProfile{}, fmt.Errorf("player %s: %w", playerID, model.ErrNotFound)
	}
	if err != nil {
		return model.PlayerProfile{}, fmt.Errorf("get player %s: %w", playerID, err)
	}

	p.Name = deref(name)
	if c, ok := model.ParseCategory(deref(category)); ok {
		p.Category = c
	}
	if rating != nil {
		p.Rating = *rating
	}
	for _, n := range surfaceNames {
		if sf, ok := model.ParseSurface(n); ok {
			p.PreferredSurfaces = append(p.PreferredSurfaces, sf)
		}
	}
	p.HomeLocation = deref(home)
	p.Home = geoPoint(lat, lon)
	if w, ok := model.ParseTravelWillingness(deref(travel)); ok {
		p.TravelWillingness = w
	}
	return p, nil
}

// QueryTournaments implements recommend.TournamentStore. Every filter field
// is pushed down into SQL.
func (s *Postgres) QueryTournaments(ctx context.Context, filter model.QueryFilter) ([]model.TournamentCandidate, error) {
	rows, err := s.pool.Query(ctx, "query_tournaments",
		dateParam(filter.DateFrom), dateParam(filter.DateTo),
		textParam(string(filter.Category)), textParam(filter.Location), textParam(string(filter.Type)),
	)
	if err != nil {
		return nil, fmt.Errorf("query tournaments: %w", err)
	}
	defer rows.Close()

	var result []model.TournamentCandidate
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// GetTournament returns one tournament by id.
func (s *Postgres) GetTournament(ctx context.Context, id string) (model.TournamentCandidate, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.TournamentCandidate{}, fmt.Errorf("tournament %s: %w", id, model.ErrNotFound)
	}
	t, err := scanTournament(s.pool.QueryRow(ctx, "tournament_by_id", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.TournamentCandidate{}, fmt.Errorf("tournament %s: %w", id, model.ErrNotFound)
	}
	return t, err
}

// GetAvailability implements recommend.AvailabilityStore.
func (s *Postgres) GetAvailability(ctx context.Context, playerID string) (model.PlayerAvailability, error) {
	avail := model.PlayerAvailability{PlayerID: playerID}
	id, err := uuid.Parse(playerID)
	if err != nil {
		return avail, nil
	}

	rows, err := s.pool.Query(ctx, "player_availability", id)
	if err != nil {
		return avail, fmt.Errorf("get availability %s: %w", playerID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var start, end time.Time
		if err := rows.Scan(&start, &end); err != nil {
			return avail, fmt.Errorf("scan availability: %w", err)
		}
		avail.Busy = append(avail.Busy, model.Interval{Start: civil.DateOf(start), End: civil.DateOf(end)})
	}
	return avail, rows.Err()
}

// Locations returns distinct tournament locations for the query gazetteer.
func (s *Postgres) Locations(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, "tournament_locations")
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		result = append(result, loc)
	}
	return result, rows.Err()
}

// PurgeAvailabilityBefore deletes busy blocks that ended before cutoff.
func (s *Postgres) PurgeAvailabilityBefore(ctx context.Context, cutoff civil.Date) (int64, error) {
	tag, err := s.pool.Exec(ctx, "purge_availability", cutoff.In(time.UTC))
	if err != nil {
		return 0, fmt.Errorf("purge availability: %w", err)
	}
	return tag.RowsAffected(), nil
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func scanTournament(row pgx.Row) (model.TournamentCandidate, error) {
	var (
		t                 model.TournamentCandidate
		name              *string
		start, end        *time.Time
		category, typ     *string
		location, surface *string
		lat, lon          *float64
	)
	if err := row.Scan(&t.ID, &name, &start, &end, &category, &typ, &location, &lat, &lon, &surface); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return t, err
		}
		return t, fmt.Errorf("scan tournament: %w", err)
	}
	// NULL columns decode to zero values; a zero date fails Validate and the
	// engine skips the candidate.
	t.Name = deref(name)
	if start != nil {
		t.StartDate = civil.DateOf(*start)
	}
	if end != nil {
		t.EndDate = civil.DateOf(*end)
	}
	if c, ok := model.ParseCategory(deref(category)); ok {
		t.Category = c
	}
	if tt, ok := model.ParseTournamentType(deref(typ)); ok {
		t.Type = tt
	}
	if sf, ok := model.ParseSurface(deref(surface)); ok {
		t.Surface = sf
	}
	t.Location = deref(location)
	t.Coordinates = geoPoint(lat, lon)
	return t, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func geoPoint(lat, lon *float64) *model.GeoPoint {
	if lat == nil || lon == nil {
		return nil
	}
	return &model.GeoPoint{Lat: *lat, Lon: *lon}
}

func dateParam(d *civil.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.In(time.UTC)
}

func textParam(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
