// Package store provides the player, tournament and availability stores the
// recommendation engine reads from: an in-memory store used for guest mode
// and tests, and a Postgres store.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/courtside/academy-recommender/internal/model"
)

// Memory is a thread-safe in-memory store. Records are copied on the way in
// and out so callers cannot mutate stored state.
type Memory struct {
	mu           sync.RWMutex
	players      map[string]model.PlayerProfile
	tournaments  map[string]model.TournamentCandidate
	availability map[string][]model.Interval
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{
		players:      make(map[string]model.PlayerProfile),
		tournaments:  make(map[string]model.TournamentCandidate),
		availability: make(map[string][]model.Interval),
	}
}

// PutPlayer inserts or replaces a player.
func (m *Memory) PutPlayer(p model.PlayerProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.PreferredSurfaces = append([]model.Surface(nil), p.PreferredSurfaces...)
	m.players[p.ID] = p
}

// PutTournament inserts or replaces a tournament.
func (m *Memory) PutTournament(t model.TournamentCandidate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tournaments[t.ID] = t
}

// AddBusy appends busy intervals to a player's calendar.
func (m *Memory) AddBusy(playerID string, busy ...model.Interval) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.availability[playerID] = append(m.availability[playerID], busy...)
}

// GetPlayerProfile implements recommend.PlayerStore.
func (m *Memory) GetPlayerProfile(_ context.Context, playerID string) (model.PlayerProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[playerID]
	if !ok {
		return model.PlayerProfile{}, fmt.Errorf("player %s: %w", playerID, model.ErrNotFound)
	}
	p.PreferredSurfaces = append([]model.Surface(nil), p.PreferredSurfaces...)
	return p, nil
}

// GetTournament returns a single tournament.
func (m *Memory) GetTournament(_ context.Context, id string) (model.TournamentCandidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tournaments[id]
	if !ok {
		return model.TournamentCandidate{}, fmt.Errorf("tournament %s: %w", id, model.ErrNotFound)
	}
	return t, nil
}

// QueryTournaments implements recommend.TournamentStore. Every filter field
// is applied. Results are ordered by start date, then name.
func (m *Memory) QueryTournaments(_ context.Context, filter model.QueryFilter) ([]model.TournamentCandidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]model.TournamentCandidate, 0, len(m.tournaments))
	for _, t := range m.tournaments {
		if filter.Matches(t) {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartDate != result[j].StartDate {
			return result[i].StartDate.Before(result[j].StartDate)
		}
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// GetAvailability implements recommend.AvailabilityStore. Unknown players
// have an empty calendar.
func (m *Memory) GetAvailability(_ context.Context, playerID string) (model.PlayerAvailability, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return model.PlayerAvailability{
		PlayerID: playerID,
		Busy:     append([]model.Interval(nil), m.availability[playerID]...),
	}, nil
}

// ListPlayers returns every player ordered by id.
func (m *Memory) ListPlayers(_ context.Context) ([]model.PlayerProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]model.PlayerProfile, 0, len(m.players))
	for _, p := range m.players {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Locations returns the distinct tournament locations (city part), sorted.
func (m *Memory) Locations(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	var result []string
	for _, t := range m.tournaments {
		city := strings.TrimSpace(strings.Split(t.Location, ",")[0])
		if city == "" || seen[strings.ToLower(city)] {
			continue
		}
		seen[strings.ToLower(city)] = true
		result = append(result, city)
	}
	sort.Strings(result)
	return result, nil
}
