// Package recommend ranks tournaments for a player. It loads the player
// profile, candidate tournaments and availability from injected stores,
// scores every candidate and returns the best matches.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"golang.org/x/sync/errgroup"

	"github.com/courtside/academy-recommender/internal/model"
	"github.com/courtside/academy-recommender/internal/scoring"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	DefaultMaxResults = 10
	defaultWorkers    = 4
)

// --------------------------------------------------------------------------
// Collaborators
// --------------------------------------------------------------------------

// PlayerStore resolves player profiles. Unknown ids return an error
// wrapping model.ErrNotFound.
type PlayerStore interface {
	GetPlayerProfile(ctx context.Context, playerID string) (model.PlayerProfile, error)
}

// TournamentStore lists candidate tournaments. Implementations may apply
// any subset of the filter; the engine re-applies it afterwards.
type TournamentStore interface {
	QueryTournaments(ctx context.Context, filter model.QueryFilter) ([]model.TournamentCandidate, error)
}

// AvailabilityStore returns a player's busy calendar. An empty calendar is
// a valid result.
type AvailabilityStore interface {
	GetAvailability(ctx context.Context, playerID string) (model.PlayerAvailability, error)
}

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Request describes one recommendation call. MaxResults 0 selects the
// engine default; negative values are rejected.
type Request struct {
	PlayerID   string
	Filter     model.QueryFilter
	MaxResults int
	AsOf       civil.Date
}

// Recommendation pairs a tournament with its score.
type Recommendation struct {
	Tournament model.TournamentCandidate `json:"tournament"`
	Breakdown  scoring.Breakdown         `json:"breakdown"`
}

// Skipped records a candidate excluded because it failed validation.
type Skipped struct {
	TournamentID string `json:"tournament_id"`
	Name         string `json:"name,omitempty"`
	Reason       string `json:"reason"`
}

// Result is the ranked output plus bookkeeping about excluded candidates.
type Result struct {
	PlayerID        string            `json:"player_id"`
	AsOf            civil.Date        `json:"as_of"`
	Filter          model.QueryFilter `json:"filter"`
	Recommendations []Recommendation  `json:"recommendations"`
	Skipped         []Skipped         `json:"skipped,omitempty"`
	Candidates      int               `json:"candidates"`
	Ineligible      int               `json:"ineligible"`
}

// Summary returns a human-readable summary.
func (r *Result) Summary() string {
	return fmt.Sprintf("player=%s candidates=%d returned=%d ineligible=%d skipped=%d",
		r.PlayerID, r.Candidates, len(r.Recommendations), r.Ineligible, len(r.Skipped))
}

// --------------------------------------------------------------------------
// Engine
// --------------------------------------------------------------------------

// Engine orchestrates store reads and scoring.
type Engine struct {
	players      PlayerStore
	tournaments  TournamentStore
	availability AvailabilityStore
	scorer       *scoring.Scorer
	defaultMax   int
	workers      int
	logger       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithScorer overrides the default scoring policy.
func WithScorer(s *scoring.Scorer) Option {
	return func(e *Engine) { e.scorer = s }
}

// WithDefaultMax sets the result size used when a request leaves it at 0.
func WithDefaultMax(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.defaultMax = n
		}
	}
}

// WithWorkers sets how many goroutines score candidates.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine wires the three stores together.
func NewEngine(players PlayerStore, tournaments TournamentStore, availability AvailabilityStore, opts ...Option) *Engine {
	scorer, _ := scoring.New(scoring.DefaultPolicy())
	e := &Engine{
		players:      players,
		tournaments:  tournaments,
		availability: availability,
		scorer:       scorer,
		defaultMax:   DefaultMaxResults,
		workers:      defaultWorkers,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scorer returns the scorer the engine uses.
func (e *Engine) Scorer() *scoring.Scorer { return e.scorer }

// Recommend ranks tournaments for req.PlayerID. Results are sorted by total
// score descending, then start date, name and id ascending. Tournaments
// scoring zero are dropped.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	limit := req.MaxResults
	switch {
	case limit < 0:
		return nil, &model.ValidationError{
			Field:   "max_results",
			Value:   fmt.Sprint(limit),
			Message: "must be a positive integer",
		}
	case limit == 0:
		limit = e.defaultMax
	}

	player, candidates, avail, err := e.load(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := avail.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		PlayerID: req.PlayerID,
		AsOf:     req.AsOf,
		Filter:   req.Filter,
	}

	filtered := candidates[:0:0]
	for _, t := range candidates {
		if req.Filter.Matches(t) {
			filtered = append(filtered, t)
		}
	}
	result.Candidates = len(filtered)

	scored := e.scoreAll(ctx, player, filtered, avail, req.AsOf)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(scored))
	for _, s := range scored {
		switch {
		case s.err != nil:
			result.Skipped = append(result.Skipped, Skipped{
				TournamentID: s.tournament.ID,
				Name:         s.tournament.Name,
				Reason:       s.err.Error(),
			})
			e.logger.Debug("Skipped candidate",
				"player_id", req.PlayerID, "tournament_id", s.tournament.ID, "error", s.err)
		case s.breakdown.Total <= 0:
			result.Ineligible++
		default:
			recs = append(recs, Recommendation{Tournament: s.tournament, Breakdown: s.breakdown})
		}
	}

	SortRecommendations(recs)
	if len(recs) > limit {
		recs = recs[:limit]
	}
	result.Recommendations = recs

	e.logger.Info("Recommendations ranked",
		"summary", result.Summary(),
		"duration", time.Since(start).Round(time.Millisecond))
	return result, nil
}

// load performs the three independent store reads concurrently.
func (e *Engine) load(ctx context.Context, req Request) (model.PlayerProfile, []model.TournamentCandidate, model.PlayerAvailability, error) {
	var (
		player     model.PlayerProfile
		candidates []model.TournamentCandidate
		avail      model.PlayerAvailability
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := e.players.GetPlayerProfile(gctx, req.PlayerID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return &model.NotFoundError{Kind: "player", ID: req.PlayerID}
			}
			return &model.UpstreamError{Op: "get player profile", Err: err}
		}
		player = p
		return nil
	})
	g.Go(func() error {
		ts, err := e.tournaments.QueryTournaments(gctx, req.Filter)
		if err != nil {
			return &model.UpstreamError{Op: "query tournaments", Err: err}
		}
		candidates = ts
		return nil
	})
	g.Go(func() error {
		a, err := e.availability.GetAvailability(gctx, req.PlayerID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil
			}
			return &model.UpstreamError{Op: "get availability", Err: err}
		}
		avail = a
		return nil
	})
	if err := g.Wait(); err != nil {
		return player, nil, avail, err
	}
	return player, candidates, avail, nil
}

type scoredCandidate struct {
	tournament model.TournamentCandidate
	breakdown  scoring.Breakdown
	err        error
}

// scoreAll fans candidates out to a fixed worker pool. Output order matches
// input order.
func (e *Engine) scoreAll(
	ctx context.Context,
	player model.PlayerProfile,
	candidates []model.TournamentCandidate,
	avail model.PlayerAvailability,
	asOf civil.Date,
) []scoredCandidate {
	out := make([]scoredCandidate, len(candidates))
	if len(candidates) == 0 {
		return out
	}

	workers := e.workers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	ch := make(chan int, len(candidates))
	for i := range candidates {
		ch <- i
	}
	close(ch)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range ch {
				if ctx.Err() != nil {
					return
				}
				t := candidates[i]
				b, err := e.scorer.Score(player, t, avail, asOf)
				out[i] = scoredCandidate{tournament: t, breakdown: b, err: err}
			}
		}()
	}
	wg.Wait()
	return out
}

// SortRecommendations orders by total desc, start date asc, name asc, id asc.
func SortRecommendations(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return Less(recs[i], recs[j])
	})
}

// Less reports whether a ranks before b.
func Less(a, b Recommendation) bool {
	if a.Breakdown.Total != b.Breakdown.Total {
		return a.Breakdown.Total > b.Breakdown.Total
	}
	if a.Tournament.StartDate != b.Tournament.StartDate {
		return a.Tournament.StartDate.Before(b.Tournament.StartDate)
	}
	if a.Tournament.Name != b.Tournament.Name {
		return a.Tournament.Name < b.Tournament.Name
	}
	return a.Tournament.ID < b.Tournament.ID
}
