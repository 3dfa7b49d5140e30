// Package scoring computes how well a tournament suits a player.
//
// The score is the sum of five named components (category, surface, type,
// proximity, availability), each bounded by its weight in Policy. Every
// component is a plain function of its inputs, so a breakdown is
// reproducible for identical inputs and as-of date.
package scoring

import (
	"fmt"
	"math"

	"cloud.google.com/go/civil"

	"github.com/courtside/academy-recommender/internal/model"
)

// MaxScore is the best possible total.
const MaxScore = 100.0

// Component names, in breakdown order.
const (
	NameCategory     = "category"
	NameSurface      = "surface"
	NameType         = "type"
	NameProximity    = "proximity"
	NameAvailability = "availability"
)

// ReasonConcluded is reported for tournaments that ended before the as-of date.
const ReasonConcluded = "concluded"

// Component is one scored dimension. Reason is set whenever Value < Max.
type Component struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Max    float64 `json:"max"`
	Reason string  `json:"reason,omitempty"`
}

// Breakdown is the result of scoring one (player, tournament) pair.
type Breakdown struct {
	TournamentID string      `json:"tournament_id"`
	Total        float64     `json:"total"`
	Components   []Component `json:"components"`
	Reasons      []string    `json:"reasons,omitempty"`
	Concluded    bool        `json:"concluded,omitempty"`
}

// Component returns the named component.
func (b Breakdown) Component(name string) (Component, bool) {
	for _, c := range b.Components {
		if c.Name == name {
			return c, true
		}
	}
	return Component{}, false
}

// Input bundles the arguments every component function sees.
type Input struct {
	Player       model.PlayerProfile
	Tournament   model.TournamentCandidate
	Availability model.PlayerAvailability
	AsOf         civil.Date
}

type componentFunc func(p Policy, in *Input) Component

var components = []componentFunc{
	categoryFit,
	surfaceFit,
	typeFit,
	proximityFit,
	availabilityFit,
}

// Scorer applies a fixed Policy.
type Scorer struct {
	policy Policy
}

// New returns a Scorer. The policy is validated.
func New(p Policy) (*Scorer, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("scoring policy: %w", err)
	}
	return &Scorer{policy: p}, nil
}

// Policy returns the scorer's policy.
func (s *Scorer) Policy() Policy { return s.policy }

var defaultScorer = &Scorer{policy: DefaultPolicy()}

// Score scores with DefaultPolicy.
func Score(
	player model.PlayerProfile,
	tournament model.TournamentCandidate,
	availability model.PlayerAvailability,
	asOf civil.Date,
) (Breakdown, error) {
	return defaultScorer.Score(player, tournament, availability, asOf)
}

// Score computes the breakdown for one tournament. A tournament whose end
// date precedes its start date, or a malformed busy interval, fails with a
// *model.ValidationError. A zero asOf disables the concluded check.
func (s *Scorer) Score(
	player model.PlayerProfile,
	tournament model.TournamentCandidate,
	availability model.PlayerAvailability,
	asOf civil.Date,
) (Breakdown, error) {
	if err := tournament.Validate(); err != nil {
		return Breakdown{}, err
	}
	if err := availability.Validate(); err != nil {
		return Breakdown{}, err
	}

	in := &Input{
		Player:       player,
		Tournament:   tournament,
		Availability: availability,
		AsOf:         asOf,
	}
	b := Breakdown{
		TournamentID: tournament.ID,
		Components:   make([]Component, 0, len(components)),
	}

	if asOf.IsValid() && tournament.EndDate.Before(asOf) {
		b.Concluded = true
		reason := fmt.Sprintf("%s: ended %s before %s", ReasonConcluded, tournament.EndDate, asOf)
		for _, fn := range components {
			c := fn(s.policy, in)
			b.Components = append(b.Components, Component{Name: c.Name, Max: c.Max, Reason: ReasonConcluded})
		}
		b.Reasons = []string{reason}
		return b, nil
	}

	var total float64
	for _, fn := range components {
		c := fn(s.policy, in)
		c.Value = round2(clamp(c.Value, 0, c.Max))
		total += c.Value
		if c.Reason != "" {
			b.Reasons = append(b.Reasons, c.Name+": "+c.Reason)
		}
		b.Components = append(b.Components, c)
	}
	b.Total = round2(clamp(total, 0, MaxScore))
	return b, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
