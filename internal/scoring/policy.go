package scoring

import (
	"fmt"
	"math"

	"github.com/courtside/academy-recommender/internal/model"
)

// Weights are the maximum points per component. They must sum to 100.
type Weights struct {
	Category     float64 `json:"category"`
	Surface      float64 `json:"surface"`
	Type         float64 `json:"type"`
	Proximity    float64 `json:"proximity"`
	Availability float64 `json:"availability"`
}

// Total returns the sum of all weights.
func (w Weights) Total() float64 {
	return w.Category + w.Surface + w.Type + w.Proximity + w.Availability
}

// Policy holds every tunable constant of the scoring function. Credits are
// fractions of the component weight.
type Policy struct {
	Weights Weights

	// NeutralCredit applies when an optional input is missing.
	NeutralCredit float64
	// PlayingUpCredit applies to tournaments one bracket above the player.
	PlayingUpCredit float64
	// SurfaceMismatchCredit applies when the surface is not preferred.
	SurfaceMismatchCredit float64

	// Ratings at or above these thresholds put a player at national or
	// international level.
	NationalRating      float64
	InternationalRating float64
	// TypeTierCredit is indexed by |tournament tier - player level|.
	TypeTierCredit [3]float64

	// ProximityDecay is applied once per distance class beyond reach.
	ProximityDecay float64
	// TravelRadiusKm bounds full proximity credit when coordinates are
	// known. Zero means unlimited.
	TravelRadiusKm map[model.TravelWillingness]float64
}

// DefaultPolicy returns the stock weighting.
func DefaultPolicy() Policy {
	return Policy{
		Weights: Weights{
			Category:     30,
			Surface:      15,
			Type:         20,
			Proximity:    15,
			Availability: 20,
		},
		NeutralCredit:         0.5,
		PlayingUpCredit:       0.5,
		SurfaceMismatchCredit: 0.4,
		NationalRating:        6,
		InternationalRating:   11,
		TypeTierCredit:        [3]float64{1, 0.5, 0.15},
		ProximityDecay:        0.5,
		TravelRadiusKm: map[model.TravelWillingness]float64{
			model.TravelLocal:         50,
			model.TravelNational:      600,
			model.TravelInternational: 0,
		},
	}
}

// Validate checks that weights sum to 100 and credits are fractions.
func (p Policy) Validate() error {
	w := p.Weights
	for _, c := range []struct {
		name string
		v    float64
	}{
		{NameCategory, w.Category}, {NameSurface, w.Surface}, {NameType, w.Type},
		{NameProximity, w.Proximity}, {NameAvailability, w.Availability},
	} {
		if c.v < 0 {
			return fmt.Errorf("weight %s is negative: %v", c.name, c.v)
		}
	}
	if math.Abs(w.Total()-MaxScore) > 1e-9 {
		return fmt.Errorf("weights sum to %v, want %v", w.Total(), MaxScore)
	}

	for _, c := range []struct {
		name string
		v    float64
	}{
		{"neutral credit", p.NeutralCredit},
		{"playing-up credit", p.PlayingUpCredit},
		{"surface mismatch credit", p.SurfaceMismatchCredit},
		{"proximity decay", p.ProximityDecay},
	} {
		if c.v < 0 || c.v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", c.name, c.v)
		}
	}
	for i, v := range p.TypeTierCredit {
		if v < 0 || v > 1 {
			return fmt.Errorf("type tier credit %d must be within [0,1], got %v", i, v)
		}
		if i > 0 && v > p.TypeTierCredit[i-1] {
			return fmt.Errorf("type tier credits must not increase with tier distance")
		}
	}
	if p.NationalRating > p.InternationalRating {
		return fmt.Errorf("national rating %v above international rating %v", p.NationalRating, p.InternationalRating)
	}
	return nil
}
