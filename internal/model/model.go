// Package model holds the records the recommendation core reads: player
// profiles, tournament candidates, availability calendars and the structured
// filter produced by the query parser. All dates are calendar dates.
package model

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
)

// --------------------------------------------------------------------------
// Enums
// --------------------------------------------------------------------------

// Category is an age bracket.
type Category string

const (
	CategoryU12    Category = "U12"
	CategoryU14    Category = "U14"
	CategoryU16    Category = "U16"
	CategoryU18    Category = "U18"
	CategoryAdults Category = "Adults"
)

// Categories lists the brackets youngest first.
var Categories = []Category{CategoryU12, CategoryU14, CategoryU16, CategoryU18, CategoryAdults}

// Rank returns the bracket position (0 = youngest), or -1 if unknown.
func (c Category) Rank() int {
	for i, v := range Categories {
		if v == c {
			return i
		}
	}
	return -1
}

// ParseCategory accepts "u16", "U-16", "adult", "Adults" etc.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
	switch s {
	case "U12", "U14", "U16", "U18":
		return Category(s), true
	case "ADULT", "ADULTS":
		return CategoryAdults, true
	}
	return "", false
}

// Surface is a court surface.
type Surface string

const (
	SurfaceHard   Surface = "hard"
	SurfaceClay   Surface = "clay"
	SurfaceGrass  Surface = "grass"
	SurfaceIndoor Surface = "indoor"
)

// ParseSurface normalizes a surface name.
func ParseSurface(s string) (Surface, bool) {
	switch v := Surface(strings.ToLower(strings.TrimSpace(s))); v {
	case SurfaceHard, SurfaceClay, SurfaceGrass, SurfaceIndoor:
		return v, true
	}
	return "", false
}

// TournamentType tiers tournaments by prestige and travel distance.
type TournamentType string

const (
	TypeInternational TournamentType = "international"
	TypeNational      TournamentType = "national"
	TypeProximity     TournamentType = "proximity"
)

// Tier returns 2 for international, 1 for national, 0 for proximity and -1
// for an unknown type.
func (t TournamentType) Tier() int {
	switch t {
	case TypeInternational:
		return 2
	case TypeNational:
		return 1
	case TypeProximity:
		return 0
	}
	return -1
}

// ParseTournamentType accepts the enum values plus "local" for proximity.
func ParseTournamentType(s string) (TournamentType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "international":
		return TypeInternational, true
	case "national":
		return TypeNational, true
	case "proximity", "local":
		return TypeProximity, true
	}
	return "", false
}

// TravelWillingness is how far a player is prepared to travel.
type TravelWillingness string

const (
	TravelLocal         TravelWillingness = "local"
	TravelNational      TravelWillingness = "national"
	TravelInternational TravelWillingness = "international"
)

// Reach is the furthest distance class the player accepts, or -1 if unset.
func (w TravelWillingness) Reach() int {
	switch w {
	case TravelLocal:
		return 0
	case TravelNational:
		return 1
	case TravelInternational:
		return 2
	}
	return -1
}

// ParseTravelWillingness normalizes a willingness value.
func ParseTravelWillingness(s string) (TravelWillingness, bool) {
	switch v := TravelWillingness(strings.ToLower(strings.TrimSpace(s))); v {
	case TravelLocal, TravelNational, TravelInternational:
		return v, true
	}
	return "", false
}

// --------------------------------------------------------------------------
// Records
// --------------------------------------------------------------------------

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PlayerProfile is a read-only snapshot of a player's standing and
// constraints. Rating 0 means unrated.
type PlayerProfile struct {
	ID                string            `json:"id"`
	Name              string            `json:"name,omitempty"`
	Category          Category          `json:"category"`
	Rating            float64           `json:"rating"`
	PreferredSurfaces []Surface         `json:"preferred_surfaces,omitempty"`
	HomeLocation      string            `json:"home_location,omitempty"`
	Home              *GeoPoint         `json:"home,omitempty"`
	TravelWillingness TravelWillingness `json:"travel_willingness,omitempty"`
}

// PrefersSurface reports whether s is one of the player's preferred surfaces.
func (p PlayerProfile) PrefersSurface(s Surface) bool {
	for _, v := range p.PreferredSurfaces {
		if v == s {
			return true
		}
	}
	return false
}

// TournamentCandidate is a tournament that can be scored against a player.
type TournamentCandidate struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	StartDate   civil.Date     `json:"start_date"`
	EndDate     civil.Date     `json:"end_date"`
	Category    Category       `json:"category,omitempty"`
	Type        TournamentType `json:"type,omitempty"`
	Location    string         `json:"location,omitempty"`
	Coordinates *GeoPoint      `json:"coordinates,omitempty"`
	Surface     Surface        `json:"surface,omitempty"`
}

// Validate checks the date interval.
func (t TournamentCandidate) Validate() error {
	if !t.StartDate.IsValid() {
		return &ValidationError{Field: "start_date", Value: t.StartDate.String(), Message: "invalid calendar date"}
	}
	if !t.EndDate.IsValid() {
		return &ValidationError{Field: "end_date", Value: t.EndDate.String(), Message: "invalid calendar date"}
	}
	if t.EndDate.Before(t.StartDate) {
		return &ValidationError{
			Field:   "end_date",
			Value:   t.EndDate.String(),
			Message: fmt.Sprintf("ends before start date %s", t.StartDate),
		}
	}
	return nil
}

// Interval returns the tournament's inclusive date span.
func (t TournamentCandidate) Interval() Interval {
	return Interval{Start: t.StartDate, End: t.EndDate}
}

// Interval is an inclusive range of calendar dates.
type Interval struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
}

// Overlaps reports whether both inclusive intervals share at least one day.
func (i Interval) Overlaps(o Interval) bool {
	return !i.Start.After(o.End) && !i.End.Before(o.Start)
}

// PlayerAvailability is the player's busy calendar. Intervals may arrive in
// any order and may overlap each other.
type PlayerAvailability struct {
	PlayerID string     `json:"player_id,omitempty"`
	Busy     []Interval `json:"busy"`
}

// Validate rejects busy intervals that end before they start.
func (a PlayerAvailability) Validate() error {
	for i, b := range a.Busy {
		if !b.Start.IsValid() || !b.End.IsValid() || b.End.Before(b.Start) {
			return &ValidationError{
				Field:   fmt.Sprintf("availability[%d]", i),
				Value:   b.Start.String() + ".." + b.End.String(),
				Message: "busy interval must satisfy start <= end",
			}
		}
	}
	return nil
}

// FirstConflict returns the earliest busy interval (by start, then end)
// overlapping iv. The result does not depend on input order.
func (a PlayerAvailability) FirstConflict(iv Interval) (Interval, bool) {
	var (
		found Interval
		ok    bool
	)
	for _, b := range a.Busy {
		if !iv.Overlaps(b) {
			continue
		}
		if !ok || b.Start.Before(found.Start) || (b.Start == found.Start && b.End.Before(found.End)) {
			found, ok = b, true
		}
	}
	return found, ok
}
