package model

import (
	"strings"

	"cloud.google.com/go/civil"
)

// QueryFilter is the structured form of a free-text request. Zero values
// mean "not constrained".
type QueryFilter struct {
	DateFrom *civil.Date    `json:"date_from,omitempty"`
	DateTo   *civil.Date    `json:"date_to,omitempty"`
	Category Category       `json:"category,omitempty"`
	Location string         `json:"location,omitempty"`
	Type     TournamentType `json:"type,omitempty"`
}

// IsEmpty reports whether no field is set.
func (f QueryFilter) IsEmpty() bool {
	return f.DateFrom == nil && f.DateTo == nil && f.Category == "" && f.Location == "" && f.Type == ""
}

// Merge returns f with every field that is set in o overriding it.
func (f QueryFilter) Merge(o QueryFilter) QueryFilter {
	if o.DateFrom != nil {
		f.DateFrom = o.DateFrom
	}
	if o.DateTo != nil {
		f.DateTo = o.DateTo
	}
	if o.Category != "" {
		f.Category = o.Category
	}
	if o.Location != "" {
		f.Location = o.Location
	}
	if o.Type != "" {
		f.Type = o.Type
	}
	return f
}

// Matches applies the filter to a single tournament. A date range keeps
// tournaments that overlap it; location is a case-insensitive substring.
func (f QueryFilter) Matches(t TournamentCandidate) bool {
	if f.DateFrom != nil && t.EndDate.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && t.StartDate.After(*f.DateTo) {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(t.Location), strings.ToLower(f.Location)) {
		return false
	}
	return true
}

// Key is a stable string form used for cache keys.
func (f QueryFilter) Key() string {
	var from, to string
	if f.DateFrom != nil {
		from = f.DateFrom.String()
	}
	if f.DateTo != nil {
		to = f.DateTo.String()
	}
	return strings.Join([]string{
		from, to, string(f.Category), strings.ToLower(f.Location), string(f.Type),
	}, "|")
}
