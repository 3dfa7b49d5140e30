package model

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(y, m, day int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: day}
}

func TestInterval_Overlaps(t *testing.T) {
	testCases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", Interval{d(2025, 3, 1), d(2025, 3, 5)}, Interval{d(2025, 3, 6), d(2025, 3, 9)}, false},
		{"touching end day", Interval{d(2025, 3, 1), d(2025, 3, 5)}, Interval{d(2025, 3, 5), d(2025, 3, 9)}, true},
		{"contained", Interval{d(2025, 3, 1), d(2025, 3, 31)}, Interval{d(2025, 3, 10), d(2025, 3, 12)}, true},
		{"single day", Interval{d(2025, 3, 4), d(2025, 3, 4)}, Interval{d(2025, 3, 4), d(2025, 3, 4)}, true},
		{"before", Interval{d(2025, 2, 1), d(2025, 2, 28)}, Interval{d(2025, 3, 1), d(2025, 3, 2)}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

func TestTournamentCandidate_Validate(t *testing.T) {
	ok := TournamentCandidate{ID: "t1", StartDate: d(2025, 5, 1), EndDate: d(2025, 5, 3)}
	require.NoError(t, ok.Validate())

	oneDay := TournamentCandidate{ID: "t2", StartDate: d(2025, 5, 1), EndDate: d(2025, 5, 1)}
	require.NoError(t, oneDay.Validate())

	bad := TournamentCandidate{ID: "t3", StartDate: d(2025, 5, 3), EndDate: d(2025, 5, 1)}
	err := bad.Validate()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "end_date", ve.Field)
	assert.Equal(t, "2025-05-01", ve.Value)

	missing := TournamentCandidate{ID: "t4", EndDate: d(2025, 5, 1)}
	require.ErrorAs(t, missing.Validate(), &ve)
	assert.Equal(t, "start_date", ve.Field)
}

func TestPlayerAvailability_Validate(t *testing.T) {
	a := PlayerAvailability{Busy: []Interval{
		{d(2025, 1, 1), d(2025, 1, 2)},
		{d(2025, 2, 5), d(2025, 2, 1)},
	}}
	var ve *ValidationError
	require.ErrorAs(t, a.Validate(), &ve)
	assert.Equal(t, "availability[1]", ve.Field)

	require.NoError(t, PlayerAvailability{}.Validate())
}

func TestPlayerAvailability_FirstConflictIsOrderIndependent(t *testing.T) {
	early := Interval{d(2025, 4, 1), d(2025, 4, 10)}
	late := Interval{d(2025, 4, 8), d(2025, 4, 20)}
	free := Interval{d(2025, 6, 1), d(2025, 6, 2)}
	tournament := Interval{d(2025, 4, 9), d(2025, 4, 12)}

	for _, busy := range [][]Interval{
		{early, late, free},
		{late, free, early},
		{free, late, early},
	} {
		got, ok := PlayerAvailability{Busy: busy}.FirstConflict(tournament)
		require.True(t, ok)
		assert.Equal(t, early, got)
	}

	_, ok := PlayerAvailability{Busy: []Interval{free}}.FirstConflict(tournament)
	assert.False(t, ok)
}

func TestParseEnums(t *testing.T) {
	c, ok := ParseCategory("u-16")
	require.True(t, ok)
	assert.Equal(t, CategoryU16, c)

	c, ok = ParseCategory("Adult")
	require.True(t, ok)
	assert.Equal(t, CategoryAdults, c)

	_, ok = ParseCategory("U10")
	assert.False(t, ok)

	typ, ok := ParseTournamentType("Local")
	require.True(t, ok)
	assert.Equal(t, TypeProximity, typ)

	s, ok := ParseSurface(" Clay ")
	require.True(t, ok)
	assert.Equal(t, SurfaceClay, s)

	w, ok := ParseTravelWillingness("NATIONAL")
	require.True(t, ok)
	assert.Equal(t, 1, w.Reach())

	assert.Equal(t, 2, TypeInternational.Tier())
	assert.Equal(t, -1, TournamentType("").Tier())
	assert.Equal(t, 3, CategoryU18.Rank())
	assert.Equal(t, -1, Category("").Rank())
}

func TestNotFoundError_IsErrNotFound(t *testing.T) {
	err := error(&NotFoundError{Kind: "player", ID: "p1"})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, `player "p1" not found`, err.Error())

	up := &UpstreamError{Op: "query tournaments", Err: ErrNotFound}
	assert.True(t, errors.Is(up, ErrNotFound))
}
