package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/academy-recommender/internal/model"
	"github.com/courtside/academy-recommender/internal/scoring"
	"github.com/courtside/academy-recommender/internal/store"
)

var today = civil.Date{Year: 2025, Month: time.January, Day: 15}

func day(m time.Month, d int) civil.Date {
	return civil.Date{Year: 2025, Month: m, Day: d}
}

func tournament(id, name string, start civil.Date) model.TournamentCandidate {
	return model.TournamentCandidate{
		ID:        id,
		Name:      name,
		StartDate: start,
		EndDate:   start.AddDays(2),
		Category:  model.CategoryU16,
		Type:      model.TypeNational,
		Location:  "Madrid, Spain",
		Surface:   model.SurfaceClay,
	}
}

func newTestStore(t *testing.T) *store.Memory {
	t.Helper()
	m := store.NewMemory()
	m.PutPlayer(model.PlayerProfile{
		ID:                "p1",
		Category:          model.CategoryU16,
		Rating:            8,
		PreferredSurfaces: []model.Surface{model.SurfaceClay},
		HomeLocation:      "Madrid, Spain",
		TravelWillingness: model.TravelNational,
	})
	return m
}

func newTestEngine(m *store.Memory, opts ...Option) *Engine {
	return NewEngine(m, m, m, opts...)
}

// --------------------------------------------------------------------------
// Failing collaborators
// --------------------------------------------------------------------------

type failingStore struct {
	playerErr       error
	tournamentErr   error
	availabilityErr error
	inner           *store.Memory
}

func (f *failingStore) GetPlayerProfile(ctx context.Context, id string) (model.PlayerProfile, error) {
	if f.playerErr != nil {
		return model.PlayerProfile{}, f.playerErr
	}
	return f.inner.GetPlayerProfile(ctx, id)
}

func (f *failingStore) QueryTournaments(ctx context.Context, filter model.QueryFilter) ([]model.TournamentCandidate, error) {
	if f.tournamentErr != nil {
		return nil, f.tournamentErr
	}
	return f.inner.QueryTournaments(ctx, filter)
}

func (f *failingStore) GetAvailability(ctx context.Context, id string) (model.PlayerAvailability, error) {
	if f.availabilityErr != nil {
		return model.PlayerAvailability{}, f.availabilityErr
	}
	return f.inner.GetAvailability(ctx, id)
}

// unfilteredStore ignores the filter so the engine's post-filter is tested.
type unfilteredStore struct {
	*store.Memory
}

func (u unfilteredStore) QueryTournaments(ctx context.Context, _ model.QueryFilter) ([]model.TournamentCandidate, error) {
	return u.Memory.QueryTournaments(ctx, model.QueryFilter{})
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestRecommend_RanksAndBreaksTies(t *testing.T) {
	m := newTestStore(t)
	m.PutTournament(tournament("t-b", "Beta Open", day(time.March, 1)))
	m.PutTournament(tournament("t-a", "Alpha Open", day(time.March, 1)))
	m.PutTournament(tournament("t-late", "Aardvark Cup", day(time.April, 1)))
	weaker := tournament("t-hard", "Hard Court Cup", day(time.February, 1))
	weaker.Surface = model.SurfaceHard
	m.PutTournament(weaker)

	res, err := newTestEngine(m).Recommend(context.Background(), Request{PlayerID: "p1", AsOf: today})
	require.NoError(t, err)

	ids := make([]string, 0, len(res.Recommendations))
	for _, r := range res.Recommendations {
		ids = append(ids, r.Tournament.ID)
	}
	assert.Equal(t, []string{"t-a", "t-b", "t-late", "t-hard"}, ids)
	assert.Equal(t, 4, res.Candidates)

	for i := 1; i < len(res.Recommendations); i++ {
		assert.False(t, Less(res.Recommendations[i], res.Recommendations[i-1]),
			"results %d and %d out of order", i-1, i)
	}
}

func TestRecommend_ExcludesZeroScores(t *testing.T) {
	m := newTestStore(t)
	m.PutTournament(tournament("t-open", "Open", day(time.March, 1)))
	m.PutTournament(tournament("t-old", "Finished Cup", day(time.January, 2)))

	res, err := newTestEngine(m).Recommend(context.Background(), Request{PlayerID: "p1", AsOf: today})
	require.NoError(t, err)

	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, "t-open", res.Recommendations[0].Tournament.ID)
	assert.Equal(t, 1, res.Ineligible)
	for _, r := range res.Recommendations {
		assert.Greater(t, r.Breakdown.Total, 0.0)
	}
}

func TestRecommend_Truncates(t *testing.T) {
	m := newTestStore(t)
	for i := 0; i < 15; i++ {
		m.PutTournament(tournament(fmt.Sprintf("t%02d", i), fmt.Sprintf("Cup %02d", i), day(time.March, 1).AddDays(i)))
	}
	e := newTestEngine(m, WithWorkers(3))

	res, err := e.Recommend(context.Background(), Request{PlayerID: "p1", MaxResults: 5, AsOf: today})
	require.NoError(t, err)
	assert.Len(t, res.Recommendations, 5)
	assert.Equal(t, "t00", res.Recommendations[0].Tournament.ID)

	res, err = e.Recommend(context.Background(), Request{PlayerID: "p1", AsOf: today})
	require.NoError(t, err)
	assert.Len(t, res.Recommendations, DefaultMaxResults)

	res, err = newTestEngine(m, WithDefaultMax(12)).Recommend(context.Background(), Request{PlayerID: "p1", AsOf: today})
	require.NoError(t, err)
	assert.Len(t, res.Recommendations, 12)
}

func TestRecommend_NegativeMaxIsValidationError(t *testing.T) {
	m := newTestStore(t)
	_, err := newTestEngine(m).Recommend(context.Background(), Request{PlayerID: "p1", MaxResults: -1, AsOf: today})

	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "max_results", ve.Field)
}

func TestRecommend_UnknownPlayer(t *testing.T) {
	m := newTestStore(t)
	_, err := newTestEngine(m).Recommend(context.Background(), Request{PlayerID: "nobody", AsOf: today})

	var nf *model.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nobody", nf.ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestRecommend_UpstreamErrors(t *testing.T) {
	boom := errors.New("connection reset")
	testCases := []struct {
		name  string
		store *failingStore
		op    string
	}{
		{"player store", &failingStore{playerErr: boom}, "get player profile"},
		{"tournament store", &failingStore{tournamentErr: boom}, "query tournaments"},
		{"availability store", &failingStore{availabilityErr: boom}, "get availability"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.store.inner = newTestStore(t)
			e := NewEngine(tc.store, tc.store, tc.store)
			_, err := e.Recommend(context.Background(), Request{PlayerID: "p1", AsOf: today})

			var ue *model.UpstreamError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tc.op, ue.Op)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestRecommend_MissingAvailabilityIsFree(t *testing.T) {
	m := newTestStore(t)
	m.PutTournament(tournament("t1", "Open", day(time.March, 1)))
	fs := &failingStore{availabilityErr: fmt.Errorf("calendar: %w", model.ErrNotFound), inner: m}

	res, err := NewEngine(fs, fs, fs).Recommend(context.Background(), Request{PlayerID: "p1", AsOf: today})
	require.NoError(t, err)
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, scoring.MaxScore, res.Recommendations[0].Breakdown.Total)
}

func TestRecommend_BusyPeriodLowersButKeeps(t *testing.T) {
	m := newTestStore(t)
	m.PutTournament(tournament("t-busy", "Busy Cup", day(time.March, 1)))
	m.PutTournament(tournament("t-free", "Free Cup", day(time.March, 10)))
	m.AddBusy("p1", model.Interval{Start: day(time.February, 27), End: day(time.March, 2)})

	res, err := newTestEngine(m).Recommend(context.Background(), Request{PlayerID: "p1", AsOf: today})
	require.NoError(t, err)
	require.Len(t, res.Recommendations, 2)
	assert.Equal(t, "t-free", res.Recommendations[0].Tournament.ID)
	assert.Equal(t, 80.0, res.Recommendations[1].Breakdown.Total)
}

func TestRecommend_InvalidCandidateIsSkipped(t *testing.T) {
	m := newTestStore(t)
	m.PutTournament(tournament("t-good", "Good Cup", day(time.March, 1)))
	bad := tournament("t-bad", "Bad Cup", day(time.March, 5))
	bad.EndDate = day(time.March, 1)
	m.PutTournament(bad)

	res, err := newTestEngine(m).Recommend(context.Background(), Request{PlayerID: "p1", AsOf: today})
	require.NoError(t, err)
	require.Len(t, res.Recommendations, 1)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "t-bad", res.Skipped[0].TournamentID)
	assert.Contains(t, res.Skipped[0].Reason, "end_date")
}

func TestRecommend_InvalidAvailabilityFails(t *testing.T) {
	m := newTestStore(t)
	m.PutTournament(tournament("t1", "Open", day(time.March, 1)))
	m.AddBusy("p1", model.Interval{Start: day(time.March, 5), End: day(time.March, 1)})

	_, err := newTestEngine(m).Recommend(context.Background(), Request{PlayerID: "p1", AsOf: today})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "availability[0]", ve.Field)
}

func TestRecommend_PostFiltersWhenStoreIgnoresFilter(t *testing.T) {
	m := newTestStore(t)
	m.PutTournament(tournament("t-mad", "Madrid Cup", day(time.March, 1)))
	bcn := tournament("t-bcn", "Barcelona Cup", day(time.March, 1))
	bcn.Location = "Barcelona, Spain"
	m.PutTournament(bcn)

	u := unfilteredStore{m}
	res, err := NewEngine(u, u, u).Recommend(context.Background(), Request{
		PlayerID: "p1",
		Filter:   model.QueryFilter{Location: "Barcelona"},
		AsOf:     today,
	})
	require.NoError(t, err)
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, "t-bcn", res.Recommendations[0].Tournament.ID)
	assert.Equal(t, 1, res.Candidates)
}

func TestRecommend_IsDeterministic(t *testing.T) {
	m := newTestStore(t)
	for i := 0; i < 8; i++ {
		tour := tournament(fmt.Sprintf("t%d", i), fmt.Sprintf("Cup %d", i%3), day(time.March, 1).AddDays(i%2))
		if i%2 == 0 {
			tour.Surface = model.SurfaceGrass
		}
		m.PutTournament(tour)
	}
	e := newTestEngine(m, WithWorkers(8))

	first, err := e.Recommend(context.Background(), Request{PlayerID: "p1", AsOf: today})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := e.Recommend(context.Background(), Request{PlayerID: "p1", AsOf: today})
		require.NoError(t, err)
		assert.Equal(t, first.Recommendations, again.Recommendations)
	}
}

func TestRecommend_CancelledContext(t *testing.T) {
	m := newTestStore(t)
	m.PutTournament(tournament("t1", "Open", day(time.March, 1)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(m).Recommend(ctx, Request{PlayerID: "p1", AsOf: today})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResult_Summary(t *testing.T) {
	r := &Result{PlayerID: "p1", Candidates: 3, Ineligible: 1, Recommendations: make([]Recommendation, 2)}
	assert.Equal(t, "player=p1 candidates=3 returned=2 ineligible=1 skipped=0", r.Summary())
}
