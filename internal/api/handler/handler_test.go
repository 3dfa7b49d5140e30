package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/academy-recommender/internal/api/respond"
	"github.com/courtside/academy-recommender/internal/cache"
	"github.com/courtside/academy-recommender/internal/config"
	"github.com/courtside/academy-recommender/internal/query"
	"github.com/courtside/academy-recommender/internal/recommend"
	"github.com/courtside/academy-recommender/internal/store"
)

var testToday = civil.Date{Year: 2025, Month: time.January, Day: 15}

func newTestHandler(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	mem := store.NewMemory()
	store.SeedDemo(mem, testToday)

	cfg := &config.Config{
		StoreBackend: config.StoreMemory,
		CacheTTL:     time.Minute,
		Timezone:     time.UTC,
	}
	h := New(Deps{
		Engine: recommend.NewEngine(mem, mem, mem),
		Parser: query.NewParser([]string{"Madrid", "Barcelona", "Paris"}),
		Cache:  cache.NewMemory(true),
	}, cfg)
	h.today = func() civil.Date { return testToday }

	r := chi.NewRouter()
	r.Get("/", h.Root)
	r.Get("/health/db", h.HealthCheckDB)
	r.Get("/query/parse", h.ParseQuery)
	r.Get("/players/{playerID}/recommendations", h.GetRecommendations)
	r.Post("/score", h.ScoreTournament)
	return h, r
}

func get(t *testing.T, router http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) respond.ErrorResponse {
	t.Helper()
	var resp respond.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGetRecommendations(t *testing.T) {
	_, router := newTestHandler(t)
	lucia := store.DemoID("player/lucia")

	rec := get(t, router, "/players/"+lucia+"/recommendations?max=3", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	var result recommend.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, lucia, result.PlayerID)
	assert.Equal(t, testToday, result.AsOf)
	assert.LessOrEqual(t, len(result.Recommendations), 3)
	require.NotEmpty(t, result.Recommendations)
	for _, r := range result.Recommendations {
		assert.Greater(t, r.Breakdown.Total, 0.0)
	}

	rec = get(t, router, "/players/"+lucia+"/recommendations?max=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	rec = get(t, router, "/players/"+lucia+"/recommendations?max=3", http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestGetRecommendations_QueryAndExplicitFilters(t *testing.T) {
	_, router := newTestHandler(t)
	lucia := store.DemoID("player/lucia")

	rec := get(t, router, "/players/"+lucia+"/recommendations?q=international+U16&location=paris", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result recommend.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "paris", result.Filter.Location)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "Tennis Europe Paris U16", result.Recommendations[0].Tournament.Name)
}

func TestGetRecommendations_Errors(t *testing.T) {
	_, router := newTestHandler(t)
	lucia := store.DemoID("player/lucia")

	testCases := []struct {
		name       string
		target     string
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{"unknown player", "/players/nobody/recommendations", http.StatusNotFound, respond.CodeNotFound, ""},
		{"zero max", "/players/" + lucia + "/recommendations?max=0", http.StatusBadRequest, respond.CodeValidation, "max"},
		{"non-numeric max", "/players/" + lucia + "/recommendations?max=ten", http.StatusBadRequest, respond.CodeValidation, "max"},
		{"bad as_of", "/players/" + lucia + "/recommendations?as_of=15/01/2025", http.StatusBadRequest, respond.CodeValidation, "as_of"},
		{"inverted range", "/players/" + lucia + "/recommendations?date_from=2025-03-01&date_to=2025-02-01", http.StatusBadRequest, respond.CodeValidation, "date_to"},
		{"bad category", "/players/" + lucia + "/recommendations?category=U10", http.StatusBadRequest, respond.CodeValidation, "category"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, router, tc.target, nil)
			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			resp := decodeError(t, rec)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
			assert.Equal(t, tc.wantField, resp.Error.Field)
		})
	}
}

func TestParseQuery(t *testing.T) {
	_, router := newTestHandler(t)

	rec := get(t, router, "/query/parse?q=U16+next+month+in+Barcelona&ref=2025-01-15", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Query  string `json:"query"`
		Filter struct {
			DateFrom string `json:"date_from"`
			DateTo   string `json:"date_to"`
			Category string `json:"category"`
			Location string `json:"location"`
		} `json:"filter"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2025-02-01", body.Filter.DateFrom)
	assert.Equal(t, "2025-02-28", body.Filter.DateTo)
	assert.Equal(t, "U16", body.Filter.Category)
	assert.Equal(t, "Barcelona", body.Filter.Location)

	rec = get(t, router, "/query/parse?q=x&ref=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoreTournament(t *testing.T) {
	_, router := newTestHandler(t)

	body := `{
		"player": {"id": "p1", "category": "U16", "rating": 8, "preferred_surfaces": ["clay"],
		           "home_location": "Madrid", "travel_willingness": "national"},
		"tournament": {"id": "t1", "name": "Open", "start_date": "2025-03-10", "end_date": "2025-03-14",
		               "category": "U16", "type": "national", "location": "Madrid", "surface": "clay"},
		"availability": {"busy": [{"start": "2025-03-01", "end": "2025-03-11"}]}
	}`
	req := httptest.NewRequest(http.MethodPost, "/score", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var breakdown struct {
		Total   float64  `json:"total"`
		Reasons []string `json:"reasons"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &breakdown))
	assert.Equal(t, 80.0, breakdown.Total)
	require.Len(t, breakdown.Reasons, 1)
	assert.Contains(t, breakdown.Reasons[0], "availability")
}

func TestScoreTournament_BadInput(t *testing.T) {
	_, router := newTestHandler(t)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/score", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := post(`{"player": {}, "unknown": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, respond.CodeBadRequest, decodeError(t, rec).Error.Code)

	rec = post(`{"player": {"id": "p"}, "tournament": {"id": "t", "start_date": "2025-03-10", "end_date": "2025-03-01"}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, respond.CodeValidation, resp.Error.Code)
	assert.Equal(t, "end_date", resp.Error.Field)
}

func TestRootAndHealthInGuestMode(t *testing.T) {
	_, router := newTestHandler(t)

	rec := get(t, router, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"guest":true`)

	rec = get(t, router, "/health/db", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"memory"`)
}
