package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/courtside/academy-recommender/internal/api/respond"
	"github.com/courtside/academy-recommender/internal/cache"
	"github.com/courtside/academy-recommender/internal/recommend"
)

// GetRecommendations ranks upcoming tournaments for a player.
// @Summary Recommend tournaments
// @Description Parses the optional free-text query against the as-of date, merges explicit filters on top, scores every matching tournament and returns the best matches with score breakdowns.
// @Tags recommendations
// @Produce json
// @Param playerID path string true "Player ID"
// @Param q query string false "Free-text filter, e.g. 'U16 next month in Barcelona'"
// @Param max query int false "Maximum results (default 10)"
// @Param as_of query string false "Reference date YYYY-MM-DD (default today)"
// @Param date_from query string false "Earliest date YYYY-MM-DD"
// @Param date_to query string false "Latest date YYYY-MM-DD"
// @Param category query string false "Age category" Enums(U12, U14, U16, U18, Adults)
// @Param location query string false "Location substring"
// @Param type query string false "Tournament type" Enums(international, national, proximity)
// @Success 200 {object} recommend.Result
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /players/{playerID}/recommendations [get]
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	asOf, err := h.referenceDate(r, "as_of")
	if err != nil {
		respond.WriteAppError(w, err)
		return
	}
	maxResults, err := maxParam(r)
	if err != nil {
		respond.WriteAppError(w, err)
		return
	}
	explicit, err := explicitFilter(r)
	if err != nil {
		respond.WriteAppError(w, err)
		return
	}
	filter := h.parser.Parse(r.URL.Query().Get("q"), asOf).Merge(explicit)

	cacheKey := cache.RecommendationKey(playerID, filter.Key(), asOf.String(), maxResults)
	ttl := h.cfg.CacheTTL

	if data, etag, ok := h.cache.Get(r.Context(), cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	result, err := h.engine.Recommend(r.Context(), recommend.Request{
		PlayerID:   playerID,
		Filter:     filter,
		MaxResults: maxResults,
		AsOf:       asOf,
	})
	if err != nil {
		h.logger.Warn("Recommendation failed", "player_id", playerID, "error", err)
		respond.WriteAppError(w, err)
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		respond.WriteAppError(w, err)
		return
	}
	etag := h.cache.Set(r.Context(), cacheKey, raw, ttl)
	respond.WriteJSON(w, raw, etag, ttl, false)
}
