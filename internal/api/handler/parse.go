package handler

import (
	"net/http"

	"github.com/courtside/academy-recommender/internal/api/respond"
)

// ParseQuery exposes the query parser.
// @Summary Parse a free-text filter
// @Description Resolves relative months, month names, age categories, known locations and tournament types against the reference date. Unrecognized text is ignored.
// @Tags query
// @Produce json
// @Param q query string false "Free text"
// @Param ref query string false "Reference date YYYY-MM-DD (default today)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /query/parse [get]
func (h *Handler) ParseQuery(w http.ResponseWriter, r *http.Request) {
	ref, err := h.referenceDate(r, "ref")
	if err != nil {
		respond.WriteAppError(w, err)
		return
	}
	text := r.URL.Query().Get("q")
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"query":          text,
		"reference_date": ref,
		"filter":         h.parser.Parse(text, ref),
	})
}
