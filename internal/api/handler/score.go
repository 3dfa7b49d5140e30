package handler

import (
	"encoding/json"
	"net/http"

	"cloud.google.com/go/civil"

	"github.com/courtside/academy-recommender/internal/api/respond"
	"github.com/courtside/academy-recommender/internal/model"
)

const maxScoreBody = 1 << 20

// ScoreRequest is the body of POST /score.
type ScoreRequest struct {
	Player       model.PlayerProfile       `json:"player"`
	Tournament   model.TournamentCandidate `json:"tournament"`
	Availability model.PlayerAvailability  `json:"availability"`
	AsOf         *civil.Date               `json:"as_of,omitempty"`
}

// ScoreTournament scores one tournament for an inline player profile.
// @Summary Score a single tournament
// @Description Runs the scoring function on the supplied player, tournament and availability. as_of defaults to today.
// @Tags scoring
// @Accept json
// @Produce json
// @Param request body ScoreRequest true "Scoring input"
// @Success 200 {object} scoring.Breakdown
// @Failure 400 {object} respond.ErrorResponse
// @Router /score [post]
func (h *Handler) ScoreTournament(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxScoreBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, respond.CodeBadRequest, "Invalid JSON body", err.Error())
		return
	}

	asOf := h.today()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	breakdown, err := h.engine.Scorer().Score(req.Player, req.Tournament, req.Availability, asOf)
	if err != nil {
		respond.WriteAppError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, breakdown)
}
