package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/mathcat/internal/errors"
	"github.com/vytor/mathcat/internal/tier"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	learner := learnerFromContext(r.Context())

	filter, err := parseHistoryFilter(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	records, err := s.History.List(r.Context(), learner.UserID, filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"records": records})
}

// handleTier evaluates the tier for an arbitrary score.
func (s *Server) handleTier(w http.ResponseWriter, r *http.Request) {
	score, err := strconv.Atoi(chi.URLParam(r, "score"))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("score must be an integer"))
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"score":          score,
		"tier":           newTierView(tier.Of(score)),
		"next_threshold": tier.NextThreshold(score),
	})
}
