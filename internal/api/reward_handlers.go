package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/mathcat/internal/errors"
	"github.com/vytor/mathcat/internal/logger"
)

// handleRewards loads the catalog and refreshes the balance together.
func (s *Server) handleRewards(w http.ResponseWriter, r *http.Request) {
	learner := learnerFromContext(r.Context())

	overview, err := learner.Rewards.Overview(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"items":   overview.Items,
		"summary": overview.Summary,
		"tier":    newTierView(learner.Scores.Tier()),
	})
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	learner := learnerFromContext(r.Context())
	itemID := chi.URLParam(r, "itemID")

	receipt, err := learner.Rewards.Purchase(r.Context(), itemID)
	if err != nil && receipt == nil {
		handleError(w, r, err)
		return
	}

	resp := map[string]any{
		"receipt": receipt,
		"score":   learner.Scores.Score(),
		"tier":    newTierView(learner.Scores.Tier()),
	}
	if err != nil {
		log.Warn("purchase went through but the balance did not refresh: %v", err)
		resp["warning"] = errors.Message(err)
	}
	writeJSON(w, r, http.StatusOK, resp)
}
