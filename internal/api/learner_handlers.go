package api

import (
	"net/http"

	"github.com/vytor/mathcat/internal/errors"
	"github.com/vytor/mathcat/internal/logger"
	"github.com/vytor/mathcat/internal/models"
	"github.com/vytor/mathcat/internal/scoresync"
	"github.com/vytor/mathcat/internal/session"
	"github.com/vytor/mathcat/internal/tier"
)

type tierView struct {
	Stage           int    `json:"stage"`
	RemainingToNext int    `json:"remaining_to_next"`
	Final           bool   `json:"final"`
	Label           string `json:"label"`
	ImageRef        string `json:"image_ref"`
}

func newTierView(t tier.Tier) tierView {
	return tierView{
		Stage:           t.Stage,
		RemainingToNext: t.RemainingToNext,
		Final:           t.IsFinal(),
		Label:           tier.Label(t.Stage),
		ImageRef:        tier.ImageRef(t.Stage),
	}
}

type stateResponse struct {
	Identity         *models.Identity    `json:"identity"`
	Score            int                 `json:"score"`
	Direction        scoresync.Direction `json:"direction"`
	Summary          *models.Summary     `json:"summary"`
	Tier             tierView            `json:"tier"`
	Practice         session.View        `json:"practice"`
	PendingPurchases []string            `json:"pending_purchases"`
	Highlighted      string              `json:"highlighted,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("handling login")

	var req models.LoginRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if _, err := s.Learners.Login(r.Context(), req); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"identity": s.Learners.Identity()})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.Learners.Logout(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id := s.Learners.Identity()
	if id == nil {
		handleError(w, r, errors.NewUnauthenticatedError())
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"identity": id})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	learner := learnerFromContext(r.Context())

	writeJSON(w, r, http.StatusOK, stateResponse{
		Identity:         s.Learners.Identity(),
		Score:            learner.Scores.Score(),
		Direction:        learner.Scores.Direction(),
		Summary:          learner.Scores.Summary(),
		Tier:             newTierView(learner.Scores.Tier()),
		Practice:         learner.Practice.View(),
		PendingPurchases: learner.Rewards.Pending(),
		Highlighted:      learner.Rewards.Highlighted(),
	})
}
