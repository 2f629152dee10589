package api

import (
	"net/http"

	"github.com/vytor/mathcat/internal/logger"
	"github.com/vytor/mathcat/internal/models"
)

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"topics":       models.Topics,
		"difficulties": models.Difficulties,
	})
}

// handleQuestionBatch returns a set of questions with solutions. Nothing in
// the batch is graded or scored.
func (s *Server) handleQuestionBatch(w http.ResponseWriter, r *http.Request) {
	var req models.BatchRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	batch, err := s.Questions.Batch(r.Context(), req.Count, req.DifficultyLevel)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"questions": batch})
}

func (s *Server) handleStartQuestion(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	learner := learnerFromContext(r.Context())

	var req models.QuestionRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("starting question: topic=%s difficulty=%s", req.Topic, req.DifficultyLevel)

	if _, err := learner.Practice.StartQuestion(r.Context(), req.Topic, req.DifficultyLevel); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, learner.Practice.View())
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	learner := learnerFromContext(r.Context())

	var req models.AnswerRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := learner.Practice.SubmitAnswer(r.Context(), req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"result": result,
		"score":  learner.Scores.Score(),
		"view":   learner.Practice.View(),
	})
}

func (s *Server) handleRecentQuestions(w http.ResponseWriter, r *http.Request) {
	learner := learnerFromContext(r.Context())

	questions, err := s.History.Recent(r.Context(), learner.UserID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"questions": questions})
}
