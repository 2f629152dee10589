package api

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/vytor/mathcat/internal/models"
	"github.com/vytor/mathcat/internal/services"
)

// ReadyFunc reports whether a backing store is reachable.
type ReadyFunc func(ctx context.Context) error

type Server struct {
	Learners  services.LearnerService
	History   services.HistoryService
	Questions services.QuestionService
	Ready     ReadyFunc

	validate *validator.Validate
}

func NewServer(learners services.LearnerService, history services.HistoryService, questions services.QuestionService, ready ReadyFunc) *Server {
	return &Server{
		Learners:  learners,
		History:   history,
		Questions: questions,
		Ready:     ready,
		validate:  newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("topic", func(fl validator.FieldLevel) bool {
		return models.IsTopic(fl.Field().String())
	})
	_ = v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		return models.IsDifficulty(fl.Field().String())
	})
	return v
}
