package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vytor/mathcat/internal/errors"
	"github.com/vytor/mathcat/internal/gateway"
	"github.com/vytor/mathcat/internal/logger"
	"github.com/vytor/mathcat/internal/models"
)

// QuestionService handles ungraded question sets.
type QuestionService interface {
	Batch(ctx context.Context, count int, difficultyLevel string) ([]models.BatchQuestion, error)
}

type questionService struct {
	bank gateway.QuestionBank
}

// NewQuestionService creates a new QuestionService
func NewQuestionService(bank gateway.QuestionBank) QuestionService {
	return &questionService{bank: bank}
}

func (s *questionService) Batch(ctx context.Context, count int, difficultyLevel string) ([]models.BatchQuestion, error) {
	log := logger.FromContext(ctx)

	difficultyLevel = strings.TrimSpace(difficultyLevel)
	if count < 1 || count > models.MaxBatchSize {
		return nil, errors.NewValidationError("count", fmt.Sprintf("must be between 1 and %d", models.MaxBatchSize))
	}
	if difficultyLevel != "" && !models.IsDifficulty(difficultyLevel) {
		return nil, errors.NewValidationError("difficulty_level", "unknown difficulty")
	}

	log.Debug("generating question batch: count=%d difficulty=%s", count, difficultyLevel)
	batch, err := s.bank.GenerateBatch(ctx, count, difficultyLevel)
	if err != nil {
		log.Warn("failed to generate question batch: %v", err)
		return nil, err
	}
	return batch, nil
}
