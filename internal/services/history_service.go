package services

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/vytor/mathcat/internal/errors"
	"github.com/vytor/mathcat/internal/gateway"
	"github.com/vytor/mathcat/internal/logger"
	"github.com/vytor/mathcat/internal/models"
)

// HistoryService handles browsing past attempts.
type HistoryService interface {
	List(ctx context.Context, userID int64, filter models.HistoryFilter) ([]models.HistoryRecord, error)
	Recent(ctx context.Context, userID int64) ([]models.RecentQuestion, error)
}

type historyService struct {
	reader   gateway.HistoryReader
	validate *validator.Validate
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(reader gateway.HistoryReader) HistoryService {
	return &historyService{reader: reader, validate: validator.New()}
}

func (s *historyService) List(ctx context.Context, userID int64, filter models.HistoryFilter) ([]models.HistoryRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing history: user_id=%d limit=%d offset=%d", userID, filter.Limit, filter.Offset)

	if err := s.validate.Struct(filter); err != nil {
		return nil, errors.NewValidationError("filter", err.Error())
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, errors.NewValidationError("date_from", "must not be after date_to")
	}
	if filter.Limit == 0 {
		filter.Limit = models.DefaultHistoryLimit
	}

	records, err := s.reader.ListHistory(ctx, userID, filter)
	if err != nil {
		log.Warn("failed to list history: %v", err)
		return nil, err
	}
	return records, nil
}

func (s *historyService) Recent(ctx context.Context, userID int64) ([]models.RecentQuestion, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing recent questions: user_id=%d", userID)

	questions, err := s.reader.RecentQuestions(ctx, userID)
	if err != nil {
		log.Warn("failed to list recent questions: %v", err)
		return nil, err
	}
	return questions, nil
}
