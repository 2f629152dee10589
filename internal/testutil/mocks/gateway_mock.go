package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/mathcat/internal/models"
)

// MockGateway is a mock implementation of gateway.ClientInterface
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) GenerateQuestion(ctx context.Context, userID int64, topic, difficultyLevel string) (*models.Question, error) {
	args := m.Called(ctx, userID, topic, difficultyLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockGateway) GenerateBatch(ctx context.Context, count int, difficultyLevel string) ([]models.BatchQuestion, error) {
	args := m.Called(ctx, count, difficultyLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BatchQuestion), args.Error(1)
}

func (m *MockGateway) CheckAnswer(ctx context.Context, userID int64, sub models.AnswerSubmission) (*models.Verdict, error) {
	args := m.Called(ctx, userID, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Verdict), args.Error(1)
}

func (m *MockGateway) AppendHistory(ctx context.Context, entry models.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockGateway) ListHistory(ctx context.Context, userID int64, filter models.HistoryFilter) ([]models.HistoryRecord, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HistoryRecord), args.Error(1)
}

func (m *MockGateway) RecentQuestions(ctx context.Context, userID int64) ([]models.RecentQuestion, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RecentQuestion), args.Error(1)
}

func (m *MockGateway) ListItems(ctx context.Context) ([]models.CatalogItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CatalogItem), args.Error(1)
}

func (m *MockGateway) Purchase(ctx context.Context, userID int64, itemID string) (*models.PurchaseResult, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseResult), args.Error(1)
}

func (m *MockGateway) GetSummary(ctx context.Context, userID int64) (*models.Summary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Summary), args.Error(1)
}

func (m *MockGateway) Login(ctx context.Context, name, altName, classLabel string) (*models.Identity, error) {
	args := m.Called(ctx, name, altName, classLabel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}
