package gateway

import (
	"context"

	"github.com/vytor/mathcat/internal/models"
)

// GradingService generates exercises and judges answers.
type GradingService interface {
	GenerateQuestion(ctx context.Context, userID int64, topic, difficultyLevel string) (*models.Question, error)
	CheckAnswer(ctx context.Context, userID int64, sub models.AnswerSubmission) (*models.Verdict, error)
}

// QuestionBank hands out ready-made exercise sets with their solutions.
type QuestionBank interface {
	GenerateBatch(ctx context.Context, count int, difficultyLevel string) ([]models.BatchQuestion, error)
}

// HistorySink records answered attempts. Callers treat it as fire-and-forget.
type HistorySink interface {
	AppendHistory(ctx context.Context, entry models.HistoryEntry) error
}

// HistoryReader lists what the learner has done before.
type HistoryReader interface {
	ListHistory(ctx context.Context, userID int64, filter models.HistoryFilter) ([]models.HistoryRecord, error)
	RecentQuestions(ctx context.Context, userID int64) ([]models.RecentQuestion, error)
}

// CatalogService lists rewards and sells them for points.
type CatalogService interface {
	ListItems(ctx context.Context) ([]models.CatalogItem, error)
	Purchase(ctx context.Context, userID int64, itemID string) (*models.PurchaseResult, error)
}

// SummaryService reports the authoritative balance for a learner.
type SummaryService interface {
	GetSummary(ctx context.Context, userID int64) (*models.Summary, error)
}

// LoginService resolves a learner by name and class, creating one if needed.
type LoginService interface {
	Login(ctx context.Context, name, altName, classLabel string) (*models.Identity, error)
}

// ClientInterface is every remote operation the practice core consumes.
type ClientInterface interface {
	GradingService
	QuestionBank
	HistorySink
	HistoryReader
	CatalogService
	SummaryService
	LoginService
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
