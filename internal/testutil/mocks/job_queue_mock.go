package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/mathcat/internal/models"
)

// MockHistoryQueue is a mock implementation of jobs.HistoryQueue
type MockHistoryQueue struct {
	mock.Mock
}

func (m *MockHistoryQueue) EnqueueHistory(entry models.HistoryEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}
