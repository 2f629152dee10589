package jobs

import "github.com/vytor/mathcat/internal/models"

// HistoryQueue accepts history appends to run in the background.
type HistoryQueue interface {
	EnqueueHistory(entry models.HistoryEntry) error
}
