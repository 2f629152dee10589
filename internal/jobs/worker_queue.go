package jobs

import (
	"context"

	"github.com/vytor/mathcat/internal/gateway"
	"github.com/vytor/mathcat/internal/models"
	"github.com/vytor/mathcat/internal/worker"
)

// AppendHistoryJob sends one attempt to the history sink.
type AppendHistoryJob struct {
	Sink  gateway.HistorySink
	Entry models.HistoryEntry
}

func (j *AppendHistoryJob) Name() string { return "append_history" }

func (j *AppendHistoryJob) Run(ctx context.Context) error {
	return j.Sink.AppendHistory(ctx, j.Entry)
}

// WorkerQueue implements HistoryQueue on a worker pool.
type WorkerQueue struct {
	pool *worker.Pool
	sink gateway.HistorySink
}

func NewWorkerQueue(pool *worker.Pool, sink gateway.HistorySink) HistoryQueue {
	return &WorkerQueue{pool: pool, sink: sink}
}

func (q *WorkerQueue) EnqueueHistory(entry models.HistoryEntry) error {
	return q.pool.Submit(&AppendHistoryJob{Sink: q.sink, Entry: entry})
}
