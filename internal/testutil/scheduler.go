package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/vytor/mathcat/internal/schedule"
)

// ManualScheduler is a schedule.Scheduler driven by Advance instead of the wall clock.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	nextID  int
	pending map[int]*manualTask
}

type manualTask struct {
	id int
	at time.Duration
	fn func()
}

var _ schedule.Scheduler = (*ManualScheduler)(nil)

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: map[int]*manualTask{}}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) schedule.Cancel {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.pending[id] = &manualTask{id: id, at: s.now + d, fn: fn}
	return func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
	}
}

// Advance moves time forward and runs every callback that came due, in order.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*manualTask
	for id, task := range s.pending {
		if task.at <= s.now {
			due = append(due, task)
			delete(s.pending, id)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at == due[j].at {
			return due[i].id < due[j].id
		}
		return due[i].at < due[j].at
	})
	for _, task := range due {
		task.fn()
	}
}

// Pending returns how many callbacks are still scheduled.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
