// Package scoresync holds the authoritative score for the active learner.
package scoresync

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/mathcat/internal/gateway"
	"github.com/vytor/mathcat/internal/logger"
	"github.com/vytor/mathcat/internal/models"
	"github.com/vytor/mathcat/internal/schedule"
	"github.com/vytor/mathcat/internal/tier"
)

// DirectionWindow is how long a direction signal stays visible.
const DirectionWindow = 2000 * time.Millisecond

// ScoreMirror receives every confirmed score. The identity store satisfies it.
type ScoreMirror interface {
	ReplaceScore(ctx context.Context, score int) error
}

// Synchronizer owns the single score value the learner sees. Every value it
// holds came from a server response.
type Synchronizer struct {
	mu        sync.RWMutex
	mirrorMu  sync.Mutex
	userID    int64
	summaries gateway.SummaryService
	mirror    ScoreMirror
	score     int
	observed  bool
	summary   *models.Summary
	seq       uint64
	closed    bool
	direction *schedule.Pulse[Direction]
	log       *logger.Logger
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithScheduler sets the scheduler used for the direction reset.
func WithScheduler(sched schedule.Scheduler) Option {
	return func(s *Synchronizer) {
		s.direction = schedule.NewPulse[Direction](sched, DirectionWindow)
	}
}

// WithMirror sets where confirmed scores are copied to.
func WithMirror(m ScoreMirror) Option {
	return func(s *Synchronizer) {
		s.mirror = m
	}
}

// WithCachedScore shows score until the first server observation arrives. It
// does not count as an observation, so the first refresh has no direction.
func WithCachedScore(score int) Option {
	return func(s *Synchronizer) {
		s.score = score
	}
}

func New(userID int64, summaries gateway.SummaryService, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		userID:    userID,
		summaries: summaries,
		direction: schedule.NewPulse[Direction](schedule.Real{}, DirectionWindow),
		log:       logger.Default().WithPrefix("scoresync").WithField("user_id", userID),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh pulls the summary and replaces the held value. When refreshes
// overlap, or Apply lands while one is in flight, only the newest wins.
func (s *Synchronizer) Refresh(ctx context.Context) (*models.Summary, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	summary, err := s.summaries.GetSummary(ctx, s.userID)
	if err != nil {
		s.log.Warn("summary refresh failed: %v", err)
		return nil, err
	}

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		s.log.Debug("dropping superseded summary: total_score=%d", summary.TotalScore)
		return s.Summary(), nil
	}
	v := *summary
	s.summary = &v
	s.observeLocked(v.TotalScore)
	s.mu.Unlock()

	s.mirrorScore(ctx, v.TotalScore, seq)
	return &v, nil
}

// Apply sets the score from a value another operation already returned.
func (s *Synchronizer) Apply(ctx context.Context, score int) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	if s.summary != nil {
		s.summary.TotalScore = score
	}
	s.observeLocked(score)
	s.mu.Unlock()

	s.mirrorScore(ctx, score, seq)
}

func (s *Synchronizer) observeLocked(score int) {
	var prior *int
	if s.observed {
		p := s.score
		prior = &p
	}
	s.score = score
	s.observed = true
	switch d := Compare(prior, score); {
	case d != None:
		s.direction.Set(d)
	case prior != nil:
		s.direction.Clear()
	}
}

// mirrorScore copies score into the mirror if it is still the newest
// observation. Writes are serialized so an older score never lands last.
func (s *Synchronizer) mirrorScore(ctx context.Context, score int, seq uint64) {
	if s.mirror == nil {
		return
	}
	s.mirrorMu.Lock()
	defer s.mirrorMu.Unlock()

	s.mu.RLock()
	skip := s.closed || seq != s.seq
	s.mu.RUnlock()
	if skip {
		return
	}
	if err := s.mirror.ReplaceScore(ctx, score); err != nil {
		s.log.Warn("failed to mirror score %d into identity: %v", score, err)
	}
}

// Score is the last server-confirmed total.
func (s *Synchronizer) Score() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.score
}

// Summary returns a copy of the last summary, or nil before the first refresh.
func (s *Synchronizer) Summary() *models.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.summary == nil {
		return nil
	}
	v := *s.summary
	return &v
}

// Direction is the current change signal. It clears on its own.
func (s *Synchronizer) Direction() Direction {
	return s.direction.Get()
}

// Tier is the reward stage for the summary's reward score. Before the first
// summary arrives it falls back to the held total.
func (s *Synchronizer) Tier() tier.Tier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.summary != nil {
		return tier.Of(s.summary.RewardScore)
	}
	return tier.Of(s.score)
}

// Close cancels the pending direction reset and stops mirroring, so a late
// result cannot write into an identity that has since changed.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.direction.Stop()
}
