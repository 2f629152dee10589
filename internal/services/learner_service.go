package services

import (
	"context"
	"strings"
	"sync"

	"github.com/vytor/mathcat/internal/errors"
	"github.com/vytor/mathcat/internal/gateway"
	"github.com/vytor/mathcat/internal/identity"
	"github.com/vytor/mathcat/internal/jobs"
	"github.com/vytor/mathcat/internal/ledger"
	"github.com/vytor/mathcat/internal/logger"
	"github.com/vytor/mathcat/internal/models"
	"github.com/vytor/mathcat/internal/schedule"
	"github.com/vytor/mathcat/internal/scoresync"
	"github.com/vytor/mathcat/internal/session"
)

// Learner bundles the per-learner components. They share one score
// synchronizer, so every score change goes through the same path.
type Learner struct {
	UserID   int64
	Scores   *scoresync.Synchronizer
	Practice *session.Controller
	Rewards  *ledger.Ledger
}

func (l *Learner) close() {
	l.Practice.Close()
	l.Rewards.Close()
	l.Scores.Close()
}

// LearnerService handles the learner lifecycle: restoring the stored identity,
// login, logout, and teardown.
type LearnerService interface {
	Restore(ctx context.Context) (*Learner, error)
	Login(ctx context.Context, req models.LoginRequest) (*Learner, error)
	Logout(ctx context.Context) error
	Active() *Learner
	Identity() *models.Identity
	Close()
}

type learnerService struct {
	mu      sync.Mutex
	store   *identity.Store
	client  gateway.ClientInterface
	history jobs.HistoryQueue
	sched   schedule.Scheduler
	active  *Learner
}

// NewLearnerService creates a new LearnerService
func NewLearnerService(store *identity.Store, client gateway.ClientInterface, history jobs.HistoryQueue, sched schedule.Scheduler) LearnerService {
	if sched == nil {
		sched = schedule.Real{}
	}
	return &learnerService{
		store:   store,
		client:  client,
		history: history,
		sched:   sched,
	}
}

func (s *learnerService) Restore(ctx context.Context) (*Learner, error) {
	log := logger.FromContext(ctx)

	id, err := s.store.Load(ctx)
	if err != nil {
		log.Error("failed to restore identity: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if id == nil {
		log.Debug("no stored identity")
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activateLocked(*id), nil
}

func (s *learnerService) Login(ctx context.Context, req models.LoginRequest) (*Learner, error) {
	log := logger.FromContext(ctx)

	name := strings.TrimSpace(req.Name)
	altName := strings.TrimSpace(req.AltName)
	class := strings.TrimSpace(req.ClassLabel)
	switch {
	case name == "":
		return nil, errors.NewValidationError("name", "cannot be empty")
	case altName == "":
		return nil, errors.NewValidationError("alt_name", "cannot be empty")
	case class == "":
		return nil, errors.NewValidationError("class_label", "cannot be empty")
	}

	log.Debug("logging in: class=%s", class)
	id, err := s.client.Login(ctx, name, altName, class)
	if err != nil {
		log.Warn("login failed: %v", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, *id); err != nil {
		return nil, errors.NewInternalError(err)
	}
	log.Info("learner logged in: user_id=%d", id.UserID)
	return s.activateLocked(*id), nil
}

func (s *learnerService) activateLocked(id models.Identity) *Learner {
	if s.active != nil {
		s.active.close()
	}

	scores := scoresync.New(id.UserID, s.client,
		scoresync.WithScheduler(s.sched),
		scoresync.WithMirror(s.store),
		scoresync.WithCachedScore(id.TotalScore),
	)
	practiceOpts := []session.Option{session.WithScheduler(s.sched)}
	if s.history != nil {
		practiceOpts = append(practiceOpts, session.WithHistory(s.history))
	}

	s.active = &Learner{
		UserID:   id.UserID,
		Scores:   scores,
		Practice: session.NewController(id.UserID, s.client, scores, practiceOpts...),
		Rewards:  ledger.New(id.UserID, s.client, scores, ledger.WithScheduler(s.sched)),
	}
	return s.active
}

// Logout erases the stored identity first; the active learner is only torn
// down once that succeeded.
func (s *learnerService) Logout(ctx context.Context) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(ctx); err != nil {
		return errors.NewInternalError(err)
	}
	if s.active != nil {
		log.Info("learner logged out: user_id=%d", s.active.UserID)
		s.active.close()
		s.active = nil
	}
	return nil
}

func (s *learnerService) Active() *Learner {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *learnerService) Identity() *models.Identity {
	return s.store.Current()
}

// Close cancels every pending timer of the active learner.
func (s *learnerService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.close()
		s.active = nil
	}
}
