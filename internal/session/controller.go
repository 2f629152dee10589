// Package session runs the attempt-limited question and answer loop for one
// learner.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	apperrors "github.com/vytor/mathcat/internal/errors"
	"github.com/vytor/mathcat/internal/gateway"
	"github.com/vytor/mathcat/internal/jobs"
	"github.com/vytor/mathcat/internal/logger"
	"github.com/vytor/mathcat/internal/models"
	"github.com/vytor/mathcat/internal/schedule"
)

// RejectionWindow is how long the input shakes after a wrong answer.
const RejectionWindow = 600 * time.Millisecond

// ScoreKeeper is where confirmed scores go. The score synchronizer satisfies it.
type ScoreKeeper interface {
	Score() int
	Apply(ctx context.Context, score int)
}

// SubmitResult is the outcome of one checked answer. Stale is set when the
// question changed while the answer was being checked; the state then belongs
// to the new question and the verdict was not applied to it.
type SubmitResult struct {
	Verdict models.Verdict `json:"verdict"`
	State   AttemptState   `json:"state"`
	Stale   bool           `json:"stale"`
}

// View is a consistent snapshot of the controller.
type View struct {
	Question     *models.Question `json:"question"`
	State        AttemptState     `json:"state"`
	AttemptsLeft int              `json:"attempts_left"`
	Loading      bool             `json:"loading"`
	Submitting   bool             `json:"submitting"`
	Rejecting    bool             `json:"rejecting"`
	CanAdvance   bool             `json:"can_advance"`
	Error        string           `json:"error,omitempty"`
}

// Controller owns the loaded question and its AttemptState. Network calls run
// outside the lock; each result is checked against the question it was meant
// for before it is applied.
type Controller struct {
	mu         sync.Mutex
	userID     int64
	grader     gateway.GradingService
	scores     ScoreKeeper
	history    jobs.HistoryQueue
	question   *models.Question
	state      AttemptState
	generation uint64
	fetchSeq   uint64
	loading    bool
	submitting bool
	lastErr    string
	closed     bool
	rejection  *schedule.Pulse[bool]
	log        *logger.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler sets the scheduler driving the rejection pulse.
func WithScheduler(sched schedule.Scheduler) Option {
	return func(c *Controller) {
		c.rejection = schedule.NewPulse[bool](sched, RejectionWindow)
	}
}

// WithHistory sets the queue that receives each answered attempt.
func WithHistory(q jobs.HistoryQueue) Option {
	return func(c *Controller) {
		c.history = q
	}
}

func NewController(userID int64, grader gateway.GradingService, scores ScoreKeeper, opts ...Option) *Controller {
	c := &Controller{
		userID:    userID,
		grader:    grader,
		scores:    scores,
		state:     Initial(),
		rejection: schedule.NewPulse[bool](schedule.Real{}, RejectionWindow),
		log:       logger.Default().WithPrefix("session").WithField("user_id", userID),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartQuestion fetches a new question and resets the attempt state. An answer
// still being checked for the old question no longer blocks submission. On
// failure the current question stays as it was. If another StartQuestion
// began after this one, this result is discarded.
func (c *Controller) StartQuestion(ctx context.Context, topic, difficultyLevel string) (*models.Question, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, apperrors.NewPreconditionError("session is closed")
	}
	c.fetchSeq++
	seq := c.fetchSeq
	c.loading = true
	c.mu.Unlock()

	log := c.log.WithFields(map[string]any{"topic": topic, "difficulty": difficultyLevel})
	q, err := c.grader.GenerateQuestion(ctx, c.userID, topic, difficultyLevel)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		log.Debug("discarding question fetched after close")
		return nil, apperrors.NewPreconditionError("session is closed")
	}
	if seq != c.fetchSeq {
		log.Debug("discarding superseded question fetch")
		return nil, apperrors.NewConflictError("a newer question request replaced this one")
	}
	c.loading = false
	if err != nil {
		c.lastErr = apperrors.Message(err)
		log.Warn("failed to fetch question: %v", err)
		return nil, err
	}

	v := *q
	c.question = &v
	c.generation++
	c.state = Initial()
	c.submitting = false
	c.lastErr = ""
	c.rejection.Clear()
	log.Debug("question loaded: question_id=%s generation=%d", v.QuestionID, c.generation)
	out := v
	return &out, nil
}

// SubmitAnswer checks text against the loaded question. Precondition failures
// return a PRECONDITION_FAILED error and make no network call.
func (c *Controller) SubmitAnswer(ctx context.Context, text string) (*SubmitResult, error) {
	answer := strings.TrimSpace(text)

	c.mu.Lock()
	if err := c.submitBlockedLocked(answer); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.submitting = true
	generation := c.generation
	q := *c.question
	c.mu.Unlock()

	before := c.scores.Score()
	log := c.log.WithFields(map[string]any{"question_id": q.QuestionID, "generation": generation})

	verdict, err := c.grader.CheckAnswer(ctx, c.userID, models.AnswerSubmission{
		QuestionID:      q.QuestionID,
		CanonicalText:   q.CanonicalText,
		Topic:           q.Topic,
		DifficultyLevel: q.DifficultyLevel,
		AnswerText:      answer,
	})
	if err != nil {
		c.mu.Lock()
		if generation == c.generation {
			c.submitting = false
			c.lastErr = apperrors.Message(err)
		}
		c.mu.Unlock()
		log.Warn("answer check failed: %v", err)
		return nil, err
	}

	c.mu.Lock()
	closed := c.closed
	stale := generation != c.generation || closed
	if generation == c.generation {
		c.submitting = false
	}
	if !stale {
		c.state = Transition(c.state, *verdict, before)
		c.lastErr = ""
		if c.state.Status == StatusIdle && !verdict.IsCorrect {
			c.rejection.Set(true)
		}
	}
	result := &SubmitResult{Verdict: *verdict, State: c.state, Stale: stale}
	c.mu.Unlock()

	if stale {
		log.Info("question changed while checking; verdict not applied")
	}

	if !closed {
		c.scores.Apply(ctx, verdict.NewTotalScore)
	}
	c.recordHistory(log, q, answer, *verdict)
	return result, nil
}

func (c *Controller) submitBlockedLocked(answer string) error {
	switch {
	case c.closed:
		return apperrors.NewPreconditionError("session is closed")
	case c.question == nil:
		return apperrors.NewPreconditionError("no question is loaded")
	case c.state.Terminal():
		return apperrors.NewPreconditionError("this question is finished")
	case c.state.AttemptCount >= MaxAttempts:
		return apperrors.NewPreconditionError("no attempts left")
	case c.submitting:
		return apperrors.NewPreconditionError("an answer is already being checked")
	case answer == "":
		return apperrors.NewPreconditionError("answer is empty")
	}
	return nil
}

func (c *Controller) recordHistory(log *logger.Logger, q models.Question, answer string, v models.Verdict) {
	if c.history == nil {
		return
	}
	entry := models.HistoryEntry{
		UserID:       c.userID,
		QuestionText: q.CanonicalText,
		AnswerText:   answer,
		ScoreDelta:   v.ScoreChange,
	}
	if v.Solution != "" {
		solution := v.Solution
		entry.CorrectAnswer = &solution
	}
	if err := c.history.EnqueueHistory(entry); err != nil {
		log.Warn("dropping history entry: %v", err)
	}
}

// CanSubmit reports whether SubmitAnswer(text) would reach the grading service.
func (c *Controller) CanSubmit(text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitBlockedLocked(strings.TrimSpace(text)) == nil
}

// CanAdvance reports whether the loaded question is finished.
func (c *Controller) CanAdvance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Terminal()
}

func (c *Controller) State() AttemptState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Question returns a copy of the loaded question, or nil.
func (c *Controller) Question() *models.Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.question == nil {
		return nil
	}
	v := *c.question
	return &v
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	view := View{
		State:        c.state,
		AttemptsLeft: c.state.AttemptsLeft(),
		Loading:      c.loading,
		Submitting:   c.submitting,
		Rejecting:    c.rejection.Get(),
		CanAdvance:   c.state.Terminal(),
		Error:        c.lastErr,
	}
	if c.question != nil {
		q := *c.question
		view.Question = &q
	}
	return view
}

// Close cancels pending timers. Results arriving afterwards are not applied.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.loading = false
	c.rejection.Stop()
}
