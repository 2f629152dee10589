package session

import (
	"fmt"

	"github.com/vytor/mathcat/internal/models"
)

// MaxAttempts is how many answers one question accepts.
const MaxAttempts = 3

type Status string

const (
	StatusIdle      Status = "idle"
	StatusCorrect   Status = "correct"
	StatusExhausted Status = "exhausted"
)

// AttemptState is the answer state for the loaded question.
type AttemptState struct {
	Status             Status `json:"status"`
	AttemptCount       int    `json:"attempt_count"`
	LastFeedback       string `json:"last_feedback,omitempty"`
	LastScoreDelta     int    `json:"last_score_delta"`
	ScoreBeforeAttempt int    `json:"score_before_attempt"`
	RevealedSolution   string `json:"revealed_solution,omitempty"`
}

// Initial is the state of a freshly loaded question.
func Initial() AttemptState {
	return AttemptState{Status: StatusIdle}
}

// Terminal reports whether the state accepts no more answers.
func (s AttemptState) Terminal() bool {
	return s.Status == StatusCorrect || s.Status == StatusExhausted
}

// AttemptsLeft is never negative.
func (s AttemptState) AttemptsLeft() int {
	if left := MaxAttempts - s.AttemptCount; left > 0 {
		return left
	}
	return 0
}

// Transition folds one verdict into the state. A terminal state is returned
// unchanged. The attempt count never goes down and never passes MaxAttempts,
// whatever the verdict reports.
func Transition(state AttemptState, v models.Verdict, scoreBefore int) AttemptState {
	if state.Terminal() {
		return state
	}

	count := v.AttemptCount
	if count > MaxAttempts {
		count = MaxAttempts
	}
	if count < state.AttemptCount {
		count = state.AttemptCount
	}

	next := AttemptState{
		Status:             StatusIdle,
		AttemptCount:       count,
		LastScoreDelta:     v.ScoreChange,
		ScoreBeforeAttempt: scoreBefore,
	}
	switch {
	case v.IsCorrect:
		next.Status = StatusCorrect
	case count >= MaxAttempts:
		next.Status = StatusExhausted
		next.RevealedSolution = v.Solution
	}
	next.LastFeedback = Feedback(v.IsCorrect, v.ScoreChange, next.AttemptsLeft())
	return next
}

// Feedback is the message shown after an attempt.
func Feedback(correct bool, delta, attemptsLeft int) string {
	if correct {
		if delta > 0 {
			return fmt.Sprintf("Correct! +%d points", delta)
		}
		return fmt.Sprintf("Correct! %d points", delta)
	}
	impact := "no points deducted"
	if delta < 0 {
		impact = fmt.Sprintf("%d points deducted", -delta)
	}
	return fmt.Sprintf("Wrong answer, %s. %d attempts left", impact, attemptsLeft)
}
