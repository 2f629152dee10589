package models

import "time"

// HistoryEntry is one answered attempt sent to the history sink.
type HistoryEntry struct {
	UserID        int64   `json:"user_id"`
	QuestionText  string  `json:"question_text"`
	AnswerText    string  `json:"answer_text"`
	ScoreDelta    int     `json:"score_delta"`
	CorrectAnswer *string `json:"correct_answer,omitempty"`
}

type HistoryRecord struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	QuestionText  string    `json:"question_text"`
	AnswerText    string    `json:"answer_text"`
	ScoreDelta    int       `json:"score_delta"`
	CorrectAnswer *string   `json:"correct_answer,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// HistoryFilter narrows a history listing. Zero values mean "no filter".
type HistoryFilter struct {
	Limit    int        `validate:"omitempty,min=1,max=100"`
	Offset   int        `validate:"min=0"`
	MinScore *int       `validate:"-"`
	DateFrom *time.Time `validate:"-"`
	DateTo   *time.Time `validate:"-"`
}

const DefaultHistoryLimit = 20

type RecentQuestion struct {
	QuestionID     string    `json:"question_id"`
	ExpressionText string    `json:"expression_text"`
	CreatedAt      time.Time `json:"created_at"`
}
