package models

// Question is one generated exercise. It is replaced wholesale on every fetch.
type Question struct {
	QuestionID      string `json:"question_id"`
	Topic           string `json:"topic"`
	DifficultyLevel string `json:"difficulty_level"`
	CanonicalText   string `json:"canonical_text"`
	DisplayForm     string `json:"display_form"`
	DifficultyScore int    `json:"difficulty_score"`
}

// AnswerSubmission is what the grading service needs to judge one attempt.
type AnswerSubmission struct {
	QuestionID      string
	CanonicalText   string
	Topic           string
	DifficultyLevel string
	AnswerText      string
}

// Verdict is the grading service's judgement of one attempt.
type Verdict struct {
	IsCorrect       bool   `json:"is_correct"`
	DifficultyScore int    `json:"difficulty_score"`
	ScoreChange     int    `json:"score_change"`
	NewTotalScore   int    `json:"new_total_score"`
	AttemptCount    int    `json:"attempt_count"`
	Solution        string `json:"solution,omitempty"`
}

type QuestionRequest struct {
	Topic           string `json:"topic" validate:"required,topic"`
	DifficultyLevel string `json:"difficulty_level" validate:"required,difficulty"`
}

type AnswerRequest struct {
	Answer string `json:"answer"`
}

// MaxBatchSize caps how many questions one batch request may ask for.
const MaxBatchSize = 20

// BatchQuestion is a generated exercise delivered together with its solution.
// Batches are for browsing and printing; they are never graded.
type BatchQuestion struct {
	Question
	Solution string `json:"solution"`
}

type BatchRequest struct {
	Count           int    `json:"count" validate:"required,min=1,max=20"`
	DifficultyLevel string `json:"difficulty_level,omitempty" validate:"omitempty,difficulty"`
}
