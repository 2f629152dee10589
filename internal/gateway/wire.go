package gateway

import (
	"time"

	"github.com/vytor/mathcat/internal/models"
)

// Request and response bodies as the backend spells them.

type loginReq struct {
	ChineseName string `json:"chinese_name"`
	EnglishName string `json:"english_name"`
	ClassName   string `json:"class_name"`
}

type loginResp struct {
	UserID      int64  `json:"userId" validate:"required"`
	ChineseName string `json:"chinese_name"`
	EnglishName string `json:"english_name"`
	ClassName   string `json:"class_name"`
	TotalScore  int    `json:"total_score"`
}

func (r loginResp) model() *models.Identity {
	return &models.Identity{
		UserID:     r.UserID,
		Name:       r.ChineseName,
		AltName:    r.EnglishName,
		ClassLabel: r.ClassName,
		TotalScore: r.TotalScore,
	}
}

type generateReq struct {
	UserID          int64  `json:"userId"`
	Topic           string `json:"topic"`
	DifficultyLevel string `json:"difficultyLevel"`
}

type questionResp struct {
	QuestionID      string `json:"questionId" validate:"required"`
	Topic           string `json:"topic"`
	DifficultyLevel string `json:"difficultyLevel"`
	ExpressionText  string `json:"expressionText" validate:"required"`
	ExpressionLatex string `json:"expressionLatex"`
	DifficultyScore int    `json:"difficultyScore"`
}

func (r questionResp) model() *models.Question {
	display := r.ExpressionLatex
	if display == "" {
		display = r.ExpressionText
	}
	return &models.Question{
		QuestionID:      r.QuestionID,
		Topic:           r.Topic,
		DifficultyLevel: r.DifficultyLevel,
		CanonicalText:   r.ExpressionText,
		DisplayForm:     display,
		DifficultyScore: r.DifficultyScore,
	}
}

type batchReq struct {
	Count      int    `json:"count"`
	Difficulty string `json:"difficulty,omitempty"`
}

type batchQuestionResp struct {
	questionResp
	SolutionExpression string `json:"solutionExpression"`
}

type batchResp struct {
	Questions []batchQuestionResp `json:"questions" validate:"dive"`
}

type checkReq struct {
	UserID          int64  `json:"userId"`
	QuestionID      string `json:"questionId"`
	ExpressionText  string `json:"expressionText"`
	Topic           string `json:"topic"`
	DifficultyLevel string `json:"difficultyLevel"`
	UserAnswer      string `json:"userAnswer"`
}

type checkResp struct {
	IsCorrect          bool    `json:"isCorrect"`
	DifficultyScore    int     `json:"difficultyScore"`
	ScoreChange        int     `json:"scoreChange"`
	NewTotalScore      int     `json:"newTotalScore"`
	AttemptCount       int     `json:"attemptCount" validate:"min=1"`
	SolutionExpression *string `json:"solutionExpression"`
}

func (r checkResp) model() *models.Verdict {
	v := &models.Verdict{
		IsCorrect:       r.IsCorrect,
		DifficultyScore: r.DifficultyScore,
		ScoreChange:     r.ScoreChange,
		NewTotalScore:   r.NewTotalScore,
		AttemptCount:    r.AttemptCount,
	}
	if r.SolutionExpression != nil {
		v.Solution = *r.SolutionExpression
	}
	return v
}

type historyReq struct {
	UserID        int64   `json:"user_id"`
	QuestionText  string  `json:"question_text"`
	UserAnswer    string  `json:"user_answer"`
	Score         int     `json:"score"`
	CorrectAnswer *string `json:"correct_answer"`
}

type historyResp struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	QuestionText  string    `json:"question_text"`
	UserAnswer    string    `json:"user_answer"`
	Score         int       `json:"score"`
	CorrectAnswer *string   `json:"correct_answer"`
	CreatedAt     time.Time `json:"created_at"`
}

func (r historyResp) model() models.HistoryRecord {
	return models.HistoryRecord{
		ID:            r.ID,
		UserID:        r.UserID,
		QuestionText:  r.QuestionText,
		AnswerText:    r.UserAnswer,
		ScoreDelta:    r.Score,
		CorrectAnswer: r.CorrectAnswer,
		CreatedAt:     r.CreatedAt,
	}
}

type recentResp struct {
	Questions []struct {
		QuestionID     string    `json:"questionId"`
		ExpressionText string    `json:"expressionText"`
		CreatedAt      time.Time `json:"createdAt"`
	} `json:"questions"`
}

type foodItem struct {
	FoodID      string `json:"foodId" validate:"required"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price" validate:"min=0"`
	Image       string `json:"image"`
}

type foodListResp struct {
	Foods []foodItem `json:"foods" validate:"dive"`
}

type buyReq struct {
	UserID int64  `json:"userId"`
	FoodID string `json:"foodId"`
}

type buyResp struct {
	Success         bool `json:"success"`
	NewTotalScore   int  `json:"newTotalScore"`
	CurrentCatStage int  `json:"currentCatStage"`
}

type summaryResp struct {
	UserID          int64 `json:"userId"`
	TotalScore      int   `json:"totalScore"`
	CatScore        int   `json:"catScore"`
	CurrentCatStage int   `json:"currentCatStage" validate:"min=0,max=4"`
	NextStageScore  int   `json:"nextStageScore"`
}

func (r summaryResp) model() *models.Summary {
	return &models.Summary{
		UserID:             r.UserID,
		TotalScore:         r.TotalScore,
		RewardScore:        r.CatScore,
		CurrentStage:       r.CurrentCatStage,
		NextStageThreshold: r.NextStageScore,
	}
}

type errorResp struct {
	Detail any `json:"detail"`
}
