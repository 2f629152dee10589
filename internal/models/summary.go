package models

// Summary is the server's view of a learner's balance and reward progress.
type Summary struct {
	UserID             int64 `json:"user_id"`
	TotalScore         int   `json:"total_score"`
	RewardScore        int   `json:"reward_score"`
	CurrentStage       int   `json:"current_stage"`
	NextStageThreshold int   `json:"next_stage_threshold"`
}
