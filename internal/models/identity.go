package models

// Identity is the logged-in learner and the last score the server confirmed.
type Identity struct {
	UserID     int64  `json:"user_id"`
	Name       string `json:"name"`
	AltName    string `json:"alt_name"`
	ClassLabel string `json:"class_label"`
	TotalScore int    `json:"total_score"`
}

// WithScore returns a copy of the identity carrying score.
func (i Identity) WithScore(score int) Identity {
	i.TotalScore = score
	return i
}

type LoginRequest struct {
	Name       string `json:"name" validate:"required,max=64"`
	AltName    string `json:"alt_name" validate:"required,max=64"`
	ClassLabel string `json:"class_label" validate:"required,max=64"`
}
