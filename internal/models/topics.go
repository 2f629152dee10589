package models

type Topic struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Hint  string `json:"hint"`
}

type Difficulty struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var Topics = []Topic{
	{ID: "add_sub", Label: "Adding and subtracting polynomials", Hint: "Combine like terms; expand brackets before merging"},
	{ID: "mul_div", Label: "Multiplying and dividing monomials", Hint: "Cancel common factors first, then tidy the exponents"},
	{ID: "mixed_ops", Label: "Mixed polynomial operations", Hint: "Reduce first, then expand and combine like terms"},
	{ID: "factorization", Label: "Factorization", Hint: "Look for perfect squares, difference of squares and grouping"},
	{ID: "poly_ops", Label: "Polynomial operations", Hint: "Distribute carefully and keep terms in descending degree"},
}

var Difficulties = []Difficulty{
	{ID: "basic", Label: "Basic", Description: "0-33: degree one or two, few terms"},
	{ID: "intermediate", Label: "Intermediate", Description: "34-66: more terms and higher degree"},
	{ID: "advanced", Label: "Advanced", Description: "67-100: awkward coefficients or nesting"},
}

// IsTopic reports whether id names a known topic.
func IsTopic(id string) bool {
	for _, t := range Topics {
		if t.ID == id {
			return true
		}
	}
	return false
}

// IsDifficulty reports whether id names a known difficulty level.
func IsDifficulty(id string) bool {
	for _, d := range Difficulties {
		if d.ID == id {
			return true
		}
	}
	return false
}
