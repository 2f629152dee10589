package scoresync

// Direction is the transient change signal shown next to the score.
type Direction string

const (
	None Direction = ""
	Up   Direction = "up"
	Down Direction = "down"
)

// Compare returns the direction from prior to next. A nil prior means there is
// no earlier observation to compare against.
func Compare(prior *int, next int) Direction {
	switch {
	case prior == nil || *prior == next:
		return None
	case next > *prior:
		return Up
	default:
		return Down
	}
}
