// Package tier maps a reward score to the pet's growth stage.
//
// The stage thresholds live here and nowhere else; every surface that shows a
// stage must go through Of.
package tier

import "fmt"

const (
	MinStage = 1
	MaxStage = 4
)

// upperBounds[i] is the highest score that still belongs to stage i+1.
var upperBounds = [MaxStage - 1]int{50, 150, 300}

// Tier is the stage for a score and the points still needed to reach the next one.
type Tier struct {
	Stage           int `json:"stage"`
	RemainingToNext int `json:"remaining_to_next"`
}

// Of returns the tier for score. It is total: any int, negative included, maps
// to a stage. RemainingToNext is zero only at the final stage.
func Of(score int) Tier {
	for i, bound := range upperBounds {
		if score <= bound {
			return Tier{Stage: i + 1, RemainingToNext: bound + 1 - score}
		}
	}
	return Tier{Stage: MaxStage, RemainingToNext: 0}
}

// NextThreshold is the score at which the next stage starts, or score itself
// once the final stage is reached.
func NextThreshold(score int) int {
	t := Of(score)
	if t.Stage == MaxStage {
		return score
	}
	return score + t.RemainingToNext
}

// IsFinal reports whether t is the last stage.
func (t Tier) IsFinal() bool {
	return t.Stage == MaxStage
}

// Label is the display name for a stage.
func Label(stage int) string {
	switch clamp(stage) {
	case 1:
		return "Stage 1 · Kitten"
	case 2:
		return "Stage 2 · Young cat"
	case 3:
		return "Stage 3 · Strong cat"
	default:
		return "Stage 4 · Ultimate cat"
	}
}

// ImageRef is the asset path for a stage.
func ImageRef(stage int) string {
	return fmt.Sprintf("/images/cat-stage-%d.gif", clamp(stage))
}

func clamp(stage int) int {
	if stage < MinStage {
		return MinStage
	}
	if stage > MaxStage {
		return MaxStage
	}
	return stage
}
