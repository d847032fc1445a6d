package scoring

import (
	"fmt"

	"github.com/safetable/safetable/pkg/restaurant"
)

// HygieneGradeIndicator scores the official hygiene grade.
type HygieneGradeIndicator struct{}

func (h *HygieneGradeIndicator) Key() string  { return KeyHygieneGrade }
func (h *HygieneGradeIndicator) Name() string { return "위생등급" }

func (h *HygieneGradeIndicator) Evaluate(in Input) IndicatorResult {
	g := gradeOf(in)
	if !g.HasGrade {
		return IndicatorResult{Score: 40, Summary: restaurant.NoGradeLabel}
	}
	score := 60
	switch g.Stars {
	case 3:
		score = 100
	case 2:
		score = 80
	}
	return IndicatorResult{Score: score, Summary: fmt.Sprintf("위생등급 %s (%s)", g.Grade, g.Label)}
}

func gradeOf(in Input) restaurant.HygieneGrade {
	if in.HygieneGrade == nil {
		return restaurant.HygieneGrade{Label: restaurant.NoGradeLabel}
	}
	return restaurant.ParseGrade(*in.HygieneGrade)
}
