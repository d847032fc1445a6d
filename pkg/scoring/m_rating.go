package scoring

import (
	"fmt"
	"math"
)

// RatingIndicator maps a 0-5 rating linearly onto 0-100.
type RatingIndicator struct{}

func (r *RatingIndicator) Key() string  { return KeyRating }
func (r *RatingIndicator) Name() string { return "평점" }

func (r *RatingIndicator) Evaluate(in Input) IndicatorResult {
	if in.Rating == nil {
		return IndicatorResult{Score: 50, Summary: "평점 정보 없음"}
	}
	score := int(math.Floor(*in.Rating*20 + 0.5))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return IndicatorResult{Score: score, Summary: fmt.Sprintf("평점 %.1f", *in.Rating)}
}
