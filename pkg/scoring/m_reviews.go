package scoring

import "fmt"

// ReviewCountIndicator rewards review volume.
type ReviewCountIndicator struct{}

func (r *ReviewCountIndicator) Key() string  { return KeyReviewCount }
func (r *ReviewCountIndicator) Name() string { return "리뷰 수" }

func (r *ReviewCountIndicator) Evaluate(in Input) IndicatorResult {
	n := in.ReviewCount
	score := 20
	switch {
	case n >= 1000:
		score = 100
	case n >= 500:
		score = 80
	case n >= 100:
		score = 60
	case n >= 50:
		score = 40
	}
	return IndicatorResult{Score: score, Summary: fmt.Sprintf("리뷰 %d개", n)}
}
