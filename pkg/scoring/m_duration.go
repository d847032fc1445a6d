package scoring

import "fmt"

// BusinessDurationIndicator rewards long-running businesses.
type BusinessDurationIndicator struct{}

func (b *BusinessDurationIndicator) Key() string  { return KeyBusinessDuration }
func (b *BusinessDurationIndicator) Name() string { return "영업 기간" }

func (b *BusinessDurationIndicator) Evaluate(in Input) IndicatorResult {
	if in.BusinessYears == nil {
		return IndicatorResult{Score: 50, Summary: "영업 기간 정보 없음"}
	}
	y := *in.BusinessYears
	score := 20
	switch {
	case y >= 10:
		score = 100
	case y >= 5:
		score = 80
	case y >= 3:
		score = 60
	case y >= 1:
		score = 40
	}
	return IndicatorResult{Score: score, Summary: fmt.Sprintf("영업 %.1f년", y)}
}
