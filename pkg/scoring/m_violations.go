package scoring

import "fmt"

// ViolationHistoryIndicator penalizes administrative actions in the last
// three years.
type ViolationHistoryIndicator struct{}

func (v *ViolationHistoryIndicator) Key() string  { return KeyViolationHistory }
func (v *ViolationHistoryIndicator) Name() string { return "행정처분 이력" }

func (v *ViolationHistoryIndicator) Evaluate(in Input) IndicatorResult {
	switch {
	case in.ViolationCount <= 0:
		return IndicatorResult{Score: 100, Summary: "최근 3년 행정처분 없음"}
	case in.ViolationCount == 1:
		return IndicatorResult{Score: 60, Summary: "최근 3년 행정처분 1건"}
	default:
		return IndicatorResult{Score: 20, Summary: fmt.Sprintf("최근 3년 행정처분 %d건", in.ViolationCount)}
	}
}
