// Package scoring implements the SafeTable trust scoring engine.
// It evaluates a restaurant's indicators and produces an explainable,
// deterministic 0-100 score with a letter grade.
package scoring

// TrustScoreResult is the complete output of scoring one restaurant.
// Immutable once computed.
type TrustScoreResult struct {
	Score           int               `json:"score"` // 0-100
	Grade           Grade             `json:"grade"` // A, B, C, D
	Message         string            `json:"message"`
	Profile         string            `json:"profile"`
	IndicatorScores map[string]int    `json:"indicator_scores"`
	Details         []IndicatorResult `json:"details"`
}

// IndicatorResult is the output of a single indicator.
type IndicatorResult struct {
	Key          string  `json:"key"`          // machine key: "hygiene_grade"
	Name         string  `json:"name"`         // human name: "위생등급"
	Score        int     `json:"score"`        // 0-100 sub-score
	Weight       float64 `json:"weight"`       // share of the final score
	Contribution float64 `json:"contribution"` // weight * score
	Summary      string  `json:"summary"`      // human-readable evidence
}

// Input is the set of raw indicator values for one restaurant.
type Input struct {
	HygieneGrade   *string  `json:"hygiene_grade"` // AAA, AA, A; nil when ungraded
	ViolationCount int      `json:"violation_count"`
	BusinessYears  *float64 `json:"business_years"`
	Rating         *float64 `json:"rating"` // 0-5
	ReviewCount    int      `json:"review_count"`
	IsFranchise    bool     `json:"is_franchise"`
	Certified      *bool    `json:"certified,omitempty"` // defaults to "has a hygiene grade"
}

// Grade is a letter grade, A best.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

var gradeMessages = map[Grade]string{
	GradeA: "안심하고 가세요",
	GradeB: "대체로 믿을 만해요",
	GradeC: "방문 전 확인이 필요해요",
	GradeD: "다른 곳을 추천해요",
}

// GradeFromScore maps a total score to a letter grade.
func GradeFromScore(score int) Grade {
	switch {
	case score >= 80:
		return GradeA
	case score >= 60:
		return GradeB
	case score >= 40:
		return GradeC
	default:
		return GradeD
	}
}

// Message returns the fixed user-facing message for the grade.
func (g Grade) Message() string { return gradeMessages[g] }

// Rank orders grades: A=4 down to D=1, 0 for unknown.
func (g Grade) Rank() int {
	switch g {
	case GradeA:
		return 4
	case GradeB:
		return 3
	case GradeC:
		return 2
	case GradeD:
		return 1
	default:
		return 0
	}
}
