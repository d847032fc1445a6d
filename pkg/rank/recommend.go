package rank

import (
	"fmt"
	"sort"
	"strings"

	"github.com/safetable/safetable/pkg/restaurant"
	"github.com/safetable/safetable/pkg/scoring"
)

// Priority selects how trust-score weights are re-weighted.
type Priority string

const (
	PriorityHygiene  Priority = "hygiene"
	PriorityRating   Priority = "rating"
	PriorityBalanced Priority = "balanced"
)

// EmphasisFactor multiplies the weights a priority favors.
const EmphasisFactor = 2.0

// Recommendation limits.
const (
	DefaultLimit = 5
	MaxLimit     = 10
)

// ParsePriority validates a priority name. Empty selects balanced.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityBalanced, nil
	case PriorityHygiene, PriorityRating, PriorityBalanced:
		return p, nil
	default:
		return "", fmt.Errorf("unknown priority %q", s)
	}
}

// ClampLimit maps a requested limit into 1..MaxLimit; zero or negative
// selects DefaultLimit.
func ClampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultLimit
	case n > MaxLimit:
		return MaxLimit
	default:
		return n
	}
}

// Weights returns the profile weights re-weighted for the priority.
func Weights(base scoring.Weights, p Priority) scoring.Weights {
	switch p {
	case PriorityHygiene:
		return base.Emphasize(EmphasisFactor, scoring.KeyHygieneGrade, scoring.KeyViolationHistory)
	case PriorityRating:
		return base.Emphasize(EmphasisFactor, scoring.KeyRating, scoring.KeyReviewCount)
	default:
		return base.Normalize()
	}
}

// Recommendation is one ranked entity.
type Recommendation struct {
	Rank   int                       `json:"rank"`
	Entity *restaurant.UnifiedEntity `json:"entity"`
	Score  int                       `json:"score"`
	Grade  scoring.Grade             `json:"grade"`
	Reason string                    `json:"reason"`
	Result *scoring.TrustScoreResult `json:"-"`
}

// RecommendOptions control ranking.
type RecommendOptions struct {
	Priority Priority
	Limit    int
}

// Recommend ranks entities by their priority-weighted composite score,
// highest first, keeping input order among equals, and truncates to the
// clamped limit.
func Recommend(engine *scoring.Engine, entities []*restaurant.UnifiedEntity, opts RecommendOptions) []Recommendation {
	w := Weights(engine.Profile().Weights, opts.Priority)
	recs := make([]Recommendation, 0, len(entities))
	for _, e := range entities {
		res := engine.ScoreWith(scoring.FromEntity(e), w)
		recs = append(recs, Recommendation{
			Entity: e,
			Score:  res.Score,
			Grade:  res.Grade,
			Reason: Reason(e, res),
			Result: res,
		})
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })

	if limit := ClampLimit(opts.Limit); len(recs) > limit {
		recs = recs[:limit]
	}
	for i := range recs {
		recs[i].Rank = i + 1
	}
	return recs
}

// reasonFloor is the sub-score an indicator needs to be worth citing.
const reasonFloor = 60

// Reason names the entity's strongest indicator. Earlier indicators win ties.
func Reason(e *restaurant.UnifiedEntity, res *scoring.TrustScoreResult) string {
	best := -1
	for i, d := range res.Details {
		if best < 0 || d.Score > res.Details[best].Score {
			best = i
		}
	}
	if best < 0 || res.Details[best].Score < reasonFloor {
		return fmt.Sprintf("종합 신뢰도 %d점이에요", res.Score)
	}

	switch res.Details[best].Key {
	case scoring.KeyHygieneGrade:
		return fmt.Sprintf("위생등급 %s(%s) 업소예요", e.Hygiene.Grade, e.Hygiene.Label)
	case scoring.KeyViolationHistory:
		return "최근 3년간 행정처분 이력이 없어요"
	case scoring.KeyBusinessDuration:
		if e.BusinessYears != nil {
			return fmt.Sprintf("%d년 넘게 영업 중인 곳이에요", int(*e.BusinessYears))
		}
	case scoring.KeyRating:
		return fmt.Sprintf("평점 %.1f점으로 평가가 좋아요", e.CombinedRating)
	case scoring.KeyReviewCount:
		return fmt.Sprintf("리뷰 %d개로 검증된 곳이에요", e.ReviewCount)
	case scoring.KeyFranchise:
		return "프랜차이즈라 품질이 일정해요"
	case scoring.KeyCertification:
		return "위생 인증을 받은 업소예요"
	}
	return res.Details[best].Summary
}
