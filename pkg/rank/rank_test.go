package rank_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetable/safetable/pkg/rank"
	"github.com/safetable/safetable/pkg/restaurant"
	"github.com/safetable/safetable/pkg/scoring"
)

func engine() *scoring.Engine { return scoring.NewEngine(scoring.SixIndicator()) }

// clean has a top hygiene grade but little popularity and a high price.
func clean() *restaurant.UnifiedEntity {
	return &restaurant.UnifiedEntity{
		ID:         "clean",
		Name:       "청결식당",
		Hygiene:    restaurant.ParseGrade("AAA"),
		Violations: restaurant.EmptyHistory(),
		PriceRange: "₩₩₩",
	}
}

// popular is ungraded with one violation but well reviewed and cheap.
func popular() *restaurant.UnifiedEntity {
	return &restaurant.UnifiedEntity{
		ID:             "popular",
		Name:           "인기맛집",
		Hygiene:        restaurant.ParseGrade(""),
		Violations:     restaurant.ViolationHistory{TotalCount: 1},
		CombinedRating: 4.8,
		HasRating:      true,
		ReviewCount:    1500,
		PriceRange:     "₩",
	}
}

func TestCompare(t *testing.T) {
	cmp := rank.Compare(engine(), []*restaurant.UnifiedEntity{clean(), popular()}, nil)
	require.NotNil(t, cmp)
	require.Len(t, cmp.Scores, 2)

	assert.Equal(t, 100, cmp.Scores[0].HygieneScore)
	assert.Equal(t, 40, cmp.Scores[0].PopularityScore)
	assert.Equal(t, 76, cmp.Scores[0].OverallScore)
	assert.Equal(t, 3, cmp.Scores[0].PriceTier)

	assert.Equal(t, 49, cmp.Scores[1].HygieneScore)
	assert.Equal(t, 97, cmp.Scores[1].PopularityScore)
	assert.Equal(t, 68, cmp.Scores[1].OverallScore)

	assert.Equal(t, "clean", cmp.BestHygiene)
	assert.Equal(t, "popular", cmp.BestRating)
	assert.Equal(t, "popular", cmp.BestValue)
	assert.Contains(t, cmp.Recommendation, "위생은 청결식당")
	assert.Contains(t, cmp.Recommendation, "가성비는 인기맛집")
}

func TestCompareCriteriaSubset(t *testing.T) {
	entities := []*restaurant.UnifiedEntity{clean(), popular()}

	hygieneOnly := rank.Compare(engine(), entities, []rank.Criterion{rank.CriterionHygiene})
	require.NotNil(t, hygieneOnly)
	assert.Equal(t, hygieneOnly.Scores[0].HygieneScore, hygieneOnly.Scores[0].OverallScore)
	assert.NotContains(t, hygieneOnly.Recommendation, "평점은")

	// Price alone covers no indicator, so the overall score is the full
	// trust score.
	priceOnly := rank.Compare(engine(), entities, []rank.Criterion{rank.CriterionPrice})
	require.NotNil(t, priceOnly)
	assert.Equal(t, 70, priceOnly.Scores[0].OverallScore)
	assert.Equal(t, priceOnly.Scores[0].TrustScore, priceOnly.Scores[0].OverallScore)
	assert.Equal(t, 64, priceOnly.Scores[1].OverallScore)
	assert.Equal(t, "popular", priceOnly.BestValue)
}

func TestCompareNeedsTwo(t *testing.T) {
	assert.Nil(t, rank.Compare(engine(), nil, nil))
	assert.Nil(t, rank.Compare(engine(), []*restaurant.UnifiedEntity{clean()}, nil))
}

func TestCompareTiesGoToFirst(t *testing.T) {
	a, b := popular(), popular()
	a.ID, a.Name = "first", "첫번째"
	b.ID, b.Name = "second", "두번째"
	cmp := rank.Compare(engine(), []*restaurant.UnifiedEntity{a, b}, nil)
	require.NotNil(t, cmp)
	assert.Equal(t, "first", cmp.BestHygiene)
	assert.Equal(t, "first", cmp.BestRating)
	assert.Equal(t, "first", cmp.BestValue)
}

func TestCompareSameNameReportsIDs(t *testing.T) {
	jongno := popular()
	jongno.ID, jongno.Name, jongno.Address = "id-jongno", "김밥천국", "서울 종로구 종로 1"
	gangnam := clean()
	gangnam.ID, gangnam.Name, gangnam.Address = "id-gangnam", "김밥천국", "서울 강남구 역삼동 1"

	cmp := rank.Compare(engine(), []*restaurant.UnifiedEntity{jongno, gangnam}, nil)
	require.NotNil(t, cmp)
	assert.Equal(t, "id-gangnam", cmp.BestHygiene)
	assert.Equal(t, "id-jongno", cmp.BestRating)
	assert.Equal(t, "김밥천국(서울 강남구 역삼동 1)", cmp.Label(cmp.BestHygiene))
	assert.Contains(t, cmp.Recommendation, "위생은 김밥천국(서울 강남구 역삼동 1)")
}

func TestCompareUnknownPriceTier(t *testing.T) {
	a, b := popular(), popular()
	a.ID, a.Name, a.PriceRange = "unknown", "가격미상", ""
	b.ID, b.Name, b.PriceRange = "medium", "중간가격", "₩₩"
	cmp := rank.Compare(engine(), []*restaurant.UnifiedEntity{a, b}, nil)
	require.NotNil(t, cmp)
	// Unknown counts as tier 2, so equal scores tie and the first wins.
	assert.Equal(t, "unknown", cmp.BestValue)
	assert.Equal(t, 0, cmp.Scores[0].PriceTier)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, rank.StatusComplete, rank.StatusFor(3, 0))
	assert.Equal(t, rank.StatusPartial, rank.StatusFor(2, 1))
	assert.Equal(t, rank.StatusInsufficient, rank.StatusFor(1, 2))
	assert.Equal(t, rank.StatusInsufficient, rank.StatusFor(0, 0))
}

func TestParseCriteria(t *testing.T) {
	all, err := rank.ParseCriteria(nil)
	require.NoError(t, err)
	assert.Equal(t, rank.AllCriteria, all)

	got, err := rank.ParseCriteria([]string{"Rating", "hygiene", "rating"})
	require.NoError(t, err)
	assert.Equal(t, []rank.Criterion{rank.CriterionRating, rank.CriterionHygiene}, got)

	_, err = rank.ParseCriteria([]string{"parking"})
	assert.Error(t, err)
}

func TestRecommendPriority(t *testing.T) {
	entities := []*restaurant.UnifiedEntity{popular(), clean()}

	byHygiene := rank.Recommend(engine(), entities, rank.RecommendOptions{Priority: rank.PriorityHygiene})
	require.Len(t, byHygiene, 2)
	assert.Equal(t, "청결식당", byHygiene[0].Entity.Name)
	assert.Equal(t, 79, byHygiene[0].Score)
	assert.Equal(t, 1, byHygiene[0].Rank)
	assert.Equal(t, "위생등급 AAA(매우 우수) 업소예요", byHygiene[0].Reason)

	byRating := rank.Recommend(engine(), entities, rank.RecommendOptions{Priority: rank.PriorityRating})
	require.Len(t, byRating, 2)
	assert.Equal(t, "인기맛집", byRating[0].Entity.Name)
	assert.Equal(t, 71, byRating[0].Score)
	assert.Equal(t, "리뷰 1500개로 검증된 곳이에요", byRating[0].Reason)
	assert.Equal(t, 2, byRating[1].Rank)
}

func TestRecommendBalancedUsesProfileWeights(t *testing.T) {
	e := engine()
	recs := rank.Recommend(e, []*restaurant.UnifiedEntity{clean()}, rank.RecommendOptions{})
	require.Len(t, recs, 1)
	assert.Equal(t, e.Score(scoring.FromEntity(clean())).Score, recs[0].Score)
}

func TestRecommendLimitAndStability(t *testing.T) {
	var entities []*restaurant.UnifiedEntity
	for i := 0; i < 12; i++ {
		e := popular()
		e.Name = fmt.Sprintf("식당%02d", i)
		entities = append(entities, e)
	}

	recs := rank.Recommend(engine(), entities, rank.RecommendOptions{})
	require.Len(t, recs, rank.DefaultLimit)
	for i, r := range recs {
		assert.Equal(t, fmt.Sprintf("식당%02d", i), r.Entity.Name, "equal scores keep input order")
		assert.Equal(t, i+1, r.Rank)
	}

	assert.Len(t, rank.Recommend(engine(), entities, rank.RecommendOptions{Limit: 50}), rank.MaxLimit)
	assert.Len(t, rank.Recommend(engine(), entities, rank.RecommendOptions{Limit: 3}), 3)
}

func TestReasonFallsBackToTotal(t *testing.T) {
	weak := &restaurant.UnifiedEntity{
		Name:       "애매한집",
		Hygiene:    restaurant.ParseGrade(""),
		Violations: restaurant.ViolationHistory{TotalCount: 3},
	}
	recs := rank.Recommend(engine(), []*restaurant.UnifiedEntity{weak}, rank.RecommendOptions{})
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Reason, "종합 신뢰도")
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 5, rank.ClampLimit(0))
	assert.Equal(t, 5, rank.ClampLimit(-1))
	assert.Equal(t, 1, rank.ClampLimit(1))
	assert.Equal(t, 10, rank.ClampLimit(11))
}

func TestParsePriorityAndBudget(t *testing.T) {
	p, err := rank.ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, rank.PriorityBalanced, p)
	_, err = rank.ParsePriority("speed")
	assert.Error(t, err)

	b, err := rank.ParseBudget("LOW")
	require.NoError(t, err)
	assert.Equal(t, rank.BudgetLow, b)
	b, err = rank.ParseBudget("")
	require.NoError(t, err)
	assert.Equal(t, rank.BudgetAny, b)
	_, err = rank.ParseBudget("cheap")
	assert.Error(t, err)
}

func TestFilterPool(t *testing.T) {
	places := []restaurant.Place{
		{Name: "고기굽는집", Address: "서울 강남구 역삼동 1", Category: "음식점 > 한식 > 육류,고기", PriceRange: "₩₩"},
		{Name: "스시오마카세", Address: "서울 강남구 역삼동 2", Category: "음식점 > 일식", PriceRange: "₩₩₩₩"},
		{Name: "분식나라", Address: "서울 강남구 역삼동 3", Category: "음식점 > 분식", PriceRange: "₩"},
		{Name: "고기굽는집", Address: "서울 강남구 역삼동 1", Category: "음식점 > 한식 > 육류,고기", PriceRange: "₩₩"},
		{Name: "가격모름", Address: "서울 강남구 역삼동 4", Category: "음식점 > 한식"},
	}

	all := rank.FilterPool(places, rank.PoolOptions{Budget: rank.BudgetAny})
	assert.Len(t, all, 4, "duplicate removed")

	low := rank.FilterPool(places, rank.PoolOptions{Budget: rank.BudgetLow})
	var names []string
	for _, p := range low {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"분식나라", "가격모름"}, names)

	meat := rank.FilterPool(places, rank.PoolOptions{Category: "고기", Budget: rank.BudgetMedium})
	require.Len(t, meat, 1)
	assert.Equal(t, "고기굽는집", meat[0].Name)
}

func TestCategoryForPurpose(t *testing.T) {
	assert.Equal(t, "고기", rank.CategoryForPurpose("회식"))
	assert.Equal(t, "분식", rank.CategoryForPurpose(" 혼밥 "))
	assert.Equal(t, "", rank.CategoryForPurpose("출장"))
}
