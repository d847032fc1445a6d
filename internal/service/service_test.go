package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetable/safetable/internal/service"
	"github.com/safetable/safetable/pkg/normalize"
	"github.com/safetable/safetable/pkg/rank"
	"github.com/safetable/safetable/pkg/restaurant"
	"github.com/safetable/safetable/pkg/scoring"
	"github.com/safetable/safetable/pkg/source"
)

// memRegistry is an in-memory registry: exact lookups compare trimmed names,
// partial lookups use compact containment.
type memRegistry struct {
	records []restaurant.CandidateRecord
	err     error
}

func (m *memRegistry) FindExact(ctx context.Context, name, region string) (*restaurant.CandidateRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.records {
		if r.Name == strings.TrimSpace(name) {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memRegistry) SearchPartial(ctx context.Context, name, region string) (*restaurant.SearchPage, error) {
	if m.err != nil {
		return nil, m.err
	}
	page := &restaurant.SearchPage{}
	for _, r := range m.records {
		if normalize.ContainsEither(r.Name, name) {
			page.Items = append(page.Items, r)
		}
	}
	page.TotalCount = len(page.Items)
	return page, nil
}

type memViolations struct {
	byName map[string]restaurant.ViolationHistory
}

func (m *memViolations) GetHistory(ctx context.Context, name, region string) (*restaurant.ViolationHistory, error) {
	h, ok := m.byName[name]
	if !ok {
		h = restaurant.EmptyHistory()
	}
	return &h, nil
}

type memProvider struct {
	name  string
	mu    sync.Mutex
	byKey map[string]*restaurant.Place
	area  *restaurant.AreaResult
	err   error
}

func (m *memProvider) Name() string { return m.name }

func (m *memProvider) SearchByName(ctx context.Context, name, region string) (*restaurant.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byKey[normalize.Compact(name)], nil
}

func (m *memProvider) SearchByArea(ctx context.Context, area, category string) (*restaurant.AreaResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.area, nil
}

func ptrF(v float64) *float64 { return &v }

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func licensed(year int) *time.Time {
	t := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func fixture() (*memRegistry, *memViolations, *memProvider) {
	reg := &memRegistry{records: []restaurant.CandidateRecord{
		{Name: "스타벅스 강남역점", Address: "서울특별시 강남구 강남대로 390", RawGrade: "AAA", LicensedAt: licensed(2012)},
		{Name: "스타벅스 역삼점", Address: "서울특별시 강남구 역삼동 736", RawGrade: "AA"},
		{Name: "스타벅스 해운대점", Address: "부산광역시 해운대구 우동 1", RawGrade: "A"},
		{Name: "역삼순대국", Address: "서울특별시 강남구 역삼동 100", RawGrade: "AA", LicensedAt: licensed(2010)},
		{Name: "강남분식", Address: "서울특별시 강남구 역삼동 200", LicensedAt: licensed(2022)},
	}}
	vio := &memViolations{byName: map[string]restaurant.ViolationHistory{
		"강남분식": {TotalCount: 2, RecentItems: []restaurant.ViolationItem{{Type: "과태료"}, {Type: "영업정지"}}},
	}}
	google := &memProvider{name: "google", byKey: map[string]*restaurant.Place{
		normalize.Compact("역삼순대국"): {Name: "역삼순대국", Address: "서울 강남구 역삼동 100", Rating: ptrF(4.5), ReviewCount: 620, PriceRange: "₩"},
		normalize.Compact("강남분식"):  {Name: "강남분식", Address: "서울 강남구 역삼동 200", Rating: ptrF(4.7), ReviewCount: 1200, PriceRange: "₩"},
	}}
	return reg, vio, google
}

func newService(reg source.Registry, vio source.Violations, providers ...source.RatingProvider) *service.Service {
	return service.New(service.Deps{
		Registry:   reg,
		Violations: vio,
		Providers:  providers,
		Clock:      func() time.Time { return now },
		Logger:     zerolog.Nop(),
	})
}

func TestResolveHygiene(t *testing.T) {
	reg, vio, _ := fixture()
	svc := newService(reg, vio)

	res, err := svc.ResolveHygiene(context.Background(), "역삼순대국", "강남구", false)
	require.NoError(t, err)
	assert.Equal(t, "AA", res.Hygiene.Grade)
	assert.Equal(t, "★★", res.Stars)
	assert.Equal(t, "2010-01-01", res.LicensedAt)
	assert.Equal(t, restaurant.EmptyHistory(), res.Violations)

	res, err = svc.ResolveHygiene(context.Background(), "강남분식", "강남구", true)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Violations.TotalCount)
	assert.Len(t, res.Violations.RecentItems, 2)
}

func TestResolveHygieneMultipleResults(t *testing.T) {
	reg, vio, _ := fixture()
	_, err := newService(reg, vio).ResolveHygiene(context.Background(), "스타벅스", "강남구", false)

	var se *service.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, service.KindMultipleResults, se.Kind)
	assert.Equal(t, 3, se.TotalCount)
	require.Len(t, se.Candidates, 3)
	assert.Equal(t, "스타벅스 강남역점", se.Candidates[0].Name)
	assert.Equal(t, "스타벅스 해운대점", se.Candidates[2].Name)
	assert.Contains(t, se.Message, "3곳")
}

func TestResolveHygieneNotFound(t *testing.T) {
	reg, vio, _ := fixture()
	_, err := newService(reg, vio).ResolveHygiene(context.Background(), "없는집", "마포구", false)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
	assert.Contains(t, err.Error(), "없는집")
	assert.Contains(t, err.Error(), "마포구")
}

func TestResolveHygieneInvalidQuery(t *testing.T) {
	reg, vio, _ := fixture()
	_, err := newService(reg, vio).ResolveHygiene(context.Background(), "  ", "강남구", false)
	assert.Equal(t, service.KindInvalidQuery, service.KindOf(err))
}

func TestResolveHygieneAPIError(t *testing.T) {
	reg := &memRegistry{err: source.Errorf("foodsafety", "ERROR-500", "서버 오류")}
	_, err := newService(reg, &memViolations{}).ResolveHygiene(context.Background(), "a", "b", false)

	var se *service.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, service.KindAPI, se.Kind)
	assert.Equal(t, "foodsafety", se.Source)
	assert.Equal(t, "ERROR-500", se.Code)
	assert.NotEmpty(t, se.Message)
}

func TestResolveHygieneTimeout(t *testing.T) {
	reg := &memRegistry{err: source.Wrap("foodsafety", context.DeadlineExceeded)}
	_, err := newService(reg, &memViolations{}).ResolveHygiene(context.Background(), "a", "b", false)

	var se *service.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, service.KindAPI, se.Kind)
	assert.Equal(t, "TIMEOUT", se.Code)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestComputeTrustScore(t *testing.T) {
	svc := newService(&memRegistry{}, &memViolations{})
	years, rating := 7.0, 4.2
	res := svc.ComputeTrustScore(scoring.Input{BusinessYears: &years, Rating: &rating, ReviewCount: 523})
	assert.Equal(t, 73, res.Score)
	assert.Equal(t, scoring.GradeB, res.Grade)
}

func TestCompareRestaurants(t *testing.T) {
	reg, vio, google := fixture()
	svc := newService(reg, vio, google)

	ids := []service.Identifier{
		{Name: "역삼순대국", Region: "강남구"},
		{Name: "없는집", Region: "강남구"},
		{Name: "강남분식", Region: "강남구"},
		{Name: "스타벅스", Region: "강남구"},
	}
	res, err := svc.CompareRestaurants(context.Background(), ids, nil)
	require.NoError(t, err)

	assert.Equal(t, rank.StatusPartial, res.Status)
	require.Len(t, res.Found, 2)
	require.Len(t, res.NotFound, 2)
	assert.Equal(t, len(ids), len(res.Found)+len(res.NotFound))
	assert.Equal(t, "역삼순대국", res.Found[0].Name)
	assert.Equal(t, "강남분식", res.Found[1].Name)
	assert.Equal(t, service.KindNotFound, res.NotFound[0].Kind)
	assert.Equal(t, service.KindMultipleResults, res.NotFound[1].Kind)

	require.NotNil(t, res.Comparison)
	assert.Equal(t, res.Found[0].ID, res.Comparison.BestHygiene)
	assert.Equal(t, res.Found[1].ID, res.Comparison.BestRating)
	assert.Equal(t, "역삼순대국", res.Comparison.Label(res.Comparison.BestHygiene))
}

func TestCompareRestaurantsInsufficient(t *testing.T) {
	reg, vio, google := fixture()
	res, err := newService(reg, vio, google).CompareRestaurants(context.Background(), []service.Identifier{
		{Name: "역삼순대국", Region: "강남구"},
		{Name: "없는집", Region: "강남구"},
	}, []string{"hygiene"})
	require.NoError(t, err)
	assert.Equal(t, rank.StatusInsufficient, res.Status)
	assert.Nil(t, res.Comparison)
	assert.Len(t, res.Found, 1)
	assert.Len(t, res.NotFound, 1)
}

func TestCompareRestaurantsValidation(t *testing.T) {
	svc := newService(&memRegistry{}, &memViolations{})
	_, err := svc.CompareRestaurants(context.Background(), []service.Identifier{{Name: "a", Region: "b"}}, nil)
	assert.Equal(t, service.KindInvalidQuery, service.KindOf(err))

	six := make([]service.Identifier, 6)
	_, err = svc.CompareRestaurants(context.Background(), six, nil)
	assert.Equal(t, service.KindInvalidQuery, service.KindOf(err))

	two := []service.Identifier{{Name: "a", Region: "b"}, {Name: "c", Region: "d"}}
	_, err = svc.CompareRestaurants(context.Background(), two, []string{"parking"})
	assert.Equal(t, service.KindInvalidQuery, service.KindOf(err))
}

func areaProvider(status restaurant.AreaStatus, places ...restaurant.Place) *memProvider {
	return &memProvider{name: "kakao", area: &restaurant.AreaResult{Status: status, Restaurants: places}}
}

func TestRecommendRestaurants(t *testing.T) {
	reg, vio, google := fixture()
	kakao := areaProvider(restaurant.AreaReady,
		restaurant.Place{Name: "강남분식", Address: "서울 강남구 역삼동 200", Category: "음식점 > 분식", Source: "kakao"},
		restaurant.Place{Name: "역삼순대국", Address: "서울 강남구 역삼동 100", Category: "음식점 > 한식 > 순대", Source: "kakao"},
		restaurant.Place{Name: "스타벅스", Address: "서울 강남구 역삼동 736", Category: "음식점 > 카페", Source: "kakao"},
		restaurant.Place{Name: "새로생긴집", Address: "서울 강남구 역삼동 300", Category: "음식점 > 한식", Source: "kakao"},
	)
	svc := newService(reg, vio, kakao, google)

	list, err := svc.RecommendRestaurants(context.Background(), service.RecommendRequest{
		Area: "역삼동", Priority: "hygiene", Limit: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, restaurant.AreaReady, list.Status)
	assert.Equal(t, 4, list.Considered)
	require.Len(t, list.Recommendations, 3)
	assert.Equal(t, "역삼순대국", list.Recommendations[0].Entity.Name)
	for i := 1; i < len(list.Recommendations); i++ {
		assert.GreaterOrEqual(t, list.Recommendations[i-1].Score, list.Recommendations[i].Score)
	}

	var names []string
	for _, r := range list.Recommendations {
		names = append(names, r.Entity.Name)
	}
	assert.Contains(t, names, "스타벅스 역삼점", "ambiguous registry hit is settled by address")
}

func TestRecommendRestaurantsUnregisteredPlace(t *testing.T) {
	reg, vio, google := fixture()
	kakao := areaProvider(restaurant.AreaReady,
		restaurant.Place{Name: "새로생긴집", Address: "서울 강남구 역삼동 300", Category: "음식점 > 한식", Rating: ptrF(4.9), ReviewCount: 80, Source: "kakao"},
	)
	list, err := newService(reg, vio, kakao, google).RecommendRestaurants(context.Background(), service.RecommendRequest{Area: "역삼동"})
	require.NoError(t, err)
	require.Len(t, list.Recommendations, 1)
	e := list.Recommendations[0].Entity
	assert.False(t, e.Hygiene.HasGrade)
	assert.True(t, e.HasRating)
	assert.Equal(t, rank.PriorityBalanced, list.Priority)
}

func TestRecommendRestaurantsPurposeCategory(t *testing.T) {
	reg, vio, google := fixture()
	kakao := areaProvider(restaurant.AreaReady,
		restaurant.Place{Name: "강남분식", Address: "서울 강남구 역삼동 200", Category: "음식점 > 분식", Source: "kakao"},
		restaurant.Place{Name: "역삼순대국", Address: "서울 강남구 역삼동 100", Category: "음식점 > 한식 > 순대", Source: "kakao"},
	)
	list, err := newService(reg, vio, kakao, google).RecommendRestaurants(context.Background(), service.RecommendRequest{
		Area: "역삼동", Purpose: "혼밥",
	})
	require.NoError(t, err)
	assert.Equal(t, "분식", list.Category)
	require.Len(t, list.Recommendations, 1)
	assert.Equal(t, "강남분식", list.Recommendations[0].Entity.Name)
}

func TestRecommendRestaurantsTooMany(t *testing.T) {
	kakao := &memProvider{name: "kakao", area: &restaurant.AreaResult{
		Status: restaurant.AreaTooMany, Suggestions: []string{"역삼동", "논현동"},
	}}
	list, err := newService(&memRegistry{}, &memViolations{}, kakao).RecommendRestaurants(context.Background(), service.RecommendRequest{Area: "강남구"})
	require.NoError(t, err)
	assert.Equal(t, restaurant.AreaTooMany, list.Status)
	assert.Equal(t, []string{"역삼동", "논현동"}, list.Suggestions)
	assert.Empty(t, list.Recommendations)
	assert.NotEmpty(t, list.Message)
}

func TestRecommendRestaurantsErrors(t *testing.T) {
	svc := newService(&memRegistry{}, &memViolations{})
	_, err := svc.RecommendRestaurants(context.Background(), service.RecommendRequest{})
	assert.Equal(t, service.KindInvalidQuery, service.KindOf(err))
	_, err = svc.RecommendRestaurants(context.Background(), service.RecommendRequest{Area: "a", Priority: "speed"})
	assert.Equal(t, service.KindInvalidQuery, service.KindOf(err))
	_, err = svc.RecommendRestaurants(context.Background(), service.RecommendRequest{Area: "a", Budget: "free"})
	assert.Equal(t, service.KindInvalidQuery, service.KindOf(err))

	failing := &memProvider{name: "kakao", err: source.Errorf("kakao", "HTTP_401", "unauthorized")}
	_, err = newService(&memRegistry{}, &memViolations{}, failing).RecommendRestaurants(context.Background(), service.RecommendRequest{Area: "a"})
	assert.Equal(t, service.KindAPI, service.KindOf(err))

	reg := &memRegistry{err: source.Errorf("foodsafety", "ERROR-500", "down")}
	ready := areaProvider(restaurant.AreaReady, restaurant.Place{Name: "x", Address: "y"})
	_, err = newService(reg, &memViolations{}, ready).RecommendRestaurants(context.Background(), service.RecommendRequest{Area: "a"})
	assert.Equal(t, service.KindAPI, service.KindOf(err), "registry failures are terminal")
}

func TestTrustScore(t *testing.T) {
	reg, vio, google := fixture()
	svc := newService(reg, vio, google)

	rep, err := svc.TrustScore(context.Background(), "역삼순대국", "강남구")
	require.NoError(t, err)
	assert.Equal(t, "역삼순대국", rep.Entity.Name)
	assert.Equal(t, svc.Engine().Score(scoring.FromEntity(rep.Entity)), rep.Result)
	assert.Equal(t, scoring.GradeFromScore(rep.Result.Score), rep.Result.Grade)

	_, err = svc.TrustScore(context.Background(), "스타벅스", "강남구")
	assert.Equal(t, service.KindMultipleResults, service.KindOf(err))
}
