package source_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetable/safetable/pkg/memo"
	"github.com/safetable/safetable/pkg/restaurant"
	"github.com/safetable/safetable/pkg/source"
)

func TestWrap(t *testing.T) {
	timeout := source.Wrap("kakao", fmt.Errorf("get: %w", context.DeadlineExceeded))
	assert.Equal(t, "TIMEOUT", timeout.Code)
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)

	canceled := source.Wrap("kakao", context.Canceled)
	assert.Equal(t, "CANCELED", canceled.Code)

	typed := source.Errorf("foodsafety", "ERROR-300", "key missing")
	assert.Same(t, typed, source.Wrap("other", fmt.Errorf("x: %w", typed)))
	assert.Equal(t, "foodsafety: [ERROR-300] key missing", typed.Error())

	plain := source.Wrap("google", errors.New("connection reset"))
	assert.Equal(t, "TRANSPORT", plain.Code)
}

type countingRegistry struct {
	exact, partial int
}

func (r *countingRegistry) FindExact(ctx context.Context, name, region string) (*restaurant.CandidateRecord, error) {
	r.exact++
	if name == "없는집" {
		return nil, nil
	}
	return &restaurant.CandidateRecord{Name: name, Region: region}, nil
}

func (r *countingRegistry) SearchPartial(ctx context.Context, name, region string) (*restaurant.SearchPage, error) {
	r.partial++
	return nil, source.Errorf("test", "E", "down")
}

func TestCachedRegistryKeysOnNormalizedParams(t *testing.T) {
	next := &countingRegistry{}
	c := source.NewCachedRegistry(next, memo.New(10), time.Minute)
	ctx := context.Background()

	a, err := c.FindExact(ctx, "스타벅스 강남역점", "서울특별시 강남구")
	require.NoError(t, err)
	b, err := c.FindExact(ctx, "스타벅스강남역점", "서울 강남구")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, next.exact)

	sibling, err := c.FindExact(ctx, "스타벅스 역삼점", "서울 강남구")
	require.NoError(t, err)
	assert.NotSame(t, a, sibling)
	assert.Equal(t, "스타벅스 역삼점", sibling.Name)
	assert.Equal(t, 2, next.exact, "branches of one brand are cached separately")

	none, err := c.FindExact(ctx, "없는집", "강남구")
	require.NoError(t, err)
	assert.Nil(t, none)
	_, _ = c.FindExact(ctx, "없는집", "강남구")
	assert.Equal(t, 3, next.exact, "absent results are memoized too")

	_, err = c.SearchPartial(ctx, "스타", "강남구")
	require.Error(t, err)
	_, err = c.SearchPartial(ctx, "스타", "강남구")
	require.Error(t, err)
	assert.Equal(t, 2, next.partial, "errors are not memoized")
}

type recordRegistry struct {
	records []restaurant.CandidateRecord
}

func (r *recordRegistry) FindExact(ctx context.Context, name, region string) (*restaurant.CandidateRecord, error) {
	return source.PickExact(r.records, name, region), nil
}

func (r *recordRegistry) SearchPartial(ctx context.Context, name, region string) (*restaurant.SearchPage, error) {
	return source.FilterPartial(r.records, name, region), nil
}

func TestCachedRegistryKeepsBranchesApart(t *testing.T) {
	next := &recordRegistry{records: []restaurant.CandidateRecord{
		{Name: "스타벅스 강남역점", Address: "서울 강남구 역삼동 825", RawGrade: "AAA"},
		{Name: "스타벅스 역삼점", Address: "서울 강남구 역삼동 736"},
	}}
	c := source.NewCachedRegistry(next, memo.New(10), time.Minute)
	ctx := context.Background()

	first, err := c.FindExact(ctx, "스타벅스 강남역점", "강남구")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "AAA", first.Hygiene().Grade)

	second, err := c.FindExact(ctx, "스타벅스 역삼점", "강남구")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "스타벅스 역삼점", second.Name)
	assert.False(t, second.Hygiene().HasGrade)
}

type branchViolations struct{}

func (branchViolations) GetHistory(ctx context.Context, name, region string) (*restaurant.ViolationHistory, error) {
	return &restaurant.ViolationHistory{
		TotalCount:  1,
		RecentItems: []restaurant.ViolationItem{{Type: name}},
	}, nil
}

func TestCachedViolationsKeepsBranchesApart(t *testing.T) {
	c := source.NewCachedViolations(branchViolations{}, memo.New(10), time.Minute)
	ctx := context.Background()

	a, err := c.GetHistory(ctx, "교촌치킨 역삼점", "강남구")
	require.NoError(t, err)
	b, err := c.GetHistory(ctx, "교촌치킨 논현점", "강남구")
	require.NoError(t, err)
	assert.Equal(t, "교촌치킨 역삼점", a.RecentItems[0].Type)
	assert.Equal(t, "교촌치킨 논현점", b.RecentItems[0].Type)
}

type stubProvider struct {
	name  string
	calls int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) SearchByName(ctx context.Context, name, region string) (*restaurant.Place, error) {
	p.calls++
	return &restaurant.Place{Name: name, Source: p.name}, nil
}

func (p *stubProvider) SearchByArea(ctx context.Context, area, category string) (*restaurant.AreaResult, error) {
	p.calls++
	return &restaurant.AreaResult{Status: restaurant.AreaReady}, nil
}

func TestCachedProvidersShareStoreWithoutCollisions(t *testing.T) {
	store := memo.New(10)
	a := &stubProvider{name: "a"}
	b := &stubProvider{name: "b"}
	ca := source.NewCachedProvider(a, store, source.DefaultTTLs())
	cb := source.NewCachedProvider(b, store, source.DefaultTTLs())
	ctx := context.Background()

	pa, err := ca.SearchByName(ctx, "국밥", "강남구")
	require.NoError(t, err)
	pb, err := cb.SearchByName(ctx, "국밥", "강남구")
	require.NoError(t, err)
	assert.Equal(t, "a", pa.Source)
	assert.Equal(t, "b", pb.Source)

	branch, err := ca.SearchByName(ctx, "국밥 본점", "강남구")
	require.NoError(t, err)
	assert.Equal(t, "국밥 본점", branch.Name)
	assert.Equal(t, 2, a.calls)

	_, _ = ca.SearchByArea(ctx, "강남구", "한식")
	_, _ = ca.SearchByArea(ctx, "강남구", "한식")
	assert.Equal(t, 3, a.calls)
	assert.Equal(t, "a", ca.Name())
}

func TestInRegion(t *testing.T) {
	rec := restaurant.CandidateRecord{Address: "서울특별시 강남구 테헤란로 1", LotAddress: "서울특별시 강남구 역삼1동 123-4"}
	assert.True(t, source.InRegion(rec, "강남구"))
	assert.True(t, source.InRegion(rec, "서울 강남구"))
	assert.True(t, source.InRegion(rec, "역삼동"))
	assert.False(t, source.InRegion(rec, "부산 강남구"))
	assert.True(t, source.InRegion(rec, ""))
}

func TestPickExact(t *testing.T) {
	records := []restaurant.CandidateRecord{
		{Name: "스타벅스 강남역점", Address: "서울 강남구 강남대로 390"},
		{Name: "스타벅스 역삼점", Address: "서울 강남구 역삼동 736"},
		{Name: "할매순대국 (본점)", Address: "서울 강남구 역삼동 1"},
		{Name: "할매순대국", Address: "부산 중구"},
	}

	got := source.PickExact(records, "스타벅스 강남역점", "강남구")
	require.NotNil(t, got)
	assert.Equal(t, "스타벅스 강남역점", got.Name)

	assert.Nil(t, source.PickExact(records, "스타벅스", "강남구"), "two branches share the normalized name")

	got = source.PickExact(records, "할매순대국", "강남구")
	require.NotNil(t, got, "unique normalized match resolves")
	assert.Equal(t, "서울 강남구 역삼동 1", got.Address)

	assert.Nil(t, source.PickExact(records, "", "강남구"))
}

func TestFilterPartial(t *testing.T) {
	records := []restaurant.CandidateRecord{
		{Name: "스타벅스 강남역점", Address: "서울 강남구 강남대로 390"},
		{Name: "스타벅스 해운대점", Address: "부산 해운대구 우동"},
		{Name: "스타벅스 역삼점", Address: "서울 강남구 역삼동 736"},
		{Name: "이디야", Address: "서울 강남구"},
	}
	page := source.FilterPartial(records, "스타벅스", "강남구")
	require.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, "스타벅스 강남역점", page.Items[0].Name)

	empty := source.FilterPartial(records, "없는집", "강남구")
	assert.Empty(t, empty.Items)
	assert.Zero(t, empty.TotalCount)
}
