package aggregate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetable/safetable/pkg/aggregate"
	"github.com/safetable/safetable/pkg/normalize"
	"github.com/safetable/safetable/pkg/resolve"
	"github.com/safetable/safetable/pkg/restaurant"
	"github.com/safetable/safetable/pkg/source"
)

type fakeProvider struct {
	name  string
	place *restaurant.Place
	err   error
	block chan struct{}
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) SearchByName(ctx context.Context, name, region string) (*restaurant.Place, error) {
	if f.block != nil {
		<-f.block
	}
	return f.place, f.err
}

func (f *fakeProvider) SearchByArea(ctx context.Context, area, category string) (*restaurant.AreaResult, error) {
	return nil, errors.New("not used")
}

func ptrF(v float64) *float64 { return &v }
func ptrB(v bool) *bool       { return &v }

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func resolved(rec restaurant.CandidateRecord) *resolve.Outcome {
	return &resolve.Outcome{
		Status:     resolve.StatusResolved,
		Record:     &rec,
		Hygiene:    rec.Hygiene(),
		Violations: restaurant.EmptyHistory(),
	}
}

func newAggregator(providers ...source.RatingProvider) *aggregate.Aggregator {
	return aggregate.New(providers, normalize.NewBrandTable(normalize.DefaultBrands),
		aggregate.WithClock(func() time.Time { return now }))
}

func TestAggregateMergesProviders(t *testing.T) {
	licensed := time.Date(2017, 6, 1, 0, 0, 0, 0, time.UTC)
	rec := restaurant.CandidateRecord{
		Name: "을밀대", Address: "서울특별시 마포구 숭문길 24", RawGrade: "AA",
		BusinessType: "한식", LicensedAt: &licensed,
	}
	kakao := &fakeProvider{name: "kakao", place: &restaurant.Place{
		Name: "을밀대 본점", Address: "서울 마포구 숭문길 24", Category: "냉면",
	}}
	google := &fakeProvider{name: "google", place: &restaurant.Place{
		Name: "을밀대", Address: "서울특별시 마포구 숭문길 24", Rating: ptrF(4.4), ReviewCount: 812, PriceRange: "₩₩",
		Category: "restaurant",
	}}

	e, err := newAggregator(kakao, google).Aggregate(context.Background(), resolved(rec), "마포구")
	require.NoError(t, err)

	assert.Equal(t, "을밀대", e.Name)
	assert.Equal(t, "AA", e.Hygiene.Grade)
	assert.True(t, e.HasRating)
	assert.InDelta(t, 4.4, e.CombinedRating, 1e-9)
	assert.Equal(t, 812, e.ReviewCount)
	assert.Equal(t, "₩₩", e.PriceRange)
	assert.Equal(t, "냉면", e.Category, "first provider in order wins the category")
	assert.Nil(t, e.Ratings["kakao"].Score)
	require.NotNil(t, e.Ratings["google"].Score)
	assert.False(t, e.IsFranchise)
	require.NotNil(t, e.BusinessYears)
	assert.InDelta(t, 7.0, *e.BusinessYears, 0.1)
	assert.Equal(t, restaurant.EntityID(normalize.Literal(rec.Name), rec.Address), e.ID)
}

func TestAggregateMeanOfAvailableRatings(t *testing.T) {
	rec := restaurant.CandidateRecord{Name: "진진", Address: "서울 마포구 잔다리로 123"}
	a := &fakeProvider{name: "a", place: &restaurant.Place{Name: "진진", Address: "서울 마포구 잔다리로 123", Rating: ptrF(4.0), ReviewCount: 10}}
	b := &fakeProvider{name: "b", place: &restaurant.Place{Name: "진진", Address: "서울 마포구 잔다리로 123", Rating: ptrF(4.6), ReviewCount: 30}}

	e, err := newAggregator(a, b).Aggregate(context.Background(), resolved(rec), "")
	require.NoError(t, err)
	assert.InDelta(t, 4.3, e.CombinedRating, 1e-9)
	assert.Equal(t, 40, e.ReviewCount)
	assert.Equal(t, "", e.Category)
}

func TestAggregateDegradesFailures(t *testing.T) {
	rec := restaurant.CandidateRecord{Name: "우래옥", Address: "서울 중구 창경궁로 62-29", BusinessType: "한식"}
	failing := &fakeProvider{name: "kakao", err: source.Errorf("kakao", "HTTP_503", "unavailable")}
	empty := &fakeProvider{name: "google"}

	e, err := newAggregator(failing, empty).Aggregate(context.Background(), resolved(rec), "중구")
	require.NoError(t, err)

	assert.False(t, e.HasRating)
	assert.Zero(t, e.CombinedRating)
	assert.Nil(t, e.Rating())
	assert.Len(t, e.Ratings, 2)
	assert.Equal(t, "한식", e.Category, "category falls back to the registry business type")
	assert.Nil(t, e.BusinessYears)
}

func TestAggregateRejectsMismatchedPlace(t *testing.T) {
	rec := restaurant.CandidateRecord{Name: "하동관", Address: "서울 중구 명동9길 12"}
	wrong := &fakeProvider{name: "google", place: &restaurant.Place{
		Name: "명동교자", Address: "부산 해운대구", Rating: ptrF(4.9), ReviewCount: 5000,
	}}

	e, err := newAggregator(wrong).Aggregate(context.Background(), resolved(rec), "중구")
	require.NoError(t, err)
	assert.False(t, e.HasRating)
	assert.Zero(t, e.ReviewCount)
}

func TestAggregateFranchise(t *testing.T) {
	byBrand := restaurant.CandidateRecord{Name: "스타벅스 강남역점", Address: "서울 강남구 강남대로 390"}
	e, err := newAggregator().Aggregate(context.Background(), resolved(byBrand), "강남구")
	require.NoError(t, err)
	assert.True(t, e.IsFranchise, "brand list marks a franchise")

	byFlag := restaurant.CandidateRecord{Name: "동네분식", Address: "서울 관악구 신림로 1"}
	p := &fakeProvider{name: "kakao", place: &restaurant.Place{Name: "동네분식", Address: "서울 관악구 신림로 1", IsFranchise: ptrB(true)}}
	e, err = newAggregator(p).Aggregate(context.Background(), resolved(byFlag), "관악구")
	require.NoError(t, err)
	assert.True(t, e.IsFranchise, "a provider flag marks a franchise")
}

func TestAggregateQueriesProvidersConcurrently(t *testing.T) {
	rec := restaurant.CandidateRecord{Name: "a", Address: "b"}
	// The first provider waits for the second one to be called, so a
	// sequential fan-out never finishes.
	called := make(chan struct{})
	first := &fakeProvider{name: "first", block: called}
	second := &signalProvider{fakeProvider: fakeProvider{name: "second"}, called: called}

	done := make(chan struct{})
	go func() {
		_, _ = newAggregator(first, second).Aggregate(context.Background(), resolved(rec), "")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("providers were not queried concurrently")
	}
}

type signalProvider struct {
	fakeProvider
	called chan struct{}
}

func (s *signalProvider) SearchByName(ctx context.Context, name, region string) (*restaurant.Place, error) {
	close(s.called)
	return nil, nil
}

func TestAggregateRequiresResolvedOutcome(t *testing.T) {
	_, err := newAggregator().Aggregate(context.Background(), &resolve.Outcome{Status: resolve.StatusAmbiguous}, "x")
	assert.ErrorIs(t, err, aggregate.ErrNotResolved)

	_, err = newAggregator().Aggregate(context.Background(), nil, "x")
	assert.ErrorIs(t, err, aggregate.ErrNotResolved)
}

func TestUnregistered(t *testing.T) {
	p := restaurant.Place{Name: "메가커피 신촌점", Address: "서울 서대문구", Rating: ptrF(4.1), ReviewCount: 22, Source: "kakao"}
	e := newAggregator().Unregistered(p)

	assert.False(t, e.Hygiene.HasGrade)
	assert.Equal(t, restaurant.NoGradeLabel, e.Hygiene.Label)
	assert.True(t, e.HasRating)
	assert.Equal(t, 22, e.ReviewCount)
	assert.Contains(t, e.Ratings, "kakao")
	assert.True(t, e.IsFranchise)
}
