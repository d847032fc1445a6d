// Package aggregate merges a resolved registry record with map/rating
// provider signals into one unified restaurant entity.
package aggregate

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/safetable/safetable/pkg/match"
	"github.com/safetable/safetable/pkg/normalize"
	"github.com/safetable/safetable/pkg/resolve"
	"github.com/safetable/safetable/pkg/restaurant"
	"github.com/safetable/safetable/pkg/source"
)

// ErrNotResolved is returned when Aggregate is given an outcome that did not
// resolve to a registry record.
var ErrNotResolved = errors.New("aggregate: outcome is not resolved")

// Aggregator fans out to rating providers and merges their answers.
type Aggregator struct {
	providers []source.RatingProvider
	brands    *normalize.BrandTable
	now       func() time.Time
	log       zerolog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock sets the clock used to derive business years.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Aggregator) { a.log = log }
}

// New creates an Aggregator. Provider order decides which provider's price
// range and category win when several supply one.
func New(providers []source.RatingProvider, brands *normalize.BrandTable, opts ...Option) *Aggregator {
	if brands == nil {
		brands = normalize.NewBrandTable(normalize.DefaultBrands)
	}
	a := &Aggregator{
		providers: providers,
		brands:    brands,
		now:       time.Now,
		log:       zerolog.Nop(),
	}
	for _, o := range opts {
		o(a)
	}
	a.log = a.log.With().Str("component", "aggregator").Logger()
	return a
}

// Aggregate builds the unified entity for a resolved outcome. Providers are
// queried concurrently; one that fails, finds nothing, or finds a different
// restaurant contributes a nil rating instead of failing the call.
func (a *Aggregator) Aggregate(ctx context.Context, out *resolve.Outcome, region string) (*restaurant.UnifiedEntity, error) {
	if out == nil || out.Status != resolve.StatusResolved || out.Record == nil {
		return nil, ErrNotResolved
	}
	rec := *out.Record
	if region == "" {
		region = rec.Region
	}

	places := a.lookup(ctx, rec, region)

	e := &restaurant.UnifiedEntity{
		ID:         restaurant.EntityID(normalize.Literal(rec.Name), rec.Address),
		Name:       rec.Name,
		Address:    rec.Address,
		LotAddress: rec.LotAddress,
		Hygiene:    out.Hygiene,
		Violations: out.Violations,
		Ratings:    make(map[string]restaurant.SourceRating, len(a.providers)),
	}
	merge(e, a.names(), places)
	if e.Category == "" {
		e.Category = rec.BusinessType
	}
	if !e.IsFranchise {
		e.IsFranchise = a.brands.IsFranchise(rec.Name)
	}
	e.BusinessYears = businessYears(rec.LicensedAt, a.now())
	return e, nil
}

// Unregistered builds an entity for a provider place that has no registry
// record. It carries no hygiene grade and no violation data.
func (a *Aggregator) Unregistered(p restaurant.Place) *restaurant.UnifiedEntity {
	e := &restaurant.UnifiedEntity{
		ID:         restaurant.EntityID(normalize.Literal(p.Name), p.Address),
		Name:       p.Name,
		Address:    p.Address,
		LotAddress: p.LotAddress,
		Hygiene:    restaurant.ParseGrade(""),
		Violations: restaurant.EmptyHistory(),
		Ratings:    make(map[string]restaurant.SourceRating, 1),
	}
	src := p.Source
	if src == "" {
		src = "unknown"
	}
	merge(e, []string{src}, []*restaurant.Place{&p})
	if !e.IsFranchise {
		e.IsFranchise = a.brands.IsFranchise(p.Name)
	}
	return e
}

func (a *Aggregator) names() []string {
	names := make([]string, len(a.providers))
	for i, p := range a.providers {
		names[i] = p.Name()
	}
	return names
}

// lookup queries every provider concurrently. The result slice is indexed by
// provider; rejected answers are nil.
func (a *Aggregator) lookup(ctx context.Context, rec restaurant.CandidateRecord, region string) []*restaurant.Place {
	places := make([]*restaurant.Place, len(a.providers))
	want := match.FromCandidate(rec)

	var wg sync.WaitGroup
	for i, p := range a.providers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log := a.log.With().Str("provider", p.Name()).Str("name", rec.Name).Logger()
			place, err := p.SearchByName(ctx, rec.Name, region)
			if err != nil {
				log.Warn().Err(err).Msg("provider lookup failed; rating degraded")
				return
			}
			if place == nil {
				log.Debug().Msg("provider has no place")
				return
			}
			if m := match.Restaurant(match.FromPlace(*place), want); !m.IsMatch {
				log.Debug().Str("place", place.Name).Float64("score", m.Score).Msg("provider place rejected")
				return
			}
			places[i] = place
		}()
	}
	wg.Wait()
	return places
}

// merge folds provider places into e in provider order.
func merge(e *restaurant.UnifiedEntity, names []string, places []*restaurant.Place) {
	var sum float64
	var n int
	for i, name := range names {
		place := places[i]
		sr := restaurant.SourceRating{}
		if place != nil {
			sr.Score = place.Rating
			sr.Reviews = place.ReviewCount
			if place.Rating != nil {
				sum += *place.Rating
				n++
			}
			e.ReviewCount += place.ReviewCount
			if e.PriceRange == "" {
				e.PriceRange = place.PriceRange
			}
			if e.Category == "" {
				e.Category = place.Category
			}
			if place.IsFranchise != nil && *place.IsFranchise {
				e.IsFranchise = true
			}
		}
		e.Ratings[name] = sr
	}
	if n > 0 {
		e.HasRating = true
		e.CombinedRating = sum / float64(n)
	}
}

// businessYears is the licence age in years, one decimal, never negative.
func businessYears(licensed *time.Time, now time.Time) *float64 {
	if licensed == nil || licensed.IsZero() {
		return nil
	}
	years := now.Sub(*licensed).Hours() / 24 / 365.25
	if years < 0 {
		years = 0
	}
	years = math.Floor(years*10) / 10
	return &years
}
