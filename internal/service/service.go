// Package service exposes the four SafeTable operations: hygiene
// resolution, trust scoring, comparison and recommendation. It wires the
// resolver, aggregator, scorer and ranker around injected collaborators.
package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/safetable/safetable/pkg/aggregate"
	"github.com/safetable/safetable/pkg/normalize"
	"github.com/safetable/safetable/pkg/resolve"
	"github.com/safetable/safetable/pkg/restaurant"
	"github.com/safetable/safetable/pkg/scoring"
	"github.com/safetable/safetable/pkg/source"
)

// Defaults for recommendation fan-out.
const (
	DefaultPoolSize    = 15
	DefaultConcurrency = 4
)

// Deps are the collaborators a Service is built from.
type Deps struct {
	Registry   source.Registry
	Violations source.Violations
	Providers  []source.RatingProvider
	Engine     *scoring.Engine       // six-indicator profile when nil
	Brands     *normalize.BrandTable // compiled-in brands when nil
	Clock      func() time.Time      // time.Now when nil
	Logger     zerolog.Logger

	PoolSize    int // recommendation candidate cap
	Concurrency int // parallel resolutions while recommending
}

// Service implements the entry points.
type Service struct {
	resolver  *resolve.Resolver
	agg       *aggregate.Aggregator
	engine    *scoring.Engine
	providers []source.RatingProvider
	log       zerolog.Logger

	poolSize    int
	concurrency int
}

// New builds a Service.
func New(d Deps) *Service {
	if d.Engine == nil {
		d.Engine = scoring.NewEngine(scoring.SixIndicator())
	}
	if d.Brands == nil {
		d.Brands = normalize.NewBrandTable(normalize.DefaultBrands)
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.PoolSize <= 0 {
		d.PoolSize = DefaultPoolSize
	}
	if d.Concurrency <= 0 {
		d.Concurrency = DefaultConcurrency
	}
	return &Service{
		resolver: resolve.New(d.Registry, d.Violations,
			resolve.WithClock(d.Clock), resolve.WithLogger(d.Logger)),
		agg: aggregate.New(d.Providers, d.Brands,
			aggregate.WithClock(d.Clock), aggregate.WithLogger(d.Logger)),
		engine:      d.Engine,
		providers:   d.Providers,
		log:         d.Logger.With().Str("component", "service").Logger(),
		poolSize:    d.PoolSize,
		concurrency: d.Concurrency,
	}
}

// Engine returns the scoring engine.
func (s *Service) Engine() *scoring.Engine { return s.engine }

// ResolvedResult is a successfully resolved establishment.
type ResolvedResult struct {
	Name         string                      `json:"name"`
	Address      string                      `json:"address"`
	LotAddress   string                      `json:"lot_address,omitempty"`
	BusinessType string                      `json:"business_type,omitempty"`
	Hygiene      restaurant.HygieneGrade     `json:"hygiene"`
	Stars        string                      `json:"stars"`
	LicensedAt   string                      `json:"licensed_at,omitempty"` // YYYY-MM-DD
	Violations   restaurant.ViolationHistory `json:"violations"`
}

// ResolveHygiene resolves one establishment to its hygiene grade and,
// optionally, its recent violation history.
func (s *Service) ResolveHygiene(ctx context.Context, name, region string, includeHistory bool) (*ResolvedResult, error) {
	q := restaurant.Query{Name: name, Region: region, IncludeHistory: includeHistory}
	if err := q.Validate(); err != nil {
		return nil, fromErr(err)
	}

	out, err := s.resolver.Resolve(ctx, q)
	if err != nil {
		return nil, fromErr(err)
	}
	switch out.Status {
	case resolve.StatusNotFound:
		return nil, notFound(name, region)
	case resolve.StatusAmbiguous:
		return nil, multiple(name, out)
	}

	rec := out.Record
	res := &ResolvedResult{
		Name:         rec.Name,
		Address:      rec.Address,
		LotAddress:   rec.LotAddress,
		BusinessType: rec.BusinessType,
		Hygiene:      out.Hygiene,
		Stars:        restaurant.FormatStars(out.Hygiene.Stars),
		Violations:   out.Violations,
	}
	if rec.LicensedAt != nil {
		res.LicensedAt = rec.LicensedAt.Format("2006-01-02")
	}
	return res, nil
}

// ComputeTrustScore scores raw indicator values. It never fails.
func (s *Service) ComputeTrustScore(in scoring.Input) *scoring.TrustScoreResult {
	return s.engine.Score(in)
}

// Lookup resolves and aggregates one establishment into a unified entity,
// with its violation history.
func (s *Service) Lookup(ctx context.Context, name, region string) (*restaurant.UnifiedEntity, error) {
	q := restaurant.Query{Name: name, Region: region, IncludeHistory: true}
	if err := q.Validate(); err != nil {
		return nil, fromErr(err)
	}
	out, err := s.resolver.Resolve(ctx, q)
	if err != nil {
		return nil, fromErr(err)
	}
	switch out.Status {
	case resolve.StatusNotFound:
		return nil, notFound(name, region)
	case resolve.StatusAmbiguous:
		return nil, multiple(name, out)
	}
	e, err := s.agg.Aggregate(ctx, out, region)
	if err != nil {
		return nil, fromErr(err)
	}
	return e, nil
}

// TrustReport is an aggregated establishment with its trust score.
type TrustReport struct {
	Entity *restaurant.UnifiedEntity `json:"entity"`
	Result *scoring.TrustScoreResult `json:"trust_score"`
}

// TrustScore looks up an establishment by name and scores it.
func (s *Service) TrustScore(ctx context.Context, name, region string) (*TrustReport, error) {
	e, err := s.Lookup(ctx, name, region)
	if err != nil {
		return nil, err
	}
	return &TrustReport{Entity: e, Result: s.engine.Score(scoring.FromEntity(e))}, nil
}
