package source

import (
	"context"
	"time"

	"github.com/safetable/safetable/pkg/memo"
	"github.com/safetable/safetable/pkg/normalize"
	"github.com/safetable/safetable/pkg/restaurant"
)

// TTLs holds per-operation cache lifetimes.
type TTLs struct {
	Registry   time.Duration
	Violations time.Duration
	Places     time.Duration
	Area       time.Duration
}

// DefaultTTLs returns the default cache lifetimes.
func DefaultTTLs() TTLs {
	return TTLs{
		Registry:   6 * time.Hour,
		Violations: 6 * time.Hour,
		Places:     time.Hour,
		Area:       30 * time.Minute,
	}
}

// params keys on the literal name so sibling branches in one region get
// separate entries.
func params(name, region string) []string {
	return []string{normalize.Literal(name), normalize.RegionKey(region)}
}

// CachedRegistry memoizes a Registry.
type CachedRegistry struct {
	next  Registry
	store *memo.Store
	group memo.Group
	ttl   time.Duration
}

// NewCachedRegistry wraps next with store.
func NewCachedRegistry(next Registry, store *memo.Store, ttl time.Duration) *CachedRegistry {
	return &CachedRegistry{next: next, store: store, ttl: ttl}
}

func (c *CachedRegistry) FindExact(ctx context.Context, name, region string) (*restaurant.CandidateRecord, error) {
	key := memo.Key("registry.exact", params(name, region)...)
	return memo.Fetch(ctx, c.store, &c.group, key, c.ttl, func(ctx context.Context) (*restaurant.CandidateRecord, error) {
		return c.next.FindExact(ctx, name, region)
	})
}

func (c *CachedRegistry) SearchPartial(ctx context.Context, name, region string) (*restaurant.SearchPage, error) {
	key := memo.Key("registry.partial", params(name, region)...)
	return memo.Fetch(ctx, c.store, &c.group, key, c.ttl, func(ctx context.Context) (*restaurant.SearchPage, error) {
		return c.next.SearchPartial(ctx, name, region)
	})
}

// CachedViolations memoizes a Violations source.
type CachedViolations struct {
	next  Violations
	store *memo.Store
	group memo.Group
	ttl   time.Duration
}

// NewCachedViolations wraps next with store.
func NewCachedViolations(next Violations, store *memo.Store, ttl time.Duration) *CachedViolations {
	return &CachedViolations{next: next, store: store, ttl: ttl}
}

func (c *CachedViolations) GetHistory(ctx context.Context, name, region string) (*restaurant.ViolationHistory, error) {
	key := memo.Key("violations.history", params(name, region)...)
	return memo.Fetch(ctx, c.store, &c.group, key, c.ttl, func(ctx context.Context) (*restaurant.ViolationHistory, error) {
		return c.next.GetHistory(ctx, name, region)
	})
}

// CachedProvider memoizes a RatingProvider. Keys include the provider name so
// providers sharing a store never collide.
type CachedProvider struct {
	next  RatingProvider
	store *memo.Store
	group memo.Group
	ttls  TTLs
}

// NewCachedProvider wraps next with store.
func NewCachedProvider(next RatingProvider, store *memo.Store, ttls TTLs) *CachedProvider {
	return &CachedProvider{next: next, store: store, ttls: ttls}
}

func (c *CachedProvider) Name() string { return c.next.Name() }

func (c *CachedProvider) SearchByName(ctx context.Context, name, region string) (*restaurant.Place, error) {
	key := memo.Key("place."+c.next.Name(), params(name, region)...)
	return memo.Fetch(ctx, c.store, &c.group, key, c.ttls.Places, func(ctx context.Context) (*restaurant.Place, error) {
		return c.next.SearchByName(ctx, name, region)
	})
}

func (c *CachedProvider) SearchByArea(ctx context.Context, area, category string) (*restaurant.AreaResult, error) {
	key := memo.Key("area."+c.next.Name(), normalize.RegionKey(area), normalize.Literal(category))
	return memo.Fetch(ctx, c.store, &c.group, key, c.ttls.Area, func(ctx context.Context) (*restaurant.AreaResult, error) {
		return c.next.SearchByArea(ctx, area, category)
	})
}
