package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/safetable/safetable/pkg/rank"
	"github.com/safetable/safetable/pkg/restaurant"
)

// Comparison bounds.
const (
	MinCompare = 2
	MaxCompare = 5
)

// Identifier names one restaurant to compare.
type Identifier struct {
	Name   string `json:"name"`
	Region string `json:"region"`
}

// NotFoundEntry is an identifier that could not be resolved.
type NotFoundEntry struct {
	Identifier
	Kind   Kind   `json:"kind"`
	Reason string `json:"reason"`
}

// ComparisonResult partitions the identifiers into found and not found and,
// with at least two found, compares them.
type ComparisonResult struct {
	Status     rank.Status                 `json:"status"`
	Found      []*restaurant.UnifiedEntity `json:"found"`
	NotFound   []NotFoundEntry             `json:"not_found"`
	Comparison *rank.Comparison            `json:"comparison"`
}

// CompareRestaurants resolves 2-5 restaurants concurrently and compares the
// ones that resolved. Per-restaurant failures never fail the call.
func (s *Service) CompareRestaurants(ctx context.Context, ids []Identifier, criteria []string) (*ComparisonResult, error) {
	if len(ids) < MinCompare || len(ids) > MaxCompare {
		return nil, invalid("비교할 식당을 %d~%d곳 입력해 주세요.", MinCompare, MaxCompare)
	}
	crit, err := rank.ParseCriteria(criteria)
	if err != nil {
		return nil, invalid("비교 기준은 hygiene, rating, price 중에서 골라 주세요.")
	}

	entities := make([]*restaurant.UnifiedEntity, len(ids))
	errs := make([]*Error, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			e, err := s.Lookup(ctx, id.Name, id.Region)
			if err != nil {
				errs[i] = fromErr(err)
				return nil
			}
			entities[i] = e
			return nil
		})
	}
	_ = g.Wait()

	res := &ComparisonResult{
		Found:    []*restaurant.UnifiedEntity{},
		NotFound: []NotFoundEntry{},
	}
	for i, id := range ids {
		if errs[i] != nil {
			s.log.Debug().Str("name", id.Name).Str("kind", string(errs[i].Kind)).Msg("comparison entry not found")
			res.NotFound = append(res.NotFound, NotFoundEntry{Identifier: id, Kind: errs[i].Kind, Reason: errs[i].Message})
			continue
		}
		res.Found = append(res.Found, entities[i])
	}
	res.Status = rank.StatusFor(len(res.Found), len(res.NotFound))
	res.Comparison = rank.Compare(s.engine, res.Found, crit)
	return res, nil
}
