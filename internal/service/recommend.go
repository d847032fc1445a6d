package service

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/safetable/safetable/pkg/match"
	"github.com/safetable/safetable/pkg/rank"
	"github.com/safetable/safetable/pkg/resolve"
	"github.com/safetable/safetable/pkg/restaurant"
)

// RecommendRequest asks for restaurants in an area.
type RecommendRequest struct {
	Area     string `json:"area"`
	Purpose  string `json:"purpose,omitempty"`
	Category string `json:"category,omitempty"`
	Priority string `json:"priority,omitempty"` // hygiene, rating, balanced
	Budget   string `json:"budget,omitempty"`   // low, medium, high, any
	Limit    int    `json:"limit,omitempty"`
}

// RankedList is the outcome of a recommendation. When the area was too broad
// or unknown, Status says so and Suggestions may name narrower areas.
type RankedList struct {
	Area            string                `json:"area"`
	Category        string                `json:"category,omitempty"`
	Priority        rank.Priority         `json:"priority"`
	Status          restaurant.AreaStatus `json:"status"`
	Message         string                `json:"message,omitempty"`
	Suggestions     []string              `json:"suggestions,omitempty"`
	Considered      int                   `json:"considered"`
	Recommendations []rank.Recommendation `json:"recommendations"`
}

// RecommendRestaurants searches an area on every provider, filters the
// pool, resolves and aggregates each candidate, and ranks them.
func (s *Service) RecommendRestaurants(ctx context.Context, req RecommendRequest) (*RankedList, error) {
	area := strings.TrimSpace(req.Area)
	if area == "" {
		return nil, invalid("추천받을 지역을 입력해 주세요.")
	}
	priority, err := rank.ParsePriority(req.Priority)
	if err != nil {
		return nil, invalid("우선순위는 hygiene, rating, balanced 중에서 골라 주세요.")
	}
	budget, err := rank.ParseBudget(req.Budget)
	if err != nil {
		return nil, invalid("예산은 low, medium, high, any 중에서 골라 주세요.")
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = rank.CategoryForPurpose(req.Purpose)
	}

	list := &RankedList{
		Area:            area,
		Category:        category,
		Priority:        priority,
		Recommendations: []rank.Recommendation{},
	}

	places, status, suggestions, err := s.searchArea(ctx, area, category)
	if err != nil {
		return nil, err
	}
	list.Status = status
	list.Suggestions = suggestions
	switch status {
	case restaurant.AreaTooMany:
		list.Message = "검색 범위가 너무 넓어요. 동 이름처럼 더 좁은 지역으로 다시 시도해 주세요."
		return list, nil
	case restaurant.AreaNotFound:
		list.Message = "해당 지역에서 식당을 찾지 못했어요."
		return list, nil
	}

	pool := rank.FilterPool(places, rank.PoolOptions{Category: category, Budget: budget})
	if len(pool) > s.poolSize {
		pool = pool[:s.poolSize]
	}
	list.Considered = len(pool)
	if len(pool) == 0 {
		list.Message = "조건에 맞는 식당이 없어요. 카테고리나 예산을 바꿔 보세요."
		return list, nil
	}

	entities, err := s.entities(ctx, pool, area)
	if err != nil {
		return nil, err
	}
	list.Recommendations = rank.Recommend(s.engine, entities, rank.RecommendOptions{Priority: priority, Limit: req.Limit})
	return list, nil
}

// searchArea merges area results from every provider in provider order. A
// failing provider is skipped; the call fails only when all of them fail.
func (s *Service) searchArea(ctx context.Context, area, category string) ([]restaurant.Place, restaurant.AreaStatus, []string, error) {
	results := make([]*restaurant.AreaResult, len(s.providers))
	errs := make([]error, len(s.providers))
	var wg sync.WaitGroup
	for i, p := range s.providers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := p.SearchByArea(ctx, area, category)
			if err != nil {
				s.log.Warn().Err(err).Str("provider", p.Name()).Str("area", area).Msg("area search failed")
				errs[i] = err
				return
			}
			results[i] = res
		}()
	}
	wg.Wait()

	var (
		places      []restaurant.Place
		suggestions []string
		ready       bool
		tooMany     bool
		failed      error
	)
	seen := make(map[string]bool)
	for i, res := range results {
		if res == nil {
			if failed == nil {
				failed = errs[i]
			}
			continue
		}
		switch res.Status {
		case restaurant.AreaReady:
			ready = true
			places = append(places, res.Restaurants...)
		case restaurant.AreaTooMany:
			tooMany = true
		}
		for _, sg := range res.Suggestions {
			if !seen[sg] {
				seen[sg] = true
				suggestions = append(suggestions, sg)
			}
		}
	}

	switch {
	case ready:
		return places, restaurant.AreaReady, suggestions, nil
	case tooMany:
		return nil, restaurant.AreaTooMany, suggestions, nil
	case failed != nil && allNil(results):
		return nil, "", nil, fromErr(failed)
	default:
		return nil, restaurant.AreaNotFound, suggestions, nil
	}
}

func allNil(results []*restaurant.AreaResult) bool {
	for _, r := range results {
		if r != nil {
			return false
		}
	}
	return true
}

// entities resolves and aggregates every pool place with bounded
// concurrency. A registry failure is terminal.
func (s *Service) entities(ctx context.Context, pool []restaurant.Place, area string) ([]*restaurant.UnifiedEntity, error) {
	out := make([]*restaurant.UnifiedEntity, len(pool))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, p := range pool {
		g.Go(func() error {
			e, err := s.entityFor(gctx, p, area)
			if err != nil {
				return err
			}
			out[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fromErr(err)
	}
	return out, nil
}

// entityFor resolves one provider place against the registry. An ambiguous
// registry answer is settled by matching the candidates against the place;
// a place with no registry record is kept ungraded.
func (s *Service) entityFor(ctx context.Context, p restaurant.Place, area string) (*restaurant.UnifiedEntity, error) {
	q := restaurant.Query{Name: p.Name, Region: area, IncludeHistory: true}
	out, err := s.resolver.Resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	if out.Status == resolve.StatusAmbiguous {
		name, ok := bestCandidate(out.Candidates, p)
		if !ok {
			return s.agg.Unregistered(p), nil
		}
		q.Name = name
		if out, err = s.resolver.Resolve(ctx, q); err != nil {
			return nil, err
		}
	}
	if out.Status != resolve.StatusResolved {
		return s.agg.Unregistered(p), nil
	}
	return s.agg.Aggregate(ctx, out, area)
}

// bestCandidate picks the candidate that best matches the place, first wins
// ties, and reports whether it is a match at all.
func bestCandidate(cands []resolve.Candidate, p restaurant.Place) (string, bool) {
	want := match.FromPlace(p)
	best := -1
	var bestScore float64
	for i, c := range cands {
		r := match.Restaurant(match.Subject{Name: c.Name, Address: c.Address}, want)
		if !r.IsMatch {
			continue
		}
		if best < 0 || r.Score > bestScore {
			best, bestScore = i, r.Score
		}
	}
	if best < 0 {
		return "", false
	}
	return cands[best].Name, true
}
