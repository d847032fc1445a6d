package dataset

import (
	"context"

	"github.com/safetable/safetable/pkg/normalize"
	"github.com/safetable/safetable/pkg/restaurant"
	"github.com/safetable/safetable/pkg/source"
)

// Name identifies the in-memory backend in errors and logs.
const Name = "dataset"

// Index serves a Dataset as a source.Registry and source.Violations. It is
// read-only after construction and safe for concurrent use.
type Index struct {
	records    []restaurant.CandidateRecord
	byKey      map[string][]int
	byLiteral  map[string][]int
	violations map[string][]restaurant.ViolationRecord
}

// NewIndex builds an Index over ds.
func NewIndex(ds *Dataset) *Index {
	ix := &Index{
		records:    ds.Records,
		byKey:      make(map[string][]int),
		byLiteral:  make(map[string][]int),
		violations: make(map[string][]restaurant.ViolationRecord),
	}
	for i, r := range ds.Records {
		ix.byKey[normalize.Compact(r.Name)] = append(ix.byKey[normalize.Compact(r.Name)], i)
		ix.byLiteral[normalize.Literal(r.Name)] = append(ix.byLiteral[normalize.Literal(r.Name)], i)
	}
	for _, v := range ds.Violations {
		lit := normalize.Literal(v.Name)
		ix.violations[lit] = append(ix.violations[lit], v)
	}
	return ix
}

// Len returns the number of registry records.
func (ix *Index) Len() int { return len(ix.records) }

// FindExact implements source.Registry.
func (ix *Index) FindExact(ctx context.Context, name, region string) (*restaurant.CandidateRecord, error) {
	key := normalize.Compact(name)
	if key == "" {
		return nil, nil
	}
	seen := make(map[int]bool)
	var candidates []restaurant.CandidateRecord
	for _, ids := range [][]int{ix.byKey[key], ix.byLiteral[normalize.Literal(name)]} {
		for _, i := range ids {
			if !seen[i] {
				seen[i] = true
				candidates = append(candidates, ix.records[i])
			}
		}
	}
	return source.PickExact(candidates, name, region), nil
}

// SearchPartial implements source.Registry.
func (ix *Index) SearchPartial(ctx context.Context, name, region string) (*restaurant.SearchPage, error) {
	return source.FilterPartial(ix.records, name, region), nil
}

// GetHistory implements source.Violations.
func (ix *Index) GetHistory(ctx context.Context, name, region string) (*restaurant.ViolationHistory, error) {
	h := restaurant.EmptyHistory()
	for _, v := range ix.violations[normalize.Literal(name)] {
		if source.InRegion(v.Holder(), region) {
			h.RecentItems = append(h.RecentItems, v.Item())
		}
	}
	h.TotalCount = len(h.RecentItems)
	return &h, nil
}

var (
	_ source.Registry   = (*Index)(nil)
	_ source.Violations = (*Index)(nil)
)
