package source

import (
	"github.com/safetable/safetable/pkg/normalize"
	"github.com/safetable/safetable/pkg/restaurant"
)

// InRegion reports whether every token of region appears in the record's
// road address, lot address or region. An empty region matches everything.
func InRegion(rec restaurant.CandidateRecord, region string) bool {
	want := normalize.AddressTokens(region)
	if len(want) == 0 {
		return true
	}
	have := make(map[string]bool)
	for _, s := range []string{rec.Address, rec.LotAddress, rec.Region} {
		for _, t := range normalize.AddressTokens(s) {
			have[t] = true
		}
	}
	for _, t := range want {
		if !have[t] {
			return false
		}
	}
	return true
}

// PickExact selects the exact-lookup answer among records of one region: the
// single record whose literal name equals name, else the single record whose
// normalized name does. Anything else is a miss so the relaxed search can
// disambiguate.
func PickExact(records []restaurant.CandidateRecord, name, region string) *restaurant.CandidateRecord {
	lit, cmp := normalize.Literal(name), normalize.Compact(name)
	if cmp == "" {
		return nil
	}
	var literal, normalized []int
	for i, r := range records {
		if !InRegion(r, region) {
			continue
		}
		if normalize.Literal(r.Name) == lit {
			literal = append(literal, i)
		}
		if normalize.Compact(r.Name) == cmp {
			normalized = append(normalized, i)
		}
	}
	switch {
	case len(literal) == 1:
		rec := records[literal[0]]
		return &rec
	case len(literal) == 0 && len(normalized) == 1:
		rec := records[normalized[0]]
		return &rec
	}
	return nil
}

// FilterPartial keeps records of region whose normalized name contains, or is
// contained by, name. Order is preserved.
func FilterPartial(records []restaurant.CandidateRecord, name, region string) *restaurant.SearchPage {
	page := &restaurant.SearchPage{Items: []restaurant.CandidateRecord{}}
	for _, r := range records {
		if InRegion(r, region) && normalize.ContainsEither(r.Name, name) {
			page.Items = append(page.Items, r)
		}
	}
	page.TotalCount = len(page.Items)
	return page
}
