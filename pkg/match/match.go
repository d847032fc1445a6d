// Package match scores how well a registry record or provider place matches a
// query. The policy constants below define a deterministic total order used
// by the resolver for disambiguation.
package match

import (
	"github.com/safetable/safetable/pkg/normalize"
	"github.com/safetable/safetable/pkg/restaurant"
)

// Policy constants.
const (
	ExactNameScore       = 1.0
	ContainmentNameScore = 0.8
	NameWeight           = 0.7
	AddressWeight        = 0.3
	Threshold            = 0.7
)

// Subject is anything with a name and road/lot address forms.
type Subject struct {
	Name       string
	Address    string
	LotAddress string
}

// FromCandidate builds a Subject from a registry record.
func FromCandidate(r restaurant.CandidateRecord) Subject {
	return Subject{Name: r.Name, Address: r.Address, LotAddress: r.LotAddress}
}

// FromQuery builds a Subject from a query; the region stands in for both
// address forms.
func FromQuery(q restaurant.Query) Subject {
	return Subject{Name: q.Name, Address: q.Region, LotAddress: q.Region}
}

// FromPlace builds a Subject from a provider hit.
func FromPlace(p restaurant.Place) Subject {
	return Subject{Name: p.Name, Address: p.Address, LotAddress: p.LotAddress}
}

// Result is a combined match decision.
type Result struct {
	IsMatch      bool    `json:"is_match"`
	Score        float64 `json:"score"`
	NameScore    float64 `json:"name_score"`
	AddressScore float64 `json:"address_score"`
}

// Name scores two names in [0,1].
func Name(a, b string) float64 {
	ca, cb := normalize.Compact(a), normalize.Compact(b)
	if ca == "" || cb == "" {
		return 0
	}
	if ca == cb {
		return ExactNameScore
	}
	if normalize.ContainsEither(a, b) {
		return ContainmentNameScore
	}
	return jaccard(normalize.Tokens(a), normalize.Tokens(b))
}

// Address scores two subjects' addresses in [0,1], comparing road and lot
// forms independently and keeping the better one.
func Address(a, b Subject) float64 {
	road := overlap(normalize.AddressTokens(a.Address), normalize.AddressTokens(b.Address))
	lot := overlap(normalize.AddressTokens(a.LotAddress), normalize.AddressTokens(b.LotAddress))
	if lot > road {
		return lot
	}
	return road
}

// Restaurant blends name and address similarity into a match decision.
func Restaurant(candidate, query Subject) Result {
	ns := Name(candidate.Name, query.Name)
	as := Address(candidate, query)
	score := NameWeight*ns + AddressWeight*as
	return Result{
		IsMatch:      score >= Threshold,
		Score:        score,
		NameScore:    ns,
		AddressScore: as,
	}
}

// jaccard is |A∩B| / |A∪B| over token sets.
func jaccard(a, b []string) float64 {
	sa, sb := set(a), set(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	inter := 0
	for t := range sa {
		if sb[t] {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}

// overlap is |A∩B| / min(|A|,|B|), so a bare region fully contained in an
// address scores 1.
func overlap(a, b []string) float64 {
	sa, sb := set(a), set(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	inter := 0
	for t := range sa {
		if sb[t] {
			inter++
		}
	}
	small := len(sa)
	if len(sb) < small {
		small = len(sb)
	}
	return float64(inter) / float64(small)
}

func set(tokens []string) map[string]bool {
	s := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		s[t] = true
	}
	return s
}
