// Package rank compares and recommends restaurants from their trust scores.
// Everything here is pure computation over already-aggregated entities.
package rank

import (
	"fmt"
	"strings"

	"github.com/safetable/safetable/pkg/restaurant"
	"github.com/safetable/safetable/pkg/scoring"
)

// Criterion is a comparison axis.
type Criterion string

const (
	CriterionHygiene Criterion = "hygiene"
	CriterionRating  Criterion = "rating"
	CriterionPrice   Criterion = "price"
)

// AllCriteria is used when the caller names none.
var AllCriteria = []Criterion{CriterionHygiene, CriterionRating, CriterionPrice}

// criterionKeys maps a criterion to the indicators it covers. Price has no
// indicator of its own; it only drives bestValue.
var criterionKeys = map[Criterion][]string{
	CriterionHygiene: {scoring.KeyHygieneGrade, scoring.KeyViolationHistory},
	CriterionRating:  {scoring.KeyRating, scoring.KeyReviewCount},
	CriterionPrice:   nil,
}

// ParseCriteria validates criterion names. Empty input selects all criteria.
func ParseCriteria(names []string) ([]Criterion, error) {
	if len(names) == 0 {
		return AllCriteria, nil
	}
	seen := make(map[Criterion]bool)
	var out []Criterion
	for _, n := range names {
		c := Criterion(strings.ToLower(strings.TrimSpace(n)))
		if _, ok := criterionKeys[c]; !ok {
			return nil, fmt.Errorf("unknown comparison criterion %q", n)
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}

// Status summarizes how many of the requested restaurants were found.
type Status string

const (
	StatusComplete     Status = "complete"
	StatusPartial      Status = "partial"
	StatusInsufficient Status = "insufficient"
)

// StatusFor returns the comparison status for the found/not-found split.
func StatusFor(found, notFound int) Status {
	switch {
	case found < 2:
		return StatusInsufficient
	case notFound > 0:
		return StatusPartial
	default:
		return StatusComplete
	}
}

// EntityScores are one entity's comparison sub-scores.
type EntityScores struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Address         string        `json:"address,omitempty"`
	HygieneScore    int           `json:"hygiene_score"`
	PopularityScore int           `json:"popularity_score"`
	OverallScore    int           `json:"overall_score"`
	TrustScore      int           `json:"trust_score"`
	Grade           scoring.Grade `json:"grade"`
	PriceTier       int           `json:"price_tier"` // 0 when unknown
}

// Comparison is the side-by-side result for two or more entities. The Best*
// fields hold entity IDs.
type Comparison struct {
	Criteria       []Criterion    `json:"criteria"`
	Scores         []EntityScores `json:"scores"`
	BestHygiene    string         `json:"best_hygiene"`
	BestRating     string         `json:"best_rating"`
	BestValue      string         `json:"best_value"`
	Recommendation string         `json:"recommendation"`
}

// Label returns a display name for the entity with the given ID. A name
// shared by several compared entities is suffixed with the address.
func (c *Comparison) Label(id string) string {
	var s *EntityScores
	for i := range c.Scores {
		if c.Scores[i].ID == id {
			s = &c.Scores[i]
			break
		}
	}
	if s == nil {
		return id
	}
	for _, o := range c.Scores {
		if o.ID != s.ID && o.Name == s.Name && s.Address != "" {
			return fmt.Sprintf("%s(%s)", s.Name, s.Address)
		}
	}
	return s.Name
}

// unknownTier stands in for a missing price range when computing value.
const unknownTier = 2

// Compare scores entities side by side. It returns nil for fewer than two
// entities. Ties go to the entity listed first.
func Compare(engine *scoring.Engine, entities []*restaurant.UnifiedEntity, criteria []Criterion) *Comparison {
	if len(entities) < 2 {
		return nil
	}
	if len(criteria) == 0 {
		criteria = AllCriteria
	}

	var keys []string
	for _, c := range criteria {
		keys = append(keys, criterionKeys[c]...)
	}

	cmp := &Comparison{Criteria: criteria, Scores: make([]EntityScores, len(entities))}
	bestH, bestR, bestV := 0, 0, 0
	var bestValue float64
	for i, e := range entities {
		in := scoring.FromEntity(e)
		full := engine.Score(in)
		s := EntityScores{
			ID:              e.ID,
			Name:            e.Name,
			Address:         e.Address,
			HygieneScore:    engine.SubScore(in, criterionKeys[CriterionHygiene]...),
			PopularityScore: engine.SubScore(in, criterionKeys[CriterionRating]...),
			TrustScore:      full.Score,
			Grade:           full.Grade,
			PriceTier:       restaurant.PriceTier(e.PriceRange),
		}
		if len(keys) == 0 {
			s.OverallScore = full.Score
		} else {
			s.OverallScore = engine.SubScore(in, keys...)
		}
		cmp.Scores[i] = s

		tier := s.PriceTier
		if tier == 0 {
			tier = unknownTier
		}
		value := float64(s.OverallScore) / float64(tier)
		if i == 0 {
			bestValue = value
			continue
		}
		if s.HygieneScore > cmp.Scores[bestH].HygieneScore {
			bestH = i
		}
		if s.PopularityScore > cmp.Scores[bestR].PopularityScore {
			bestR = i
		}
		if value > bestValue {
			bestV, bestValue = i, value
		}
	}

	cmp.BestHygiene = entities[bestH].ID
	cmp.BestRating = entities[bestR].ID
	cmp.BestValue = entities[bestV].ID
	cmp.Recommendation = recommendation(cmp)
	return cmp
}

func recommendation(c *Comparison) string {
	var parts []string
	for _, cr := range c.Criteria {
		switch cr {
		case CriterionHygiene:
			parts = append(parts, fmt.Sprintf("위생은 %s", c.Label(c.BestHygiene)))
		case CriterionRating:
			parts = append(parts, fmt.Sprintf("평점은 %s", c.Label(c.BestRating)))
		case CriterionPrice:
			parts = append(parts, fmt.Sprintf("가성비는 %s", c.Label(c.BestValue)))
		}
	}
	return strings.Join(parts, ", ") + " 쪽이 가장 좋아요."
}
