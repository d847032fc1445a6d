package rank

import (
	"fmt"
	"strings"

	"github.com/safetable/safetable/pkg/normalize"
	"github.com/safetable/safetable/pkg/restaurant"
)

// Budget caps the price tier of recommended places.
type Budget string

const (
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetHigh   Budget = "high"
	BudgetAny    Budget = "any"
)

var budgetTiers = map[Budget]int{
	BudgetLow:    1,
	BudgetMedium: 2,
	BudgetHigh:   4,
	BudgetAny:    4,
}

// ParseBudget validates a budget name. Empty selects BudgetAny.
func ParseBudget(s string) (Budget, error) {
	b := Budget(strings.ToLower(strings.TrimSpace(s)))
	if b == "" {
		return BudgetAny, nil
	}
	if _, ok := budgetTiers[b]; !ok {
		return "", fmt.Errorf("unknown budget %q", s)
	}
	return b, nil
}

// purposeCategories hints a category from a visit purpose.
var purposeCategories = map[string]string{
	"데이트": "레스토랑",
	"회식":  "고기",
	"가족":  "한식",
	"혼밥":  "분식",
	"카페":  "카페",
}

// CategoryForPurpose returns the category hint for a purpose, or "".
func CategoryForPurpose(purpose string) string {
	return purposeCategories[strings.TrimSpace(purpose)]
}

// PoolOptions filter a candidate pool.
type PoolOptions struct {
	Category string
	Budget   Budget
}

// FilterPool keeps places matching the category and budget and drops
// duplicates, preserving order. A place with an unknown price tier always
// passes the budget check.
func FilterPool(places []restaurant.Place, opts PoolOptions) []restaurant.Place {
	maxTier, ok := budgetTiers[opts.Budget]
	if !ok {
		maxTier = budgetTiers[BudgetAny]
	}
	seen := make(map[string]bool)
	var out []restaurant.Place
	for _, p := range places {
		if opts.Category != "" && !normalize.ContainsEither(p.Category, opts.Category) {
			continue
		}
		if tier := restaurant.PriceTier(p.PriceRange); tier > maxTier {
			continue
		}
		key := normalize.Compact(p.Name) + "|" + strings.Join(normalize.AddressTokens(p.Address), " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}
