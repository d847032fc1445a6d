package scoring

import "sort"

// Indicator keys.
const (
	KeyHygieneGrade     = "hygiene_grade"
	KeyViolationHistory = "violation_history"
	KeyBusinessDuration = "business_duration"
	KeyRating           = "rating"
	KeyReviewCount      = "review_count"
	KeyFranchise        = "franchise"
	KeyCertification    = "certification"
)

// Weights maps indicator keys to their share of the final score.
type Weights map[string]float64

// SixIndicatorWeights returns the default weights.
func SixIndicatorWeights() Weights {
	return Weights{
		KeyHygieneGrade:     0.25,
		KeyViolationHistory: 0.20,
		KeyBusinessDuration: 0.20,
		KeyRating:           0.20,
		KeyReviewCount:      0.10,
		KeyFranchise:        0.05,
	}
}

// FourIndicatorWeights returns the certification-based weights.
func FourIndicatorWeights() Weights {
	return Weights{
		KeyHygieneGrade:     0.35,
		KeyViolationHistory: 0.30,
		KeyCertification:    0.25,
		KeyFranchise:        0.10,
	}
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	var total float64
	for _, k := range w.Keys() {
		total += w[k]
	}
	return total
}

// Keys returns the keys in a fixed order so sums are reproducible.
func (w Weights) Keys() []string {
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Normalize returns a copy scaled to sum to 1. Negative weights are dropped.
// A zero-sum input is returned unchanged.
func (w Weights) Normalize() Weights {
	out := make(Weights, len(w))
	var total float64
	for k, v := range w {
		if v > 0 {
			out[k] = v
			total += v
		}
	}
	if total == 0 {
		return out
	}
	for k := range out {
		out[k] /= total
	}
	return out
}

// Emphasize multiplies the given keys by factor and re-normalizes. Keys the
// weights do not contain are ignored.
func (w Weights) Emphasize(factor float64, keys ...string) Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	for _, k := range keys {
		if v, ok := out[k]; ok {
			out[k] = v * factor
		}
	}
	return out.Normalize()
}

// Restrict returns only the given keys, not re-normalized.
func (w Weights) Restrict(keys ...string) Weights {
	out := make(Weights, len(keys))
	for _, k := range keys {
		if v, ok := w[k]; ok {
			out[k] = v
		}
	}
	return out
}
