package scoring

import (
	"math"
	"sort"
)

// Indicator is the interface that all trust indicators implement.
type Indicator interface {
	// Key returns the machine-readable indicator identifier.
	Key() string
	// Name returns the human-readable indicator name.
	Name() string
	// Evaluate computes the indicator's 0-100 sub-score. Weight and
	// Contribution are filled in by the engine.
	Evaluate(in Input) IndicatorResult
}

// Engine scores inputs against one profile.
type Engine struct {
	profile Profile
	all     map[string]Indicator
}

// NewEngine creates a scoring engine for the given profile.
func NewEngine(p Profile) *Engine {
	all := catalog()
	for _, ind := range p.Indicators {
		all[ind.Key()] = ind
	}
	return &Engine{profile: p, all: all}
}

// Profile returns the engine's profile.
func (e *Engine) Profile() Profile { return e.profile }

// Score evaluates every indicator of the profile and produces a complete
// TrustScoreResult. Same input, same output.
func (e *Engine) Score(in Input) *TrustScoreResult {
	return e.ScoreWith(in, e.profile.Weights)
}

// ScoreWith scores the input with custom weights. Weights are normalized to
// sum to 1; keys with no indicator are ignored.
func (e *Engine) ScoreWith(in Input, w Weights) *TrustScoreResult {
	norm := w.Normalize()
	result := &TrustScoreResult{
		Profile:         e.profile.Name,
		IndicatorScores: make(map[string]int),
	}

	var total float64
	for _, ind := range e.ordered(norm) {
		r := ind.Evaluate(in)
		r.Key = ind.Key()
		r.Name = ind.Name()
		r.Weight = norm[r.Key]
		r.Contribution = r.Weight * float64(r.Score)
		total += r.Contribution
		result.Details = append(result.Details, r)
		result.IndicatorScores[r.Key] = r.Score
	}

	result.Score = roundScore(total)
	result.Grade = GradeFromScore(result.Score)
	result.Message = result.Grade.Message()
	return result
}

// SubScore is the weighted mean of the named indicators using the profile's
// weights. When none of them carries weight in the profile the plain mean is
// used instead.
func (e *Engine) SubScore(in Input, keys ...string) int {
	w := e.profile.Weights.Restrict(keys...)
	if w.Sum() > 0 {
		return e.ScoreWith(in, w).Score
	}

	var sum float64
	var n int
	for _, k := range keys {
		ind, ok := e.all[k]
		if !ok {
			continue
		}
		sum += float64(ind.Evaluate(in).Score)
		n++
	}
	if n == 0 {
		return 0
	}
	return roundScore(sum / float64(n))
}

// Indicator returns a single indicator result for the input.
func (e *Engine) Indicator(in Input, key string) (IndicatorResult, bool) {
	ind, ok := e.all[key]
	if !ok {
		return IndicatorResult{}, false
	}
	r := ind.Evaluate(in)
	r.Key = ind.Key()
	r.Name = ind.Name()
	return r, true
}

// ordered returns the indicators with positive weight: profile order first,
// then any extra keys alphabetically.
func (e *Engine) ordered(w Weights) []Indicator {
	var out []Indicator
	seen := make(map[string]bool)
	for _, ind := range e.profile.Indicators {
		if w[ind.Key()] > 0 {
			out = append(out, ind)
			seen[ind.Key()] = true
		}
	}
	var extra []string
	for k, v := range w {
		if v > 0 && !seen[k] {
			if _, ok := e.all[k]; ok {
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		out = append(out, e.all[k])
	}
	return out
}

// roundScore rounds half up and clamps to 0..100.
func roundScore(x float64) int {
	n := int(math.Floor(x + 0.5 + 1e-9))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
