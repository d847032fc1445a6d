// Package resolve maps a free-form (name, region) query onto exactly one
// hygiene registry record, or reports why it could not.
package resolve

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/safetable/safetable/pkg/match"
	"github.com/safetable/safetable/pkg/restaurant"
	"github.com/safetable/safetable/pkg/source"
)

// Status is the terminal state of a resolution.
type Status string

const (
	StatusResolved  Status = "RESOLVED"
	StatusNotFound  Status = "NOT_FOUND"
	StatusAmbiguous Status = "AMBIGUOUS"
)

// MaxCandidates bounds the candidate list of an ambiguous outcome.
const MaxCandidates = 5

// NotFoundMessage is shown when neither lookup stage finds a record.
const NotFoundMessage = "위생등급 정보를 찾을 수 없어요. 등급 미지정 업소이거나 상호명/지역이 정확하지 않을 수 있어요."

const (
	srcRegistry   = "registry"
	srcViolations = "violations"
)

// Candidate is a reduced registry record offered for disambiguation.
type Candidate struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Grade   string  `json:"grade"` // grade code or "등급없음"
	Score   float64 `json:"score"`
}

// Outcome is exactly one of resolved, not found or ambiguous.
type Outcome struct {
	Status Status `json:"status"`

	// Set when RESOLVED.
	Record     *restaurant.CandidateRecord `json:"record,omitempty"`
	Hygiene    restaurant.HygieneGrade     `json:"hygiene"`
	Violations restaurant.ViolationHistory `json:"violations"`

	// Set when AMBIGUOUS.
	Candidates []Candidate `json:"candidates,omitempty"`
	TotalCount int         `json:"total_count,omitempty"`

	// Set when NOT_FOUND.
	Message string `json:"message,omitempty"`
}

// Resolver runs the exact → partial → disambiguate state machine.
type Resolver struct {
	registry   source.Registry
	violations source.Violations
	now        func() time.Time
	log        zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock sets the clock used to window violation history.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// New creates a Resolver.
func New(registry source.Registry, violations source.Violations, opts ...Option) *Resolver {
	r := &Resolver{
		registry:   registry,
		violations: violations,
		now:        time.Now,
		log:        zerolog.Nop(),
	}
	for _, o := range opts {
		o(r)
	}
	r.log = r.log.With().Str("component", "resolver").Logger()
	return r
}

// Resolve resolves q. The stages run strictly in sequence; a failure at any
// stage is terminal and no partial outcome is returned with it.
func (r *Resolver) Resolve(ctx context.Context, q restaurant.Query) (*Outcome, error) {
	log := r.log.With().Str("name", q.Name).Str("region", q.Region).Logger()

	log.Debug().Str("state", "EXACT_LOOKUP").Msg("resolving")
	var exact *restaurant.CandidateRecord
	err := guard(srcRegistry, func() error {
		var err error
		exact, err = r.registry.FindExact(ctx, q.Name, q.Region)
		return err
	})
	if err != nil {
		return nil, r.fail(log, srcRegistry, err)
	}
	if exact != nil {
		return r.resolved(ctx, log, q, *exact)
	}

	log.Debug().Str("state", "PARTIAL_SEARCH").Msg("exact lookup missed")
	var page *restaurant.SearchPage
	err = guard(srcRegistry, func() error {
		var err error
		page, err = r.registry.SearchPartial(ctx, q.Name, q.Region)
		return err
	})
	if err != nil {
		return nil, r.fail(log, srcRegistry, err)
	}

	var items []restaurant.CandidateRecord
	if page != nil {
		items = page.Items
	}
	switch len(items) {
	case 0:
		log.Debug().Str("state", string(StatusNotFound)).Msg("no registry record")
		return &Outcome{Status: StatusNotFound, Message: NotFoundMessage, Violations: restaurant.EmptyHistory()}, nil
	case 1:
		return r.resolved(ctx, log, q, items[0])
	}

	total := page.TotalCount
	if total < len(items) {
		total = len(items)
	}
	cands := rankCandidates(items, q)
	log.Debug().Str("state", string(StatusAmbiguous)).Int("hits", len(items)).Msg("multiple registry records")
	return &Outcome{
		Status:     StatusAmbiguous,
		Candidates: cands,
		TotalCount: total,
		Violations: restaurant.EmptyHistory(),
	}, nil
}

func (r *Resolver) resolved(ctx context.Context, log zerolog.Logger, q restaurant.Query, rec restaurant.CandidateRecord) (*Outcome, error) {
	out := &Outcome{
		Status:     StatusResolved,
		Record:     &rec,
		Hygiene:    rec.Hygiene(),
		Violations: restaurant.EmptyHistory(),
	}
	if !q.IncludeHistory {
		log.Debug().Str("state", string(StatusResolved)).Msg("resolved")
		return out, nil
	}

	region := rec.Region
	if region == "" {
		region = q.Region
	}
	var hist *restaurant.ViolationHistory
	err := guard(srcViolations, func() error {
		var err error
		hist, err = r.violations.GetHistory(ctx, rec.Name, region)
		return err
	})
	if err != nil {
		return nil, r.fail(log, srcViolations, err)
	}
	if hist != nil {
		out.Violations = hist.Window(r.now())
	}
	log.Debug().Str("state", string(StatusResolved)).Int("violations", out.Violations.TotalCount).Msg("resolved")
	return out, nil
}

func (r *Resolver) fail(log zerolog.Logger, src string, err error) *Error {
	e := classify(src, err)
	log.Warn().Err(err).Str("kind", string(e.Kind)).Str("source", e.Source).Str("code", e.Code).Msg("resolution failed")
	return e
}

// rankCandidates scores every record against the query and keeps the best
// MaxCandidates. Equal scores keep registry order.
func rankCandidates(items []restaurant.CandidateRecord, q restaurant.Query) []Candidate {
	qs := match.FromQuery(q)
	cands := make([]Candidate, len(items))
	for i, it := range items {
		cands[i] = Candidate{
			Name:    it.Name,
			Address: it.Address,
			Grade:   it.Hygiene().GradeOrNone(),
			Score:   match.Restaurant(match.FromCandidate(it), qs).Score,
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Score > cands[j].Score })
	if len(cands) > MaxCandidates {
		cands = cands[:MaxCandidates]
	}
	return cands
}

// guard runs fn, converting a panic into UNKNOWN_ERROR.
func guard(src string, fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = panicError(src, rec)
		}
	}()
	return fn()
}
