package scoring

import "github.com/safetable/safetable/pkg/restaurant"

// FromEntity extracts the indicator inputs from a unified entity.
func FromEntity(e *restaurant.UnifiedEntity) Input {
	in := Input{
		ViolationCount: e.Violations.TotalCount,
		BusinessYears:  e.BusinessYears,
		Rating:         e.Rating(),
		ReviewCount:    e.ReviewCount,
		IsFranchise:    e.IsFranchise,
	}
	if e.Hygiene.HasGrade {
		g := e.Hygiene.Grade
		in.HygieneGrade = &g
	}
	return in
}
