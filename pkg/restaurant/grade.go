package restaurant

import "strings"

// HygieneGrade is the normalized government hygiene grade.
type HygieneGrade struct {
	HasGrade bool   `json:"has_grade"`
	Grade    string `json:"grade,omitempty"` // AAA, AA, A
	Stars    int    `json:"stars"`
	Label    string `json:"label"`
}

// NoGradeLabel is shown for establishments without a designated grade.
const NoGradeLabel = "등급없음"

var gradeTiers = []struct {
	grade   string
	stars   int
	label   string
	aliases []string
}{
	{"AAA", 3, "매우 우수", []string{"AAA", "매우우수", "3"}},
	{"AA", 2, "우수", []string{"AA", "우수", "2"}},
	{"A", 1, "좋음", []string{"A", "좋음", "1"}},
}

// ParseGrade maps a registry grade string to a HygieneGrade. Unknown or empty
// values yield the ungraded result.
func ParseGrade(raw string) HygieneGrade {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	for _, t := range gradeTiers {
		for _, a := range t.aliases {
			if key == a {
				return HygieneGrade{HasGrade: true, Grade: t.grade, Stars: t.stars, Label: t.label}
			}
		}
	}
	return HygieneGrade{Label: NoGradeLabel}
}

// GradeOrNone returns the grade code, or NoGradeLabel when ungraded.
func (g HygieneGrade) GradeOrNone() string {
	if !g.HasGrade {
		return NoGradeLabel
	}
	return g.Grade
}
