package scoring

import "fmt"

// Profile names.
const (
	ProfileSixIndicator  = "six_indicator"
	ProfileFourIndicator = "four_indicator"
)

// Profile is a named indicator set with its weights. An engine is built with
// exactly one profile; profiles are never mixed within a score.
type Profile struct {
	Name       string
	Weights    Weights
	Indicators []Indicator
}

// SixIndicator returns the default profile.
func SixIndicator() Profile {
	return Profile{
		Name:    ProfileSixIndicator,
		Weights: SixIndicatorWeights(),
		Indicators: []Indicator{
			&HygieneGradeIndicator{},
			&ViolationHistoryIndicator{},
			&BusinessDurationIndicator{},
			&RatingIndicator{},
			&ReviewCountIndicator{},
			&FranchiseIndicator{},
		},
	}
}

// FourIndicator returns the certification-based profile.
func FourIndicator() Profile {
	return Profile{
		Name:    ProfileFourIndicator,
		Weights: FourIndicatorWeights(),
		Indicators: []Indicator{
			&HygieneGradeIndicator{},
			&ViolationHistoryIndicator{},
			&CertificationIndicator{},
			&FranchiseIndicator{},
		},
	}
}

// ProfileByName returns a built-in profile. Empty selects the default.
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "", ProfileSixIndicator:
		return SixIndicator(), nil
	case ProfileFourIndicator:
		return FourIndicator(), nil
	default:
		return Profile{}, fmt.Errorf("unknown scoring profile %q", name)
	}
}

// catalog holds every indicator so subset scores can reach indicators the
// active profile does not weight.
func catalog() map[string]Indicator {
	all := []Indicator{
		&HygieneGradeIndicator{},
		&ViolationHistoryIndicator{},
		&BusinessDurationIndicator{},
		&RatingIndicator{},
		&ReviewCountIndicator{},
		&FranchiseIndicator{},
		&CertificationIndicator{},
	}
	m := make(map[string]Indicator, len(all))
	for _, ind := range all {
		m[ind.Key()] = ind
	}
	return m
}
