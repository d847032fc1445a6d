package scoring

// FranchiseIndicator gives franchises a small bonus for standardized
// operations.
type FranchiseIndicator struct{}

func (f *FranchiseIndicator) Key() string  { return KeyFranchise }
func (f *FranchiseIndicator) Name() string { return "프랜차이즈" }

func (f *FranchiseIndicator) Evaluate(in Input) IndicatorResult {
	if in.IsFranchise {
		return IndicatorResult{Score: 70, Summary: "프랜차이즈 매장"}
	}
	return IndicatorResult{Score: 50, Summary: "개인 매장"}
}
