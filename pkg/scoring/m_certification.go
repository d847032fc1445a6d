package scoring

// CertificationIndicator is all-or-nothing on hygiene certification. When
// certification is not reported it follows whether a grade was issued.
type CertificationIndicator struct{}

func (c *CertificationIndicator) Key() string  { return KeyCertification }
func (c *CertificationIndicator) Name() string { return "위생 인증" }

func (c *CertificationIndicator) Evaluate(in Input) IndicatorResult {
	certified := gradeOf(in).HasGrade
	if in.Certified != nil {
		certified = *in.Certified
	}
	if certified {
		return IndicatorResult{Score: 100, Summary: "위생 인증 업소"}
	}
	return IndicatorResult{Score: 0, Summary: "위생 인증 없음"}
}
