package stats

import (
	"dentastat/domain/survey"
)

// DefaultAlpha is the significance threshold applied by the presentation layer.
const DefaultAlpha = 0.05

// ComparisonResult is the immutable output of one group comparison.
// INVARIANTS:
// - PValue always present (0.0 to 1.0); degenerate comparisons yield 1.0
// - RateA/RateB always in [0, 1]; an empty subgroup yields 0.0
// - RiskRatio is RateA/RateB, or 0.0 when RateB is 0 (no-evidence posture)
type ComparisonResult struct {
	PValue    float64 `json:"p_value"`
	RiskRatio float64 `json:"risk_ratio"`
	RateA     float64 `json:"rate_a"`
	RateB     float64 `json:"rate_b"`
	SampleA   int     `json:"sample_a"`
	SampleB   int     `json:"sample_b"`
}

// Significant reports whether the comparison clears the given threshold
func (r ComparisonResult) Significant(alpha float64) bool {
	return r.PValue < alpha
}

// FactorConfig parameterizes one risk-factor comparison: which derived field
// to group by, which two values to contrast, and the ordered category list
// shown in charts.
type FactorConfig struct {
	Title      string       `json:"title"`
	Field      survey.Field `json:"field"`
	GroupA     string       `json:"group_a"`
	GroupB     string       `json:"group_b"`
	Categories []string     `json:"categories"`
	// Note is optional Markdown shown with the section.
	Note string `json:"note,omitempty"`
}

// DefaultFactors returns the three risk factors the dashboard analyzes.
func DefaultFactors() []FactorConfig {
	return []FactorConfig{
		{
			Title:      "Impact of Sweets",
			Field:      survey.FieldSweets,
			GroupA:     survey.IntakeYes,
			GroupB:     survey.IntakeNo,
			Categories: []string{survey.IntakeYes, survey.IntakeNo, survey.IntakeOther},
		},
		{
			Title:      "Impact of Soda",
			Field:      survey.FieldSoda,
			GroupA:     survey.IntakeYes,
			GroupB:     survey.IntakeNo,
			Categories: []string{survey.IntakeYes, survey.IntakeNo, survey.IntakeOther},
		},
		{
			Title:      "Impact of Dentist Visits",
			Field:      survey.FieldDentist,
			GroupA:     survey.DentistVisited,
			GroupB:     survey.DentistNever,
			Categories: []string{survey.DentistVisited, survey.DentistNever, survey.DentistDontRemember},
			Note: "**Paradox note:** a significant result here usually indicates " +
				"*reactive care* — children visiting the dentist because they already " +
				"have pain, not preventive visits causing cavities.",
		},
	}
}
