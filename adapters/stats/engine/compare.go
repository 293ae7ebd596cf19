package engine

import (
	"math"

	"dentastat/domain/stats"
	"dentastat/domain/survey"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Engine computes group-comparison statistics over a normalized dataset.
// Each call is self-contained: no shared state, no caching of prior results.
type Engine struct{}

// New creates a comparison engine
func New() *Engine {
	return &Engine{}
}

// CompareGroups restricts the dataset to records whose derived field value is
// groupA or groupB, then computes a chi-square p-value over the group ×
// raw-outcome contingency table and the relative risk between the two groups'
// cavity rates.
//
// Degenerate inputs never error: an empty restriction yields p=1.0 with zero
// rates, an unusable contingency table yields p=1.0, an empty subgroup
// contributes a rate of 0.0, and a zero denominator yields a risk ratio of
// 0.0.
func (e *Engine) CompareGroups(ds *survey.Dataset, field survey.Field, groupA, groupB string) stats.ComparisonResult {
	var binA, binB []float64
	table := stats.NewContingencyTable()

	for _, r := range ds.Records {
		label := r.Label(field)
		if label != groupA && label != groupB {
			continue
		}
		// Missing outcome codes are excluded from the contingency table but
		// still count toward the subgroup rates, matching the rate's
		// definition as the mean of the binary indicator.
		if r.OutcomeCode != survey.CodeMissing {
			table.Add(label, r.OutcomeCode)
		}
		if label == groupA {
			binA = append(binA, float64(r.OutcomeBinary))
		} else {
			binB = append(binB, float64(r.OutcomeBinary))
		}
	}

	if len(binA) == 0 && len(binB) == 0 {
		return stats.ComparisonResult{PValue: 1.0}
	}

	rateA := meanOrZero(binA)
	rateB := meanOrZero(binB)

	riskRatio := 0.0
	if rateB > 0 {
		riskRatio = rateA / rateB
	}

	return stats.ComparisonResult{
		PValue:    chiSquareP(table),
		RiskRatio: riskRatio,
		RateA:     rateA,
		RateB:     rateB,
		SampleA:   len(binA),
		SampleB:   len(binB),
	}
}

// chiSquareP runs a chi-square test of independence on the table and returns
// the p-value. Tables unsuitable for the test default to 1.0 (not
// significant) instead of propagating an error.
func chiSquareP(t *stats.ContingencyTable) float64 {
	if t.Degenerate() {
		return 1.0
	}

	counts := t.Counts()
	rows := len(counts)
	cols := len(counts[0])
	total := float64(t.Total())

	rowTotals := make([]float64, rows)
	colTotals := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rowTotals[i] += float64(counts[i][j])
			colTotals[j] += float64(counts[i][j])
		}
	}

	chiSq := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			expected := rowTotals[i] * colTotals[j] / total
			if expected <= 0 {
				// Zero marginal: the test is undefined for this table.
				return 1.0
			}
			observed := float64(counts[i][j])
			chiSq += (observed - expected) * (observed - expected) / expected
		}
	}

	df := float64((rows - 1) * (cols - 1))
	if df <= 0 {
		return 1.0
	}

	chiDist := distuv.ChiSquared{K: df}
	p := 1 - chiDist.CDF(chiSq)
	return math.Min(math.Max(p, 0), 1)
}

// meanOrZero is the mean of the values, or 0.0 for an empty slice. The
// display layer always needs a number.
func meanOrZero(values []float64) float64 {
	m, err := mstats.Mean(values)
	if err != nil || math.IsNaN(m) {
		return 0
	}
	return m
}
