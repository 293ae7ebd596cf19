package engine

import (
	"math"
	"testing"

	"dentastat/domain/survey"
)

// buildDataset derives and wraps records for comparison tests
func buildDataset(t *testing.T, records []survey.Record) *survey.Dataset {
	t.Helper()
	for i := range records {
		records[i].Derive()
	}
	return survey.NewDataset("test", records)
}

// sweetsRecords returns n records with the given sweets code and outcome code
func sweetsRecords(n, sweetsCode, outcomeCode int) []survey.Record {
	records := make([]survey.Record, n)
	for i := range records {
		records[i] = survey.Record{
			OutcomeCode: outcomeCode,
			SweetsCode:  sweetsCode,
			SodaCode:    2,
			DentistCode: 2,
		}
	}
	return records
}

// TestCompareGroupsKnownTable verifies the chi-square p-value and risk ratio
// against a hand-computed 2x2 table: sweets-eaters 3 of 5 with cavities,
// non-eaters 1 of 5.
func TestCompareGroupsKnownTable(t *testing.T) {
	var records []survey.Record
	records = append(records, sweetsRecords(3, 1, 1)...) // Yes, cavities
	records = append(records, sweetsRecords(2, 1, 2)...) // Yes, healthy
	records = append(records, sweetsRecords(1, 2, 1)...) // No, cavities
	records = append(records, sweetsRecords(4, 2, 2)...) // No, healthy
	ds := buildDataset(t, records)

	result := New().CompareGroups(ds, survey.FieldSweets, survey.IntakeYes, survey.IntakeNo)

	if result.SampleA != 5 || result.SampleB != 5 {
		t.Fatalf("samples = (%d, %d), want (5, 5)", result.SampleA, result.SampleB)
	}
	if math.Abs(result.RateA-0.6) > 1e-9 {
		t.Errorf("RateA = %f, want 0.6", result.RateA)
	}
	if math.Abs(result.RateB-0.2) > 1e-9 {
		t.Errorf("RateB = %f, want 0.2", result.RateB)
	}
	if math.Abs(result.RiskRatio-3.0) > 1e-9 {
		t.Errorf("RiskRatio = %f, want 3.0", result.RiskRatio)
	}
	// chi2 = 5/3 on 1 df for this table
	if math.Abs(result.PValue-0.19670) > 0.0005 {
		t.Errorf("PValue = %f, want ~0.1967", result.PValue)
	}
}

// TestCompareGroupsZeroDenominator verifies the no-evidence posture when the
// comparison group has no cavities
func TestCompareGroupsZeroDenominator(t *testing.T) {
	var records []survey.Record
	records = append(records, sweetsRecords(3, 1, 1)...) // Yes, cavities
	records = append(records, sweetsRecords(2, 1, 2)...) // Yes, healthy
	records = append(records, sweetsRecords(5, 2, 2)...) // No, all healthy
	ds := buildDataset(t, records)

	result := New().CompareGroups(ds, survey.FieldSweets, survey.IntakeYes, survey.IntakeNo)

	if result.RateB != 0 {
		t.Errorf("RateB = %f, want 0", result.RateB)
	}
	if result.RiskRatio != 0 {
		t.Errorf("RiskRatio = %f, want 0 for zero denominator", result.RiskRatio)
	}
	if result.RateA != 0.6 {
		t.Errorf("RateA = %f, want 0.6", result.RateA)
	}
}

// TestCompareGroupsEmptyRestriction verifies an empty restriction defaults to
// p=1.0 with zero rates instead of erroring
func TestCompareGroupsEmptyRestriction(t *testing.T) {
	ds := buildDataset(t, sweetsRecords(4, 3, 2)) // all "Other", neither group

	result := New().CompareGroups(ds, survey.FieldSweets, survey.IntakeYes, survey.IntakeNo)

	if result.PValue != 1.0 {
		t.Errorf("PValue = %f, want 1.0", result.PValue)
	}
	if result.RiskRatio != 0 || result.RateA != 0 || result.RateB != 0 {
		t.Errorf("rates = (%f, %f, %f), want all 0", result.RiskRatio, result.RateA, result.RateB)
	}
	if result.SampleA != 0 || result.SampleB != 0 {
		t.Errorf("samples = (%d, %d), want (0, 0)", result.SampleA, result.SampleB)
	}
}

// TestCompareGroupsOneEmptySubgroup verifies a one-sided restriction still
// yields a usable result
func TestCompareGroupsOneEmptySubgroup(t *testing.T) {
	var records []survey.Record
	records = append(records, sweetsRecords(3, 1, 1)...)
	records = append(records, sweetsRecords(2, 1, 2)...)
	ds := buildDataset(t, records)

	result := New().CompareGroups(ds, survey.FieldSweets, survey.IntakeYes, survey.IntakeNo)

	// Single-group table is degenerate for the test.
	if result.PValue != 1.0 {
		t.Errorf("PValue = %f, want 1.0 for degenerate table", result.PValue)
	}
	if result.RateB != 0 || result.SampleB != 0 {
		t.Errorf("empty subgroup: rate=%f n=%d, want 0/0", result.RateB, result.SampleB)
	}
	if math.Abs(result.RateA-0.6) > 1e-9 {
		t.Errorf("RateA = %f, want 0.6", result.RateA)
	}
}

// TestCompareGroupsSwappedSymmetry verifies swapping the groups inverts the
// risk ratio and keeps the p-value
func TestCompareGroupsSwappedSymmetry(t *testing.T) {
	var records []survey.Record
	records = append(records, sweetsRecords(3, 1, 1)...)
	records = append(records, sweetsRecords(2, 1, 2)...)
	records = append(records, sweetsRecords(1, 2, 1)...)
	records = append(records, sweetsRecords(4, 2, 2)...)
	ds := buildDataset(t, records)

	engine := New()
	forward := engine.CompareGroups(ds, survey.FieldSweets, survey.IntakeYes, survey.IntakeNo)
	backward := engine.CompareGroups(ds, survey.FieldSweets, survey.IntakeNo, survey.IntakeYes)

	if math.Abs(forward.PValue-backward.PValue) > 1e-12 {
		t.Errorf("p-values differ on swap: %f vs %f", forward.PValue, backward.PValue)
	}
	if math.Abs(forward.RiskRatio*backward.RiskRatio-1.0) > 1e-9 {
		t.Errorf("risk ratios not reciprocal: %f and %f", forward.RiskRatio, backward.RiskRatio)
	}
}

// TestCompareGroupsIdempotent verifies repeated calls on the same dataset give
// identical results
func TestCompareGroupsIdempotent(t *testing.T) {
	var records []survey.Record
	records = append(records, sweetsRecords(3, 1, 1)...)
	records = append(records, sweetsRecords(4, 2, 2)...)
	records = append(records, sweetsRecords(2, 2, 3)...)
	ds := buildDataset(t, records)

	engine := New()
	first := engine.CompareGroups(ds, survey.FieldSweets, survey.IntakeYes, survey.IntakeNo)
	second := engine.CompareGroups(ds, survey.FieldSweets, survey.IntakeYes, survey.IntakeNo)

	if first != second {
		t.Errorf("results differ across calls: %+v vs %+v", first, second)
	}
}

// TestCompareGroupsMissingOutcomeExcludedFromTable verifies records with a
// missing outcome code count toward rates but not the contingency table
func TestCompareGroupsMissingOutcomeExcludedFromTable(t *testing.T) {
	var records []survey.Record
	records = append(records, sweetsRecords(3, 1, 1)...)
	records = append(records, sweetsRecords(2, 1, 2)...)
	records = append(records, sweetsRecords(1, 2, 1)...)
	records = append(records, sweetsRecords(4, 2, 2)...)
	// Missing outcomes on the No side: rates shift, table does not.
	records = append(records, sweetsRecords(5, 2, survey.CodeMissing)...)
	ds := buildDataset(t, records)

	base := New().CompareGroups(ds, survey.FieldSweets, survey.IntakeYes, survey.IntakeNo)

	if base.SampleB != 10 {
		t.Errorf("SampleB = %d, want 10 including missing outcomes", base.SampleB)
	}
	if math.Abs(base.RateB-0.1) > 1e-9 {
		t.Errorf("RateB = %f, want 0.1", base.RateB)
	}
	// Table unchanged from the known 2x2, so the p-value matches it.
	if math.Abs(base.PValue-0.19670) > 0.0005 {
		t.Errorf("PValue = %f, want ~0.1967", base.PValue)
	}
}

// TestCompareGroupsTriStateOutcome verifies the Unknown outcome forms its own
// contingency column
func TestCompareGroupsTriStateOutcome(t *testing.T) {
	var records []survey.Record
	records = append(records, sweetsRecords(3, 1, 1)...)
	records = append(records, sweetsRecords(2, 1, 3)...) // Yes, unknown
	records = append(records, sweetsRecords(4, 2, 2)...)
	records = append(records, sweetsRecords(1, 2, 3)...) // No, unknown
	ds := buildDataset(t, records)

	result := New().CompareGroups(ds, survey.FieldSweets, survey.IntakeYes, survey.IntakeNo)

	if result.PValue <= 0 || result.PValue > 1 {
		t.Errorf("PValue = %f outside (0,1]", result.PValue)
	}
	// Unknown outcomes are not cavities.
	if math.Abs(result.RateA-0.6) > 1e-9 {
		t.Errorf("RateA = %f, want 0.6", result.RateA)
	}
	if result.RateB != 0 {
		t.Errorf("RateB = %f, want 0", result.RateB)
	}
}
