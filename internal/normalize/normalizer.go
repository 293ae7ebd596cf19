package normalize

import (
	"math"
	"strconv"
	"strings"

	"dentastat/domain/core"
	"dentastat/domain/survey"
	"dentastat/internal/logging"
)

// Normalizer turns a raw survey table into a normalized dataset: gender
// cleaned, codes parsed, and every derived label filled through the fixed
// mappings. The input table is never mutated.
type Normalizer struct {
	log *logging.Logger
}

// New creates a normalizer
func New(log *logging.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// Normalize validates the required columns and derives per-record labels and
// the binary cavity indicator. Missing or unmapped codes resolve to fallback
// categories rather than errors; a missing column or an empty table is a
// DataUnavailable condition and fails the whole run.
func (n *Normalizer) Normalize(source string, raw *survey.RawTable) (*survey.Dataset, error) {
	if raw == nil || len(raw.Rows) == 0 {
		return nil, core.NewSourceError(source, core.ErrInsufficientData)
	}
	if missing := raw.MissingColumns(); len(missing) > 0 {
		return nil, core.NewColumnMissingError(missing[0])
	}

	records := make([]survey.Record, 0, len(raw.Rows))
	fallbacks := 0
	for _, row := range raw.Rows {
		rec := survey.Record{
			Gender:      strings.ToUpper(strings.TrimSpace(row[survey.ColGender])),
			Age:         parseAge(row[survey.ColAge]),
			OutcomeCode: parseCode(row[survey.ColOutcome]),
			SweetsCode:  parseCode(row[survey.ColSweets]),
			SodaCode:    parseCode(row[survey.ColSoda]),
			DentistCode: parseCode(row[survey.ColDentist]),
			Complaint:   strings.TrimSpace(row[survey.ColComplaint]),
		}
		fallbacks += rec.Derive()
		records = append(records, rec)
	}

	ds := survey.NewDataset(source, records)
	ds.FallbackCount = fallbacks
	if fallbacks > 0 {
		n.log.Warn("normalize: %d survey codes fell back to default categories (%d records)", fallbacks, len(records))
	}
	n.log.Info("normalize: %d records loaded from %s", len(records), source)
	return ds, nil
}

// parseCode parses a survey code cell. Exports render codes as "1", "1.0",
// or empty; anything absent, non-numeric, or non-integral is a missing code,
// which downstream mappings resolve to their fallback category.
func parseCode(cell string) int {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return survey.CodeMissing
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(f) || f != math.Trunc(f) {
		return survey.CodeMissing
	}
	return int(f)
}

// parseAge parses the age cell; unparseable ages become 0 and the record is
// kept, so code-quality problems in one column never drop respondents.
func parseAge(cell string) int {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return int(f)
}
