package postgres

import (
	"context"
	"database/sql"
	"strconv"

	"dentastat/domain/core"
	"dentastat/domain/survey"

	"github.com/jmoiron/sqlx"
)

// SurveySource reads raw survey responses from a Postgres table. It is an
// alternative backing store to the file reader and implements
// ports.RawSource; the normalizer treats its rows exactly like CSV cells.
type SurveySource struct {
	db *sqlx.DB
}

// NewSurveySource creates a Postgres-backed raw source
func NewSurveySource(db *sqlx.DB) *SurveySource {
	return &SurveySource{db: db}
}

// Name identifies the source in logs and dataset metadata
func (s *SurveySource) Name() string {
	return "postgres:survey_responses"
}

type responseRow struct {
	Gender      sql.NullString  `db:"gender"`
	Age         sql.NullFloat64 `db:"age"`
	OutcomeCode sql.NullFloat64 `db:"outcome_code"`
	SweetsCode  sql.NullFloat64 `db:"sweets_code"`
	SodaCode    sql.NullFloat64 `db:"soda_code"`
	DentistCode sql.NullFloat64 `db:"dentist_code"`
	Complaint   sql.NullString  `db:"complaint"`
}

// Load reads every survey response row and rebuilds the canonical raw table.
// Numeric codes are rendered back to strings so the normalizer sees the same
// cell values a CSV export would carry.
func (s *SurveySource) Load(ctx context.Context) (*survey.RawTable, error) {
	const query = `
		SELECT gender, age, outcome_code, sweets_code, soda_code, dentist_code, complaint
		FROM survey_responses
		ORDER BY id`

	var rows []responseRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, core.NewSourceError(s.Name(), err)
	}

	table := &survey.RawTable{
		Headers: []string{
			survey.ColGender,
			survey.ColAge,
			survey.ColOutcome,
			survey.ColSweets,
			survey.ColSoda,
			survey.ColDentist,
			survey.ColComplaint,
		},
	}

	for _, row := range rows {
		table.Rows = append(table.Rows, survey.RawRow{
			survey.ColGender:    nullString(row.Gender),
			survey.ColAge:       nullFloat(row.Age),
			survey.ColOutcome:   nullFloat(row.OutcomeCode),
			survey.ColSweets:    nullFloat(row.SweetsCode),
			survey.ColSoda:      nullFloat(row.SodaCode),
			survey.ColDentist:   nullFloat(row.DentistCode),
			survey.ColComplaint: nullString(row.Complaint),
		})
	}

	return table, nil
}

func nullString(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

func nullFloat(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}
