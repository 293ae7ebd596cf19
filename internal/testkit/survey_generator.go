package testkit

import (
	"context"
	"fmt"
	"math/rand"

	"dentastat/domain/survey"
)

// GeneratorConfig configures the synthetic survey generator
type GeneratorConfig struct {
	RowCount int   `json:"row_count"`
	Seed     int64 `json:"seed"`
	// CavityRateBase is the cavity probability for low-risk children.
	CavityRateBase float64 `json:"cavity_rate_base"`
	// SweetsRiskBoost is added to the cavity probability for frequent
	// sweets eaters, planting a detectable association.
	SweetsRiskBoost float64 `json:"sweets_risk_boost"`
	// DirtyCodeRate is the share of rows carrying out-of-range or missing
	// codes, exercising the fallback mappings.
	DirtyCodeRate float64 `json:"dirty_code_rate"`
	ComplaintRate float64 `json:"complaint_rate"`
}

// DefaultGeneratorConfig returns sensible defaults for synthetic survey data
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		RowCount:        400,
		Seed:            42,
		CavityRateBase:  0.2,
		SweetsRiskBoost: 0.3,
		DirtyCodeRate:   0.05,
		ComplaintRate:   0.2,
	}
}

var complaints = []string{
	"mi fanno male i denti",
	"ho paura del trapano",
	"non mi piace il rumore",
	"l'ultima visita è stata dolorosa",
	"mi annoio in sala d'attesa",
}

// SurveyGenerator generates a deterministic synthetic children's dental
// survey for development and tests. It implements ports.RawSource.
type SurveyGenerator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewSurveyGenerator creates a generator with the given config
func NewSurveyGenerator(config GeneratorConfig) *SurveyGenerator {
	return &SurveyGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// NewDefaultSource creates a generator-backed source with n rows and a seed
func NewDefaultSource(n int, seed int64) *SurveyGenerator {
	config := DefaultGeneratorConfig()
	if n > 0 {
		config.RowCount = n
	}
	config.Seed = seed
	return NewSurveyGenerator(config)
}

// Name identifies the source in logs and dataset metadata
func (g *SurveyGenerator) Name() string {
	return fmt.Sprintf("synthetic:seed=%d", g.config.Seed)
}

// Load generates the full raw table. It never fails; the error return
// satisfies ports.RawSource.
func (g *SurveyGenerator) Load(ctx context.Context) (*survey.RawTable, error) {
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

	for i := 0; i < g.config.RowCount; i++ {
		table.Rows = append(table.Rows, g.generateRow())
	}
	return table, nil
}

func (g *SurveyGenerator) generateRow() survey.RawRow {
	gender := "M"
	if g.rng.Float64() < 0.5 {
		gender = "F"
	}
	age := 3 + g.rng.Intn(10) // ages 3-12

	sweets := g.intakeCode()
	soda := g.intakeCode()
	dentist := 1 + g.rng.Intn(3)

	cavityP := g.config.CavityRateBase
	if sweets == 1 {
		cavityP += g.config.SweetsRiskBoost
	}
	outcome := 2
	if g.rng.Float64() < cavityP {
		outcome = 1
	} else if g.rng.Float64() < 0.1 {
		outcome = 3
	}

	row := survey.RawRow{
		survey.ColGender:  gender,
		survey.ColAge:     fmt.Sprintf("%d", age),
		survey.ColOutcome: fmt.Sprintf("%d.0", outcome),
		survey.ColSweets:  fmt.Sprintf("%d.0", sweets),
		survey.ColSoda:    fmt.Sprintf("%d.0", soda),
		survey.ColDentist: fmt.Sprintf("%d.0", dentist),
	}

	// Dirty rows exercise the fallback mappings the way real exports do.
	if g.rng.Float64() < g.config.DirtyCodeRate {
		switch g.rng.Intn(3) {
		case 0:
			row[survey.ColDentist] = "4.0"
		case 1:
			row[survey.ColSweets] = ""
		case 2:
			row[survey.ColOutcome] = ""
		}
	}

	if g.rng.Float64() < g.config.ComplaintRate {
		row[survey.ColComplaint] = complaints[g.rng.Intn(len(complaints))]
	}

	return row
}

func (g *SurveyGenerator) intakeCode() int {
	r := g.rng.Float64()
	switch {
	case r < 0.45:
		return 1
	case r < 0.85:
		return 2
	default:
		return 3
	}
}
