package survey

import (
	"dentastat/domain/core"
)

// Column headers expected in the raw survey export. The questionnaire was
// collected in Italian; headers are matched exactly as exported, including
// the embedded newline in the sweets question.
const (
	ColGender    = "Sesso"
	ColAge       = "Età"
	ColOutcome   = "Ha carie?"
	ColSweets    = "Mangi spesso caramelle\n e cioccolatini?"
	ColSoda      = "Bevi spesso bibite?"
	ColDentist   = "Sei mai stato/a dal dentista?"
	ColComplaint = "Se non ti piacciono, perché?"
)

// RequiredColumns lists the columns a raw table must carry to be normalized.
// The complaint column is optional.
var RequiredColumns = []string{ColGender, ColAge, ColOutcome, ColSweets, ColSoda, ColDentist}

// CodeMissing marks an absent or unparseable survey code.
const CodeMissing = 0

// Raw tri-state outcome codes.
const (
	OutcomeHasCavities = 1
	OutcomeHealthy     = 2
	OutcomeUnknown     = 3
)

// Outcome labels.
const (
	LabelHasCavities = "Has Cavities"
	LabelHealthy     = "Healthy"
	LabelUnknown     = "Unknown"
)

// Intake labels shared by the sweets and soda questions.
const (
	IntakeYes   = "Yes"
	IntakeNo    = "No"
	IntakeOther = "Other"
)

// Dentist-visit labels.
const (
	DentistNever        = "Never Visited"
	DentistVisited      = "Visited"
	DentistDontRemember = "Don't Remember"
)

// Field names a comparison can group by.
type Field string

const (
	FieldSweets  Field = "sweets_label"
	FieldSoda    Field = "soda_label"
	FieldDentist Field = "dentist_label"
)

// Record is one survey respondent with raw codes and derived fields.
type Record struct {
	Gender      string `json:"gender"`
	Age         int    `json:"age"`
	OutcomeCode int    `json:"outcome_code"`
	SweetsCode  int    `json:"sweets_code"`
	SodaCode    int    `json:"soda_code"`
	DentistCode int    `json:"dentist_code"`
	Complaint   string `json:"complaint,omitempty"`

	// Derived fields, filled by Derive. OutcomeBinary is always 0 or 1;
	// the categorical labels are total functions of the raw codes.
	OutcomeBinary int    `json:"outcome_binary"`
	OutcomeLabel  string `json:"outcome_label,omitempty"`
	SweetsLabel   string `json:"sweets_label"`
	SodaLabel     string `json:"soda_label"`
	DentistLabel  string `json:"dentist_label"`
}

// OutcomeLabelFor maps a raw outcome code to its label. Codes outside {1,2,3}
// map to no label at all, unlike the intake and dentist mappings.
func OutcomeLabelFor(code int) (string, bool) {
	switch code {
	case OutcomeHasCavities:
		return LabelHasCavities, true
	case OutcomeHealthy:
		return LabelHealthy, true
	case OutcomeUnknown:
		return LabelUnknown, true
	default:
		return "", false
	}
}

// IntakeLabelFor maps a sweets or soda code to its label, falling back to
// "Other" for anything outside the mapping.
func IntakeLabelFor(code int) string {
	switch code {
	case 1:
		return IntakeYes
	case 2:
		return IntakeNo
	case 3:
		return IntakeOther
	default:
		return IntakeOther
	}
}

// DentistLabelFor maps a dentist-visit code to its label, falling back to
// "Don't Remember" for anything outside the mapping.
func DentistLabelFor(code int) string {
	switch code {
	case 1:
		return DentistNever
	case 2:
		return DentistVisited
	case 3:
		return DentistDontRemember
	default:
		return DentistDontRemember
	}
}

// Derive fills the derived fields from the raw codes. It returns the number
// of intake/dentist codes that fell back to a default category, so callers
// can surface data-quality drift without changing results.
func (r *Record) Derive() int {
	fallbacks := 0

	if r.OutcomeCode == OutcomeHasCavities {
		r.OutcomeBinary = 1
	} else {
		r.OutcomeBinary = 0
	}
	r.OutcomeLabel, _ = OutcomeLabelFor(r.OutcomeCode)

	r.SweetsLabel = IntakeLabelFor(r.SweetsCode)
	if r.SweetsCode < 1 || r.SweetsCode > 3 {
		fallbacks++
	}
	r.SodaLabel = IntakeLabelFor(r.SodaCode)
	if r.SodaCode < 1 || r.SodaCode > 3 {
		fallbacks++
	}
	r.DentistLabel = DentistLabelFor(r.DentistCode)
	if r.DentistCode < 1 || r.DentistCode > 3 {
		fallbacks++
	}

	return fallbacks
}

// Label returns the derived categorical value for a grouping field.
func (r Record) Label(field Field) string {
	switch field {
	case FieldSweets:
		return r.SweetsLabel
	case FieldSoda:
		return r.SodaLabel
	case FieldDentist:
		return r.DentistLabel
	default:
		return ""
	}
}

// Dataset is an ordered, read-only collection of normalized records.
type Dataset struct {
	ID            core.DatasetID `json:"id"`
	Source        string         `json:"source"`
	Records       []Record       `json:"records"`
	FallbackCount int            `json:"fallback_count"`
	LoadedAt      core.Timestamp `json:"loaded_at"`
}

// NewDataset creates a dataset around a slice of already-derived records.
func NewDataset(source string, records []Record) *Dataset {
	return &Dataset{
		ID:       core.DatasetID(core.NewID()),
		Source:   source,
		Records:  records,
		LoadedAt: core.Now(),
	}
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.Records)
}

// CountWhere counts records whose derived field equals value
func (d *Dataset) CountWhere(field Field, value string) int {
	n := 0
	for _, r := range d.Records {
		if r.Label(field) == value {
			n++
		}
	}
	return n
}

// OutcomeBinaries returns the 0/1 cavity indicators in record order
func (d *Dataset) OutcomeBinaries() []float64 {
	out := make([]float64, len(d.Records))
	for i, r := range d.Records {
		out[i] = float64(r.OutcomeBinary)
	}
	return out
}
