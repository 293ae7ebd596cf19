package ui

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strconv"

	mstats "github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"dentastat/domain/stats"
	"dentastat/domain/survey"
)

// Outcome segment colors, keyed by derived label.
var outcomeColors = map[string]string{
	survey.LabelHasCavities: "#d32f2f",
	survey.LabelHealthy:     "#388e3c",
	survey.LabelUnknown:     "#9e9e9e",
}

type genderOption struct {
	Value    string
	Selected bool
}

type filterView struct {
	Genders  []genderOption
	AgeMin   int
	AgeMax   int
	AgeFloor int
	AgeCeil  int
}

type tilesView struct {
	SampleSize    int
	PrevalencePct float64
	DentistVisits int
	HighSugar     int
}

type chartSegment struct {
	Label    string
	Count    int
	WidthPct float64
	Color    string
}

type chartRow struct {
	Category string
	Total    int
	Segments []chartSegment
}

type sectionView struct {
	Title          string
	Result         stats.ComparisonResult
	Significant    bool
	BoxClass       string
	GroupA         string
	GroupB         string
	Interpretation template.HTML
	Note           template.HTML
	Chart          []chartRow
}

type complaintRow struct {
	Text   string
	Status string
}

type complaintsView struct {
	Rows            []complaintRow
	WithCavities    int
	WithCavitiesPct float64
}

type dashboardView struct {
	Source      string
	Filter      filterView
	Tiles       tilesView
	Sections    []sectionView
	Complaints  complaintsView
	Methodology template.HTML
	Empty       bool
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r)
	view := a.dataset.Where(filter)

	data := dashboardView{
		Source:      a.dataset.Source,
		Filter:      a.buildFilterView(filter),
		Tiles:       buildTiles(view),
		Complaints:  buildComplaints(view),
		Methodology: renderMarkdown(methodologyNote),
		Empty:       view.Len() == 0,
	}

	factors := stats.DefaultFactors()
	sections := make([]sectionView, len(factors))

	g, _ := errgroup.WithContext(r.Context())
	for i, factor := range factors {
		i, factor := i, factor
		g.Go(func() error {
			sections[i] = a.buildSection(view, factor)
			return nil
		})
	}
	// Section builders never fail; the group only orders completion.
	_ = g.Wait()
	data.Sections = sections

	a.renderTemplate(w, "dashboard.html", data)
}

// handleComparisonsJSON exposes the filtered comparison results as JSON for
// scripted consumers.
func (a *App) handleComparisonsJSON(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r)
	view := a.dataset.Where(filter)

	type comparisonPayload struct {
		Title  string                 `json:"title"`
		Field  survey.Field           `json:"field"`
		GroupA string                 `json:"group_a"`
		GroupB string                 `json:"group_b"`
		Result stats.ComparisonResult `json:"result"`
	}

	payload := struct {
		Source      string              `json:"source"`
		SampleSize  int                 `json:"sample_size"`
		Comparisons []comparisonPayload `json:"comparisons"`
	}{
		Source:     a.dataset.Source,
		SampleSize: view.Len(),
	}
	for _, factor := range stats.DefaultFactors() {
		payload.Comparisons = append(payload.Comparisons, comparisonPayload{
			Title:  factor.Title,
			Field:  factor.Field,
			GroupA: factor.GroupA,
			GroupB: factor.GroupB,
			Result: a.comparer.CompareGroups(view, factor.Field, factor.GroupA, factor.GroupB),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.log.Error("encode comparisons: %v", err)
	}
}

// parseFilter reads the query parameters into a dataset filter. Absent or
// malformed parameters leave the corresponding restriction open.
func parseFilter(r *http.Request) survey.Filter {
	q := r.URL.Query()
	f := survey.Filter{Genders: q["gender"]}
	if v, err := strconv.Atoi(q.Get("age_min")); err == nil {
		f.AgeMin = v
	}
	if v, err := strconv.Atoi(q.Get("age_max")); err == nil {
		f.AgeMax = v
	}
	return f
}

func (a *App) buildFilterView(f survey.Filter) filterView {
	floor, ceil := a.dataset.AgeBounds()
	fv := filterView{
		AgeMin:   f.AgeMin,
		AgeMax:   f.AgeMax,
		AgeFloor: floor,
		AgeCeil:  ceil,
	}
	selected := make(map[string]bool, len(f.Genders))
	for _, g := range f.Genders {
		selected[g] = true
	}
	for _, g := range a.dataset.Genders() {
		fv.Genders = append(fv.Genders, genderOption{
			Value:    g,
			Selected: len(f.Genders) == 0 || selected[g],
		})
	}
	return fv
}

func buildTiles(view *survey.Dataset) tilesView {
	t := tilesView{SampleSize: view.Len()}
	if t.SampleSize == 0 {
		return t
	}
	if prevalence, err := mstats.Mean(view.OutcomeBinaries()); err == nil {
		t.PrevalencePct = prevalence * 100
	}
	t.DentistVisits = view.CountWhere(survey.FieldDentist, survey.DentistVisited)
	t.HighSugar = view.CountWhere(survey.FieldSweets, survey.IntakeYes)
	return t
}

func (a *App) buildSection(view *survey.Dataset, factor stats.FactorConfig) sectionView {
	result := a.comparer.CompareGroups(view, factor.Field, factor.GroupA, factor.GroupB)

	s := sectionView{
		Title:       factor.Title,
		Result:      result,
		Significant: result.Significant(stats.DefaultAlpha),
		GroupA:      factor.GroupA,
		GroupB:      factor.GroupB,
		Chart:       buildChart(view, factor),
	}
	if s.Significant {
		s.BoxClass = "bad-p"
	} else {
		s.BoxClass = "good-p"
	}
	s.Interpretation = renderMarkdown(interpret(factor, result))
	if factor.Note != "" {
		s.Note = renderMarkdown(factor.Note)
	}
	return s
}

// buildChart builds one stacked bar per category, segmented by the tri-state
// outcome. Records without a recognized outcome code do not appear, matching
// the contingency table used for the test itself.
func buildChart(view *survey.Dataset, factor stats.FactorConfig) []chartRow {
	counts := make(map[string]map[string]int)
	for _, rec := range view.Records {
		if rec.OutcomeLabel == "" {
			continue
		}
		cat := rec.Label(factor.Field)
		if counts[cat] == nil {
			counts[cat] = make(map[string]int)
		}
		counts[cat][rec.OutcomeLabel]++
	}

	maxTotal := 0
	for _, byOutcome := range counts {
		total := 0
		for _, n := range byOutcome {
			total += n
		}
		if total > maxTotal {
			maxTotal = total
		}
	}

	var rows []chartRow
	for _, cat := range factor.Categories {
		byOutcome := counts[cat]
		if len(byOutcome) == 0 {
			continue
		}
		row := chartRow{Category: cat}
		for _, outcome := range []string{survey.LabelHasCavities, survey.LabelHealthy, survey.LabelUnknown} {
			n := byOutcome[outcome]
			if n == 0 {
				continue
			}
			row.Total += n
			row.Segments = append(row.Segments, chartSegment{
				Label:    outcome,
				Count:    n,
				WidthPct: float64(n) / float64(maxTotal) * 100,
				Color:    outcomeColors[outcome],
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// interpret phrases a comparison result the way the dashboard reader expects.
func interpret(factor stats.FactorConfig, result stats.ComparisonResult) string {
	if result.SampleA == 0 || result.SampleB == 0 {
		return fmt.Sprintf("Not enough respondents in the **%s** or **%s** group to compare.",
			factor.GroupA, factor.GroupB)
	}
	if result.Significant(stats.DefaultAlpha) {
		if result.RiskRatio > 0 {
			return fmt.Sprintf("Children in the **%s** group are **%.1fx** more likely to have cavities "+
				"than the **%s** group. This difference is statistically significant.",
				factor.GroupA, result.RiskRatio, factor.GroupB)
		}
		return fmt.Sprintf("The outcome distribution differs significantly between the **%s** and **%s** groups.",
			factor.GroupA, factor.GroupB)
	}
	return fmt.Sprintf("The difference between the **%s** and **%s** groups is not statistically "+
		"significant (P > %.2f); it could be due to chance.",
		factor.GroupA, factor.GroupB, stats.DefaultAlpha)
}

func buildComplaints(view *survey.Dataset) complaintsView {
	var cv complaintsView
	for _, rec := range view.Records {
		if rec.Complaint == "" {
			continue
		}
		status := rec.OutcomeLabel
		if status == "" {
			status = "Not recorded"
		}
		cv.Rows = append(cv.Rows, complaintRow{Text: rec.Complaint, Status: status})
		if rec.OutcomeBinary == 1 {
			cv.WithCavities++
		}
	}
	sort.Slice(cv.Rows, func(i, j int) bool { return cv.Rows[i].Text < cv.Rows[j].Text })
	if len(cv.Rows) > 0 {
		cv.WithCavitiesPct = float64(cv.WithCavities) / float64(len(cv.Rows)) * 100
	}
	return cv
}
