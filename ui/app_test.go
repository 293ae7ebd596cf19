package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	statsengine "dentastat/adapters/stats/engine"
	"dentastat/domain/survey"
	"dentastat/internal/logging"
)

func testApp(t *testing.T) *App {
	t.Helper()
	records := []survey.Record{
		{Gender: "M", Age: 6, OutcomeCode: 1, SweetsCode: 1, SodaCode: 1, DentistCode: 2, Complaint: "ho paura del trapano"},
		{Gender: "F", Age: 8, OutcomeCode: 2, SweetsCode: 2, SodaCode: 2, DentistCode: 1},
		{Gender: "M", Age: 9, OutcomeCode: 1, SweetsCode: 1, SodaCode: 1, DentistCode: 2},
		{Gender: "F", Age: 10, OutcomeCode: 2, SweetsCode: 2, SodaCode: 1, DentistCode: 3},
		{Gender: "M", Age: 11, OutcomeCode: 3, SweetsCode: 3, SodaCode: 2, DentistCode: 2},
	}
	for i := range records {
		records[i].Derive()
	}
	ds := survey.NewDataset("test", records)

	app, err := NewApp(ds, statsengine.New(), logging.NewLogger(logging.LogLevelError))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

// TestDashboardRenders verifies the root page renders the factor sections
func TestDashboardRenders(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Impact of Sweets", "Impact of Soda", "Impact of Dentist Visits", "Respondents"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	if !strings.Contains(body, "ho paura del trapano") {
		t.Error("dashboard missing complaint row")
	}
}

// TestDashboardFilterQuery verifies query parameters restrict the view
func TestDashboardFilterQuery(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodGet, "/?gender=F&age_min=9", nil)
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	// Only the age-10 F record matches; the complaint belongs to an M record.
	if strings.Contains(rec.Body.String(), "ho paura del trapano") {
		t.Error("filtered view should not show the excluded complaint")
	}
}

// TestDashboardEmptyView verifies an impossible filter renders the empty state
func TestDashboardEmptyView(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodGet, "/?age_min=50", nil)
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No respondents match") {
		t.Error("expected empty-state message")
	}
}

// TestComparisonsJSON verifies the JSON endpoint returns all three factors
func TestComparisonsJSON(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/comparisons", nil)
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var payload struct {
		SampleSize  int `json:"sample_size"`
		Comparisons []struct {
			Title  string `json:"title"`
			Result struct {
				PValue float64 `json:"p_value"`
			} `json:"result"`
		} `json:"comparisons"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.SampleSize != 5 {
		t.Errorf("sample_size = %d, want 5", payload.SampleSize)
	}
	if len(payload.Comparisons) != 3 {
		t.Fatalf("got %d comparisons, want 3", len(payload.Comparisons))
	}
	for _, c := range payload.Comparisons {
		if c.Result.PValue < 0 || c.Result.PValue > 1 {
			t.Errorf("%s: p-value %f outside [0,1]", c.Title, c.Result.PValue)
		}
	}
}

// TestHealthEndpoint verifies the liveness probe
func TestHealthEndpoint(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
