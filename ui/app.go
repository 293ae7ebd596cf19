package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dentastat/domain/survey"
	"dentastat/internal/logging"
	"dentastat/ports"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// App represents the dashboard application
type App struct {
	router    *chi.Mux
	dataset   *survey.Dataset
	comparer  ports.GroupComparer
	templates *template.Template
	log       *logging.Logger
}

// NewApp creates the dashboard application around a loaded dataset and a
// comparison engine. The dataset is read-only for the life of the server;
// filters produce per-request views.
func NewApp(dataset *survey.Dataset, comparer ports.GroupComparer, log *logging.Logger) (*App, error) {
	funcMap := template.FuncMap{
		"pct": func(v float64) string { return fmt.Sprintf("%.1f", v*100) },
		"f4":  func(v float64) string { return fmt.Sprintf("%.4f", v) },
		"f1":  func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"add": func(a, b int) int { return a + b },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		dataset:   dataset,
		comparer:  comparer,
		templates: templates,
		log:       log,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", staticFS)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleDashboard)
	a.router.Get("/api/comparisons", a.handleComparisonsJSON)
	a.router.Get("/healthz", a.handleHealth)
}

// Router exposes the mux for tests
func (a *App) Router() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start(addr string) error {
	a.log.Info("dashboard listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.log.Error("template %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "ok %d records", a.dataset.Len())
}
