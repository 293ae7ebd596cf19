package main

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"dentastat/adapters/postgres"
	statsengine "dentastat/adapters/stats/engine"
	"dentastat/adapters/tabular"
	"dentastat/internal/config"
	"dentastat/internal/logging"
	"dentastat/internal/normalize"
	"dentastat/internal/testkit"
	"dentastat/ports"
	"dentastat/ui"
)

func main() {
	// Load .env file if present (development convenience)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger := logging.NewDefaultLogger()

	source, cleanup, err := buildSource(cfg, logger)
	if err != nil {
		log.Fatalf("Data source error: %v", err)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	raw, err := source.Load(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to load survey data from %s: %v", source.Name(), err)
	}

	dataset, err := normalize.New(logger).Normalize(source.Name(), raw)
	if err != nil {
		log.Fatalf("Failed to normalize survey data: %v", err)
	}

	app, err := ui.NewApp(dataset, statsengine.New(), logger)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	if err := app.Start(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// buildSource picks the survey source by configuration precedence: Postgres,
// then a tabular file, then the synthetic generator for development.
func buildSource(cfg *config.Config, logger *logging.Logger) (ports.RawSource, func(), error) {
	noop := func() {}

	if cfg.Data.DatabaseURL != "" {
		db, err := sqlx.Connect("postgres", cfg.Data.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return postgres.NewSurveySource(db), func() { db.Close() }, nil
	}

	if cfg.Data.SurveyFile != "" {
		return tabular.NewFileReader(cfg.Data.SurveyFile), noop, nil
	}

	logger.Warn("no SURVEY_FILE or DATABASE_URL set, serving synthetic data (%d rows, seed %d)",
		cfg.Data.SyntheticRows, cfg.Data.SyntheticSeed)
	return testkit.NewDefaultSource(cfg.Data.SyntheticRows, cfg.Data.SyntheticSeed), noop, nil
}
