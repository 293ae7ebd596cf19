package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"dentastat/adapters/postgres"
	statsengine "dentastat/adapters/stats/engine"
	"dentastat/adapters/tabular"
	"dentastat/domain/stats"
	"dentastat/domain/survey"
	"dentastat/internal/logging"
	"dentastat/internal/normalize"
	"dentastat/internal/testkit"
	"dentastat/ports"
)

var (
	flagFile        string
	flagDatabaseURL string
	flagRows        int
	flagSeed        int64
	flagGenders     []string
	flagAgeMin      int
	flagAgeMax      int
	flagAlpha       float64
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "dentastat",
		Short: "Dental survey analysis toolkit",
		Long:  "Loads a children's dental survey, normalizes it, and runs group comparisons without the web dashboard.",
	}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print the comparison report for a survey source",
		RunE:  runReport,
	}
	reportCmd.Flags().StringVar(&flagFile, "file", "", "survey file (csv or xlsx)")
	reportCmd.Flags().StringVar(&flagDatabaseURL, "database-url", "", "postgres connection string")
	reportCmd.Flags().IntVar(&flagRows, "synthetic-rows", 400, "synthetic row count when no source is given")
	reportCmd.Flags().Int64Var(&flagSeed, "seed", 42, "synthetic generator seed")
	reportCmd.Flags().StringSliceVar(&flagGenders, "gender", nil, "restrict to these gender values (repeatable)")
	reportCmd.Flags().IntVar(&flagAgeMin, "age-min", 0, "minimum age, inclusive (0 = open)")
	reportCmd.Flags().IntVar(&flagAgeMax, "age-max", 0, "maximum age, inclusive (0 = open)")
	reportCmd.Flags().Float64Var(&flagAlpha, "alpha", stats.DefaultAlpha, "significance threshold")

	rootCmd.AddCommand(reportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	logger := logging.NewDefaultLogger()

	source, cleanup, err := pickSource()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()
	raw, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", source.Name(), err)
	}

	dataset, err := normalize.New(logger).Normalize(source.Name(), raw)
	if err != nil {
		return err
	}

	view := dataset.Where(survey.Filter{
		Genders: flagGenders,
		AgeMin:  flagAgeMin,
		AgeMax:  flagAgeMax,
	})

	printReport(cmd, view)
	return nil
}

func pickSource() (ports.RawSource, func(), error) {
	noop := func() {}
	if flagDatabaseURL != "" {
		db, err := sqlx.Connect("postgres", flagDatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return postgres.NewSurveySource(db), func() { db.Close() }, nil
	}
	if flagFile != "" {
		return tabular.NewFileReader(flagFile), noop, nil
	}
	return testkit.NewDefaultSource(flagRows, flagSeed), noop, nil
}

func printReport(cmd *cobra.Command, view *survey.Dataset) {
	out := cmd.OutOrStdout()
	engine := statsengine.New()

	fmt.Fprintf(out, "Source: %s\n", view.Source)
	fmt.Fprintf(out, "Respondents: %d\n", view.Len())
	if view.Len() == 0 {
		fmt.Fprintln(out, "No respondents match the selected filters.")
		return
	}

	cavities := 0
	for _, rec := range view.Records {
		cavities += rec.OutcomeBinary
	}
	fmt.Fprintf(out, "Cavity prevalence: %.1f%%\n", float64(cavities)/float64(view.Len())*100)
	fmt.Fprintf(out, "Visited a dentist: %d\n", view.CountWhere(survey.FieldDentist, survey.DentistVisited))
	fmt.Fprintf(out, "Frequent sweets: %d\n\n", view.CountWhere(survey.FieldSweets, survey.IntakeYes))

	for _, factor := range stats.DefaultFactors() {
		result := engine.CompareGroups(view, factor.Field, factor.GroupA, factor.GroupB)
		verdict := "not significant"
		if result.Significant(flagAlpha) {
			verdict = "SIGNIFICANT"
		}
		fmt.Fprintf(out, "%s\n", factor.Title)
		fmt.Fprintf(out, "  p-value:    %.4f (%s at alpha=%.2f)\n", result.PValue, verdict, flagAlpha)
		fmt.Fprintf(out, "  risk ratio: %.2f\n", result.RiskRatio)
		fmt.Fprintf(out, "  %-12s %.1f%% cavities (n=%d)\n", factor.GroupA+":", result.RateA*100, result.SampleA)
		fmt.Fprintf(out, "  %-12s %.1f%% cavities (n=%d)\n\n", factor.GroupB+":", result.RateB*100, result.SampleB)
	}
}
