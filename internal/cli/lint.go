package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emilpriver/geni/internal/analyzer"
	"github.com/emilpriver/geni/internal/analyzer/rules"
	"github.com/emilpriver/geni/internal/migration"
)

var lintCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "lint [migrations-folder]",
	Short: "Check up migrations for dangerous operations",
	Long: `Parse up migration files with the PostgreSQL parser and report DDL
that causes table locks, rewrites, or data loss, with severity levels and
safer alternatives. Lint never blocks 'up'; it is advisory only.`,
	RunE: runLint,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	lintCmd.Flags().Bool("fail-on-high", false, "exit non-zero if high or critical findings exist")
	rootCmd.AddCommand(lintCmd)
}

// errHighSeverityFindings is returned when --fail-on-high is set and
// high or critical findings exist.
var errHighSeverityFindings = errors.New("high or critical severity findings detected")

func runLint(cmd *cobra.Command, args []string) error {
	folder := AppConfig.MigrationsFolder
	if len(args) > 0 {
		folder = args[0]
	}

	files, err := migration.Discover(folder, migration.DirectionUp)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No migration files found.")
		return nil
	}

	a := analyzer.New(analyzer.WithRegistry(rules.NewDefaultRegistry()))

	results, err := a.AnalyzeAll(files)
	if err != nil {
		return fmt.Errorf("analyzing migrations: %w", err)
	}

	hasHighOrCritical := printFindings(cmd, results)

	failOnHigh, _ := cmd.Flags().GetBool("fail-on-high")
	if failOnHigh && hasHighOrCritical {
		return errHighSeverityFindings
	}

	return nil
}

func printFindings(cmd *cobra.Command, results []analyzer.AnalysisResult) bool {
	out := cmd.OutOrStdout()
	totalFindings := 0
	hasHighOrCritical := false

	for _, r := range results {
		if len(r.Findings) == 0 {
			continue
		}

		fmt.Fprintf(out, "\n=== %d_%s ===\n", r.File.Version, r.File.Name)

		for _, f := range r.Findings {
			fmt.Fprintf(out, "  [%s] %s\n", f.Severity, f.Message)
			fmt.Fprintf(out, "    Table: %s\n", f.Table)
			fmt.Fprintf(out, "    Rule:  %s\n", f.Rule)

			if f.Statement != "" {
				fmt.Fprintf(out, "    SQL:   %s\n", f.Statement)
			}

			fmt.Fprintf(out, "    Fix:   %s\n\n", f.Suggestion)
		}

		totalFindings += len(r.Findings)

		if r.HasHighOrCritical() {
			hasHighOrCritical = true
		}
	}

	if totalFindings == 0 {
		fmt.Fprintln(out, "No dangerous operations detected.")
	} else {
		fmt.Fprintf(out, "Found %d finding(s) across %d migration(s).\n",
			totalFindings, countFilesWithFindings(results))
	}

	return hasHighOrCritical
}

func countFilesWithFindings(results []analyzer.AnalysisResult) int {
	count := 0

	for _, r := range results {
		if len(r.Findings) > 0 {
			count++
		}
	}

	return count
}
