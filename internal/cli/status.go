package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emilpriver/geni/internal/executor"
)

var statusCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "status",
	Short: "Show pending migrations",
	Long: `Compare the migrations folder against the migrations table and
list the migrations that have not been applied yet. Nothing is executed.`,
	RunE: runStatus,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	statusCmd.Flags().Bool("verbose", false, "print the SQL of each pending migration")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig
	ctx := cmdContext(cmd)
	out := cmd.OutOrStdout()

	verbose, _ := cmd.Flags().GetBool("verbose")

	drv, err := openDriver(ctx, cfg, out, true)
	if err != nil {
		return err
	}
	defer drv.Close()

	exec := executor.New(drv, cfg.MigrationsFolder)

	report, err := exec.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Applied: %d migration(s).\n", report.Applied)

	if len(report.Pending) == 0 {
		fmt.Fprintln(out, "No pending migrations.")
		return nil
	}

	fmt.Fprintf(out, "Pending: %d migration(s).\n", len(report.Pending))

	for _, f := range report.Pending {
		if !verbose {
			fmt.Fprintf(out, "  %d_%s\n", f.Version, f.Name)
			continue
		}

		content, err := f.Content()
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "  %d_%s:\n%s\n\n", f.Version, f.Name, content)
	}

	return nil
}
