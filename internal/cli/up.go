package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/emilpriver/geni/internal/executor"
)

var upCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "up",
	Short: "Apply all pending migrations",
	Long: `Apply every migration in the migrations folder that is not yet
recorded in the migrations table, oldest first. Each file runs in its own
transaction unless its first line contains 'transaction: no'.`,
	RunE: runUp,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.AddCommand(upCmd)
}

func runUp(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig
	ctx := cmdContext(cmd)
	out := cmd.OutOrStdout()

	drv, err := openDriver(ctx, cfg, out, true)
	if err != nil {
		return err
	}
	defer drv.Close()

	exec := executor.New(drv, cfg.MigrationsFolder,
		executor.WithSchemaDump(cfg.DumpSchema),
		executor.WithProgressCallback(progressPrinter(out, "Applying")),
	)

	applied, err := exec.Up(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nMigrations complete: %d applied.\n", applied)

	return nil
}

// progressPrinter renders executor progress events, one line per migration.
func progressPrinter(out io.Writer, verb string) func(executor.ProgressEvent) {
	return func(event executor.ProgressEvent) {
		switch event.Status {
		case executor.StatusStarting:
			fmt.Fprintf(out, "  %s %d_%s ... ", verb, event.File.Version, event.File.Name)
		case executor.StatusCompleted:
			fmt.Fprintf(out, "done (%s)\n", event.Duration.Truncate(time.Millisecond))
		case executor.StatusFailed:
			fmt.Fprintf(out, "FAILED\n")
			fmt.Fprintf(out, "    Error: %v\n", event.Error)
		}
	}
}
