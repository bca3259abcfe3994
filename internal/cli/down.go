package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emilpriver/geni/internal/executor"
)

var downCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "down",
	Short: "Roll back applied migrations",
	Long: `Roll back the most recently applied migrations using their
.down.sql files, newest first. Each reverted version is removed from the
migrations table.`,
	RunE: runDown,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	downCmd.Flags().Int("amount", 1, "number of migrations to roll back")
	rootCmd.AddCommand(downCmd)
}

func runDown(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig
	ctx := cmdContext(cmd)
	out := cmd.OutOrStdout()

	amount, _ := cmd.Flags().GetInt("amount")

	drv, err := openDriver(ctx, cfg, out, true)
	if err != nil {
		return err
	}
	defer drv.Close()

	exec := executor.New(drv, cfg.MigrationsFolder,
		executor.WithSchemaDump(cfg.DumpSchema),
		executor.WithProgressCallback(progressPrinter(out, "Reverting")),
	)

	reverted, err := exec.Down(ctx, amount)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nRollback complete: %d reverted.\n", reverted)

	return nil
}
