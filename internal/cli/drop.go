package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dropCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "drop",
	Short: "Drop the database named in the connection URL",
	Long: `Connect to the server portion of the database URL and drop the
database the URL names, including the migrations table. SQLite database
files are deleted from disk.`,
	RunE: runDrop,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.AddCommand(dropCmd)
}

func runDrop(cmd *cobra.Command, _ []string) error {
	ctx := cmdContext(cmd)
	out := cmd.OutOrStdout()

	drv, err := openDriver(ctx, AppConfig, out, false)
	if err != nil {
		return err
	}
	defer drv.Close()

	if err := drv.DropDatabase(ctx); err != nil {
		return fmt.Errorf("dropping database: %w", err)
	}

	fmt.Fprintln(out, "Database dropped.")

	return nil
}
