package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "create",
	Short: "Create the database named in the connection URL",
	Long: `Connect to the server portion of the database URL and create the
database the URL names. SQLite databases are created as empty files.`,
	RunE: runCreate,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, _ []string) error {
	ctx := cmdContext(cmd)
	out := cmd.OutOrStdout()

	drv, err := openDriver(ctx, AppConfig, out, false)
	if err != nil {
		return err
	}
	defer drv.Close()

	if err := drv.CreateDatabase(ctx); err != nil {
		return fmt.Errorf("creating database: %w", err)
	}

	fmt.Fprintln(out, "Database created.")

	return nil
}
