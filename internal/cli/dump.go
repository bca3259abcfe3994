package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "dump",
	Short: "Dump the database schema to a file",
	Long: `Write the current schema of the connected database to the schema
file inside the migrations folder. The same dump runs automatically after
successful up and down runs unless schema dumping is disabled.`,
	RunE: runDump,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig
	ctx := cmdContext(cmd)
	out := cmd.OutOrStdout()

	drv, err := openDriver(ctx, cfg, out, true)
	if err != nil {
		return err
	}
	defer drv.Close()

	if err := drv.DumpSchema(ctx); err != nil {
		return fmt.Errorf("dumping schema: %w", err)
	}

	fmt.Fprintf(out, "Schema written to %s\n", filepath.Join(cfg.MigrationsFolder, cfg.SchemaFile))

	return nil
}
