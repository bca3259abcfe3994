package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emilpriver/geni/internal/generate"
)

var newCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "new [name]",
	Short: "Generate a new migration pair",
	Long: `Create an empty up and down migration in the migrations folder,
named with the current unix timestamp and the given name.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	up, down, err := generate.New(AppConfig.MigrationsFolder, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generated %s\n", up)
	fmt.Fprintf(out, "Generated %s\n", down)

	return nil
}
