package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emilpriver/geni/internal/config"
	"github.com/emilpriver/geni/internal/driver"
)

const version = "1.1.6"

// AppConfig holds the loaded configuration, set during PersistentPreRunE.
var AppConfig *config.Config //nolint:gochecknoglobals // standard Cobra pattern for shared config

// errDatabaseURLRequired is returned when no database URL is configured.
var errDatabaseURLRequired = errors.New(
	"database URL is required (set --database-url, DATABASE_URL, or database_url in geni.yml)",
)

// rootCmd is the base command for the geni CLI.
var rootCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:     "geni",
	Version: version,
	Short:   "Standalone database migration tool",
	Long: `geni runs plain-SQL schema migrations against PostgreSQL, MySQL,
MariaDB, SQLite and LibSQL databases. Migrations live as timestamped
.up.sql/.down.sql pairs in a folder; applied versions are tracked in a
table inside the target database.

Run one geni instance at a time per database. Concurrent runs are not
coordinated.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.PersistentFlags().String("config", "geni.yml", "path to configuration file")
	rootCmd.PersistentFlags().String("database-url", "", "database connection string")
	rootCmd.PersistentFlags().String("migrations-folder", "", "path to migration files")
	rootCmd.PersistentFlags().String("migrations-table", "", "name of the migrations table")
}

// Execute runs the root command. Called from main. Interrupt signals
// cancel the command context so in-flight database work stops cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads configuration with precedence: flag > env > file.
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	allowMissing := !cmd.Flags().Changed("config")

	cfg, err := config.Load(configPath, allowMissing)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	config.MergeEnv(cfg)
	mergeFlags(cmd, cfg)

	AppConfig = cfg

	return nil
}

// mergeFlags overrides config with explicitly-set CLI flags.
func mergeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("database-url") {
		cfg.DatabaseURL, _ = cmd.Flags().GetString("database-url")
	}

	if cmd.Flags().Changed("migrations-folder") {
		cfg.MigrationsFolder, _ = cmd.Flags().GetString("migrations-folder")
	}

	if cmd.Flags().Changed("migrations-table") {
		cfg.MigrationsTable, _ = cmd.Flags().GetString("migrations-table")
	}
}

// cmdContext returns the command context, falling back to Background for
// commands constructed outside Execute.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

// openDriver validates the configured URL and constructs the backend
// driver. With selectDatabase false the connection targets the server
// rather than the database named in the URL, for create and drop.
func openDriver(ctx context.Context, cfg *config.Config, out io.Writer, selectDatabase bool) (driver.Driver, error) {
	if cfg.DatabaseURL == "" {
		return nil, errDatabaseURLRequired
	}

	fmt.Fprintf(out, "Connecting to %s\n", config.RedactURL(cfg.DatabaseURL))

	drv, err := driver.New(ctx, driver.Config{
		URL:              cfg.DatabaseURL,
		Token:            cfg.DatabaseToken,
		MigrationsTable:  cfg.MigrationsTable,
		MigrationsFolder: cfg.MigrationsFolder,
		SchemaFile:       cfg.SchemaFile,
		WaitTimeout:      cfg.WaitTimeout,
	}, selectDatabase)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return drv, nil
}
