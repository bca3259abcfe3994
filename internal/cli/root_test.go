package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilpriver/geni/internal/config"
)

// newFlagCmd returns a bare command carrying the persistent flag set that
// mergeFlags expects.
func newFlagCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().String("database-url", "", "")
	cmd.Flags().String("migrations-folder", "", "")
	cmd.Flags().String("migrations-table", "", "")

	return cmd
}

func TestMergeFlags_databaseURL_overridesConfig(t *testing.T) {
	t.Parallel()

	cfg := config.New()
	cmd := newFlagCmd()

	require.NoError(t, cmd.Flags().Set("database-url", "postgres://test:5432/db"))

	mergeFlags(cmd, cfg)
	assert.Equal(t, "postgres://test:5432/db", cfg.DatabaseURL)
}

func TestMergeFlags_migrationsFolder_overridesConfig(t *testing.T) {
	t.Parallel()

	cfg := config.New()
	cmd := newFlagCmd()

	require.NoError(t, cmd.Flags().Set("migrations-folder", "/custom/migrations"))

	mergeFlags(cmd, cfg)
	assert.Equal(t, "/custom/migrations", cfg.MigrationsFolder)
}

func TestMergeFlags_migrationsTable_overridesConfig(t *testing.T) {
	t.Parallel()

	cfg := config.New()
	cmd := newFlagCmd()

	require.NoError(t, cmd.Flags().Set("migrations-table", "geni_history"))

	mergeFlags(cmd, cfg)
	assert.Equal(t, "geni_history", cfg.MigrationsTable)
}

func TestMergeFlags_unchangedFlags_preserveConfig(t *testing.T) {
	t.Parallel()

	cfg := config.New()
	cfg.DatabaseURL = "postgres://original:5432/db"
	cfg.MigrationsFolder = "/original/dir"

	cmd := newFlagCmd()

	mergeFlags(cmd, cfg)
	assert.Equal(t, "postgres://original:5432/db", cfg.DatabaseURL)
	assert.Equal(t, "/original/dir", cfg.MigrationsFolder)
	assert.Equal(t, config.DefaultMigrationsTable, cfg.MigrationsTable)
}

func TestLoadConfig_missingFile_usesDefaults(t *testing.T) { // not parallel: mutates global AppConfig
	old := AppConfig
	t.Cleanup(func() { AppConfig = old })

	cmd := newFlagCmd()
	cmd.Flags().String("config", "nonexistent.yml", "")

	err := loadConfig(cmd)
	require.NoError(t, err)
	require.NotNil(t, AppConfig)
	assert.Equal(t, config.DefaultMigrationsFolder, AppConfig.MigrationsFolder)
	assert.Equal(t, config.DefaultMigrationsTable, AppConfig.MigrationsTable)
	assert.True(t, AppConfig.DumpSchema)
}

func TestLoadConfig_validFile_loadsValues(t *testing.T) { // not parallel: mutates global AppConfig
	old := AppConfig
	t.Cleanup(func() { AppConfig = old })

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "geni.yml")

	yamlContent := "migrations_folder: /from/yaml\nmigrations_table: custom_versions\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yamlContent), 0o600))

	cmd := newFlagCmd()
	cmd.Flags().String("config", "", "")
	require.NoError(t, cmd.Flags().Set("config", cfgPath))

	err := loadConfig(cmd)
	require.NoError(t, err)
	require.NotNil(t, AppConfig)
	assert.Equal(t, "/from/yaml", AppConfig.MigrationsFolder)
	assert.Equal(t, "custom_versions", AppConfig.MigrationsTable)
}

func TestLoadConfig_flagBeatsFile(t *testing.T) { // not parallel: mutates global AppConfig
	old := AppConfig
	t.Cleanup(func() { AppConfig = old })

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "geni.yml")

	yamlContent := "migrations_folder: /from/yaml\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yamlContent), 0o600))

	cmd := newFlagCmd()
	cmd.Flags().String("config", "", "")
	require.NoError(t, cmd.Flags().Set("config", cfgPath))
	require.NoError(t, cmd.Flags().Set("migrations-folder", "/from/flag"))

	err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", AppConfig.MigrationsFolder)
}

func TestLoadConfig_invalidFile_returnsError(t *testing.T) { // not parallel: mutates global AppConfig
	old := AppConfig
	t.Cleanup(func() { AppConfig = old })

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "geni.yml")

	require.NoError(t, os.WriteFile(cfgPath, []byte("migrations_folder: [unclosed"), 0o600))

	cmd := newFlagCmd()
	cmd.Flags().String("config", "", "")
	require.NoError(t, cmd.Flags().Set("config", cfgPath))

	err := loadConfig(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading configuration")
}

func TestOpenDriver_noDatabaseURL_returnsError(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	cfg := config.New()

	_, err := openDriver(context.Background(), cfg, buf, true)
	require.ErrorIs(t, err, errDatabaseURLRequired)
}
