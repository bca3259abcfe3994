//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilpriver/geni/internal/driver"
)

func TestLedger_roundTrip_postgres(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	drv := openEngine(t, startPostgres(t), t.TempDir())

	// Table starts empty and creation is idempotent.
	ids, err := drv.EnsureMigrationsTable(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = drv.EnsureMigrationsTable(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// Insertion order does not matter; reads come back newest first.
	require.NoError(t, drv.InsertMigration(ctx, "1672617600"))
	require.NoError(t, drv.InsertMigration(ctx, "1672531200"))
	require.NoError(t, drv.InsertMigration(ctx, "1672704000"))

	ids, err = drv.EnsureMigrationsTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1672704000", "1672617600", "1672531200"}, ids)

	require.NoError(t, drv.RemoveMigration(ctx, "1672617600"))

	ids, err = drv.EnsureMigrationsTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1672704000", "1672531200"}, ids)
}

func TestLedger_customTableName_postgres(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	url := startPostgres(t)

	drv, err := driver.New(ctx, driver.Config{
		URL:              url,
		MigrationsTable:  "my_custom_ledger",
		MigrationsFolder: t.TempDir(),
		SchemaFile:       "schema.sql",
		WaitTimeout:      60 * time.Second,
	}, true)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, drv.Close())
	})

	_, err = drv.EnsureMigrationsTable(ctx)
	require.NoError(t, err)

	require.NoError(t, drv.InsertMigration(ctx, "1672531200"))

	// The custom table is the one holding the row.
	require.NoError(t, drv.Execute(ctx, "SELECT id FROM my_custom_ledger", false))
}

func TestCreateAndDropDatabase_postgres(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	url := startPostgres(t)

	// Point at a database that does not exist yet.
	createdURL := strings.Replace(url, "/"+testDB, "/geni_created", 1)

	serverCfg := driver.Config{
		URL:              createdURL,
		MigrationsTable:  "schema_migrations",
		MigrationsFolder: t.TempDir(),
		SchemaFile:       "schema.sql",
		WaitTimeout:      60 * time.Second,
	}

	admin, err := driver.New(ctx, serverCfg, false)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, admin.Close())
	})

	require.NoError(t, admin.CreateDatabase(ctx))

	// The new database accepts connections and work.
	drv, err := driver.New(ctx, serverCfg, true)
	require.NoError(t, err)
	require.NoError(t, drv.Execute(ctx, "CREATE TABLE probe (id INTEGER)", false))
	require.NoError(t, drv.Close())

	require.NoError(t, admin.DropDatabase(ctx))

	// Connecting to the dropped database now fails.
	probeCfg := serverCfg
	probeCfg.WaitTimeout = 3 * time.Second

	_, err = driver.New(ctx, probeCfg, true)
	require.Error(t, err)
}

func TestDumpSchema_postgres_writesSections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	folder := t.TempDir()
	drv := openEngine(t, startPostgres(t), folder)

	require.NoError(t, drv.Execute(ctx,
		"CREATE TABLE accounts (id INTEGER PRIMARY KEY, email VARCHAR(255) NOT NULL);", true))
	require.NoError(t, drv.Execute(ctx,
		"CREATE INDEX idx_accounts_email ON accounts (email);", true))

	require.NoError(t, drv.DumpSchema(ctx))

	content, err := os.ReadFile(filepath.Join(folder, "schema.sql"))
	require.NoError(t, err)

	dump := string(content)
	assert.Contains(t, dump, "Postgres SQL Schema dump automatic generated by geni")
	assert.Contains(t, dump, "-- TABLES")
	assert.Contains(t, dump, "CREATE TABLE accounts")
	assert.Contains(t, dump, "-- INDEXES")
	assert.Contains(t, dump, "idx_accounts_email")
}

func TestDumpSchema_mysql_writesTables(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	folder := t.TempDir()
	drv := openEngine(t, startMySQL(t), folder)

	require.NoError(t, drv.Execute(ctx,
		"CREATE TABLE accounts (id INTEGER NOT NULL, email VARCHAR(255) NOT NULL);", true))

	require.NoError(t, drv.DumpSchema(ctx))

	content, err := os.ReadFile(filepath.Join(folder, "schema.sql"))
	require.NoError(t, err)

	dump := string(content)
	assert.Contains(t, dump, "MySQL SQL Schema dump automatic generated by geni")
	assert.Contains(t, dump, "CREATE TABLE accounts")
}
