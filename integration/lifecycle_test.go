//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilpriver/geni/internal/executor"
)

// engines lists every backend the lifecycle test runs against. Server
// engines get a container each; sqlite runs on a temp file.
func engines() []struct {
	name  string
	start func(t *testing.T) string
} {
	return []struct {
		name  string
		start func(t *testing.T) string
	}{
		{name: "postgres", start: startPostgres},
		{name: "mysql", start: startMySQL},
		{name: "mariadb", start: startMariaDB},
		{name: "sqlite", start: sqliteURL},
	}
}

func TestLifecycle_allEngines(t *testing.T) {
	t.Parallel()

	for _, e := range engines() {
		t.Run(e.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			folder := t.TempDir()
			seedUserMigrations(t, folder)

			drv := openEngine(t, e.start(t), folder)
			exec := executor.New(drv, folder, executor.WithSchemaDump(true))

			// First run applies all three.
			applied, err := exec.Up(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, applied)

			// Second run is a no-op.
			applied, err = exec.Up(ctx)
			require.NoError(t, err)
			assert.Zero(t, applied)

			// Ledger holds every version, newest first.
			ids, err := drv.EnsureMigrationsTable(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"1672704000", "1672617600", "1672531200"}, ids)

			// Schema dump landed next to the migrations.
			schema, err := os.ReadFile(filepath.Join(folder, "schema.sql"))
			require.NoError(t, err)
			assert.Contains(t, strings.ToLower(string(schema)), "users")

			// Status reports nothing pending.
			report, err := exec.Status(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, report.Applied)
			assert.Empty(t, report.Pending)

			// Roll back the newest, then re-apply it.
			reverted, err := exec.Down(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, 1, reverted)

			ids, err = drv.EnsureMigrationsTable(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"1672617600", "1672531200"}, ids)

			applied, err = exec.Up(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, applied)

			// An oversized amount drains the ledger and stops.
			reverted, err = exec.Down(ctx, 10)
			require.NoError(t, err)
			assert.Equal(t, 3, reverted)

			ids, err = drv.EnsureMigrationsTable(ctx)
			require.NoError(t, err)
			assert.Empty(t, ids)
		})
	}
}

func TestUp_progressEvents_postgres(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	folder := t.TempDir()
	seedUserMigrations(t, folder)

	drv := openEngine(t, startPostgres(t), folder)

	var events []executor.ProgressEvent

	exec := executor.New(drv, folder,
		executor.WithProgressCallback(func(e executor.ProgressEvent) {
			events = append(events, e)
		}),
	)

	applied, err := exec.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, applied)

	// Three starting + three completed, interleaved per file.
	require.Len(t, events, 6)

	for i := 0; i < 3; i++ {
		assert.Equal(t, executor.StatusStarting, events[i*2].Status)
		assert.Equal(t, executor.StatusCompleted, events[i*2+1].Status)
	}
}

func TestUp_failedFile_rollsBackTransaction_postgres(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	folder := t.TempDir()

	// One file, two statements, the second invalid. The first statement's
	// table must not survive the rollback.
	writeMigration(t, folder, "1672531200_broken.up.sql",
		"CREATE TABLE widgets (id INTEGER NOT NULL);\n"+
			"CREATE TABLE bad (id INTEGER REFERENCES nonexistent(id));")

	drv := openEngine(t, startPostgres(t), folder)
	exec := executor.New(drv, folder)

	_, err := exec.Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrating 1672531200")

	// Ledger stayed empty.
	ids, err := drv.EnsureMigrationsTable(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// The half-applied table was rolled back.
	err = drv.Execute(ctx, "SELECT * FROM widgets", false)
	require.Error(t, err)
}

func TestUp_partialFailure_earlierFilesStayApplied_postgres(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	folder := t.TempDir()

	writeMigration(t, folder, "1672531200_good.up.sql",
		"CREATE TABLE widgets (id INTEGER NOT NULL);")
	writeMigration(t, folder, "1672617600_bad.up.sql",
		"CREATE TABLE bad (id INTEGER REFERENCES nonexistent(id));")

	drv := openEngine(t, startPostgres(t), folder)
	exec := executor.New(drv, folder)

	_, err := exec.Up(ctx)
	require.Error(t, err)

	ids, err := drv.EnsureMigrationsTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1672531200"}, ids)
}

func TestUp_transactionMarker_createIndexConcurrently_postgres(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	folder := t.TempDir()

	writeMigration(t, folder, "1672531200_create_items.up.sql",
		"CREATE TABLE items (id INTEGER NOT NULL, name VARCHAR(255));")
	writeMigration(t, folder, "1672617600_index_items.up.sql",
		"-- transaction: no\nCREATE INDEX CONCURRENTLY idx_items_name ON items (name);")

	drv := openEngine(t, startPostgres(t), folder)
	exec := executor.New(drv, folder)

	applied, err := exec.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	// CONCURRENTLY refuses to run inside a transaction, so success here
	// proves the marker took the file out of the wrapper. The index itself
	// must exist too.
	err = drv.Execute(ctx,
		"DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_items_name') THEN RAISE EXCEPTION 'missing index'; END IF; END $$",
		false)
	require.NoError(t, err)
}

func TestUp_multiStatementFile_mysql(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	folder := t.TempDir()

	writeMigration(t, folder, "1672531200_two_tables.up.sql",
		"CREATE TABLE first_table (id INTEGER NOT NULL);\n"+
			"CREATE TABLE second_table (id INTEGER NOT NULL);")

	drv := openEngine(t, startMySQL(t), folder)
	exec := executor.New(drv, folder)

	applied, err := exec.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	// Both tables exist.
	require.NoError(t, drv.Execute(ctx, "SELECT 1 FROM first_table", false))
	require.NoError(t, drv.Execute(ctx, "SELECT 1 FROM second_table", false))
}

func TestLifecycle_sixTables_sqlite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	folder := t.TempDir()

	base := int64(1672531200)
	names := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}

	for i, table := range names {
		version := base + int64(i)
		writeMigration(t, folder, fmt.Sprintf("%d_create_%s.up.sql", version, table),
			fmt.Sprintf("CREATE TABLE %s (id INTEGER NOT NULL);", table))
		writeMigration(t, folder, fmt.Sprintf("%d_create_%s.down.sql", version, table),
			fmt.Sprintf("DROP TABLE %s;", table))
	}

	drv := openEngine(t, sqliteURL(t), folder)
	exec := executor.New(drv, folder)

	applied, err := exec.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, applied)

	ids, err := drv.EnsureMigrationsTable(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 6)

	// Rolling back one drops only the newest table.
	reverted, err := exec.Down(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, reverted)

	ids, err = drv.EnsureMigrationsTable(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 5)

	require.Error(t, drv.Execute(ctx, "SELECT 1 FROM foxtrot", false))
	require.NoError(t, drv.Execute(ctx, "SELECT 1 FROM echo", false))

	// Rolling back three more leaves the two oldest.
	reverted, err = exec.Down(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, reverted)

	ids, err = drv.EnsureMigrationsTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1672531201", "1672531200"}, ids)
}

func TestDown_missingRollbackFile_keepsLedgerRow_postgres(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	folder := t.TempDir()

	writeMigration(t, folder, "1672531200_create_users.up.sql",
		"CREATE TABLE users (id INTEGER NOT NULL);")
	writeMigration(t, folder, "1672531200_create_users.down.sql",
		"DROP TABLE users;")
	// The newer migration was applied but its down file is gone.
	writeMigration(t, folder, "1672617600_add_email.up.sql",
		"ALTER TABLE users ADD COLUMN email TEXT;")

	drv := openEngine(t, startPostgres(t), folder)
	exec := executor.New(drv, folder)

	_, err := exec.Up(ctx)
	require.NoError(t, err)

	_, err = exec.Down(ctx, 1)
	require.ErrorIs(t, err, executor.ErrMissingRollbackFile)

	ids, err := drv.EnsureMigrationsTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1672617600", "1672531200"}, ids)
}
