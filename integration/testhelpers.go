//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/emilpriver/geni/internal/driver"
)

const (
	postgresImage = "postgres:16-alpine"
	mysqlImage    = "mysql:8.4"
	mariadbImage  = "mariadb:11"
	testDB        = "geni_test"
	testUser      = "geni"
	testPassword  = "geni"
)

// startPostgres starts a PostgreSQL container and returns a connection URL
// for the test database. The container is terminated when the test completes.
func startPostgres(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       testDB,
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPassword,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		testUser, testPassword, host, port.Port(), testDB)
}

// startMySQL starts a MySQL container and returns a connection URL.
func startMySQL(t *testing.T) string {
	t.Helper()

	return startMySQLFamily(t, mysqlImage, "mysql")
}

// startMariaDB starts a MariaDB container and returns a connection URL.
// MariaDB accepts the MYSQL_* environment variables for compatibility.
func startMariaDB(t *testing.T) string {
	t.Helper()

	return startMySQLFamily(t, mariadbImage, "mariadb")
}

func startMySQLFamily(t *testing.T, image, scheme string) string {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_DATABASE":      testDB,
			"MYSQL_ROOT_PASSWORD": testPassword,
		},
		WaitingFor: wait.ForLog("ready for connections").
			WithOccurrence(2).
			WithStartupTimeout(120 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("%s://root:%s@%s:%s/%s", scheme, testPassword, host, port.Port(), testDB)
}

// sqliteURL returns a URL for a database file under a fresh temp directory.
// No container is involved.
func sqliteURL(t *testing.T) string {
	t.Helper()

	return "sqlite://" + filepath.Join(t.TempDir(), "test.db")
}

// openEngine connects a driver to the given URL. Schema dumps land in folder.
func openEngine(t *testing.T, url, folder string) driver.Driver {
	t.Helper()

	drv, err := driver.New(context.Background(), driver.Config{
		URL:              url,
		MigrationsTable:  "schema_migrations",
		MigrationsFolder: folder,
		SchemaFile:       "schema.sql",
		WaitTimeout:      60 * time.Second,
	}, true)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, drv.Close())
	})

	return drv
}

// writeMigration writes a single migration file into dir.
func writeMigration(t *testing.T, dir, name, sql string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o644))
}

// seedUserMigrations writes three up/down pairs that build a small schema
// using SQL every supported engine accepts.
func seedUserMigrations(t *testing.T, dir string) {
	t.Helper()

	writeMigration(t, dir, "1672531200_create_users.up.sql",
		"CREATE TABLE users (id INTEGER NOT NULL, name VARCHAR(255) NOT NULL);")
	writeMigration(t, dir, "1672531200_create_users.down.sql",
		"DROP TABLE users;")
	writeMigration(t, dir, "1672617600_create_posts.up.sql",
		"CREATE TABLE posts (id INTEGER NOT NULL, user_id INTEGER NOT NULL, title VARCHAR(255));")
	writeMigration(t, dir, "1672617600_create_posts.down.sql",
		"DROP TABLE posts;")
	writeMigration(t, dir, "1672704000_add_email.up.sql",
		"ALTER TABLE users ADD COLUMN email VARCHAR(255);")
	writeMigration(t, dir, "1672704000_add_email.down.sql",
		"ALTER TABLE users DROP COLUMN email;")
}
