package driver

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Driver is the capability contract every database engine satisfies. The
// executor only ever talks to this interface; engine selection happens once,
// in New, based on the connection URL scheme.
type Driver interface {
	// Execute runs one migration file's raw SQL content. When inTransaction
	// is true the statements are wrapped in a begin/commit and rolled back on
	// failure, with the original statement error surfaced.
	Execute(ctx context.Context, query string, inTransaction bool) error

	// EnsureMigrationsTable idempotently creates the migrations table and
	// returns the applied ids ordered descending.
	EnsureMigrationsTable(ctx context.Context) ([]string, error)

	// InsertMigration records an id as applied.
	InsertMigration(ctx context.Context, id string) error

	// RemoveMigration deletes an id from the migrations table.
	RemoveMigration(ctx context.Context, id string) error

	// CreateDatabase and DropDatabase manage the database itself. Engines
	// where the operation is meaningless either treat it as a file operation
	// or refuse with ErrUnsupported.
	CreateDatabase(ctx context.Context) error
	DropDatabase(ctx context.Context) error

	// Ready probes the connection.
	Ready(ctx context.Context) error

	// DumpSchema writes the current schema definition to the configured
	// schema file using engine-specific introspection.
	DumpSchema(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}

// Config carries the settings shared by every driver constructor.
type Config struct {
	URL              string
	Token            string // auth token for remote engines
	MigrationsTable  string
	MigrationsFolder string // dump output goes here
	SchemaFile       string
	WaitTimeout      time.Duration
}

// New constructs the driver matching the URL scheme. selectDatabase controls
// whether the connection targets the database named in the URL or the server
// itself; create and drop must connect at server level because the named
// database may not exist yet.
func New(ctx context.Context, cfg Config, selectDatabase bool) (Driver, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDatabaseURL, err)
	}

	switch u.Scheme {
	case "postgres", "postgresql", "psql":
		return newPostgres(ctx, cfg, u, selectDatabase)
	case "mysql":
		return newMySQL(ctx, cfg, u, selectDatabase, engineMySQL)
	case "mariadb":
		return newMySQL(ctx, cfg, u, selectDatabase, engineMariaDB)
	case "sqlite", "sqlite3":
		return newSQLite(cfg)
	case "http", "https", "libsql":
		return newLibSQL(cfg, u)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, u.Scheme)
	}
}
