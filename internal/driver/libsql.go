package driver

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // registers the libsql database/sql driver
)

// LibSQL runs migrations against a remote sqld server over HTTP or
// websocket. The hosting platform owns the database lifecycle, so create
// and drop are refused.
type LibSQL struct {
	core
	cfg Config
}

func newLibSQL(cfg Config, u *url.URL) (*LibSQL, error) {
	if strings.HasPrefix(cfg.URL, "libsql://./") {
		return nil, fmt.Errorf("%w: libsql:// is for remote databases, use sqlite:// for local files", ErrInvalidDatabaseURL)
	}

	connURL := *u

	if cfg.Token != "" {
		q := connURL.Query()
		q.Set("authToken", cfg.Token)
		connURL.RawQuery = q.Encode()
	} else {
		slog.Info("database token is not set, connecting without authentication")
	}

	db, err := open("libsql", connURL.String())
	if err != nil {
		return nil, err
	}

	return &LibSQL{
		core: core{db: db, table: cfg.MigrationsTable, placeholder: "?"},
		cfg:  cfg,
	}, nil
}

// CreateDatabase is refused; remote databases are provisioned through the
// hosting platform.
func (l *LibSQL) CreateDatabase(context.Context) error {
	return fmt.Errorf("%w: create the database through your libsql provider", ErrUnsupported)
}

// DropDatabase is refused; remote databases are removed through the
// hosting platform.
func (l *LibSQL) DropDatabase(context.Context) error {
	return fmt.Errorf("%w: drop the database through your libsql provider", ErrUnsupported)
}

// Ready issues a probe query. The HTTP connector is lazy, so a plain ping
// would not touch the network.
func (l *LibSQL) Ready(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, "SELECT 1"); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	return nil
}

// DumpSchema writes every object definition from sqlite_master to the
// schema file.
func (l *LibSQL) DumpSchema(ctx context.Context) error {
	return dumpSQLiteMaster(ctx, &l.core, l.cfg)
}
