package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the sqlite database/sql driver
)

// SQLite runs migrations against a local database file. The file is created
// on first open, so create is a no-op and drop removes the file.
type SQLite struct {
	core
	cfg  Config
	path string
}

func newSQLite(cfg Config) (*SQLite, error) {
	path := sqlitePath(cfg.URL)

	if _, err := os.Stat(path); err != nil {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}

		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("creating database file %s: %w", path, err)
		}

		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("creating database file %s: %w", path, err)
		}
	}

	db, err := open("sqlite", path)
	if err != nil {
		return nil, err
	}

	return &SQLite{
		core: core{db: db, table: cfg.MigrationsTable, placeholder: "?"},
		cfg:  cfg,
		path: path,
	}, nil
}

// sqlitePath strips the URL scheme, leaving the filesystem path.
func sqlitePath(raw string) string {
	if _, after, found := strings.Cut(raw, "://"); found {
		return after
	}

	return raw
}

// CreateDatabase is a no-op; the database file already exists after open.
func (s *SQLite) CreateDatabase(context.Context) error {
	return nil
}

// DropDatabase removes the database file.
func (s *SQLite) DropDatabase(context.Context) error {
	if err := os.Remove(s.path); err != nil {
		return fmt.Errorf("removing database file %s: %w", s.path, err)
	}

	return nil
}

// Ready always succeeds; there is no server to wait for.
func (s *SQLite) Ready(context.Context) error {
	return nil
}

// DumpSchema writes every object definition from sqlite_master to the
// schema file.
func (s *SQLite) DumpSchema(ctx context.Context) error {
	return dumpSQLiteMaster(ctx, &s.core, s.cfg)
}

// dumpSQLiteMaster is shared by the embedded and remote sqlite-dialect
// engines, which expose the same catalog table.
func dumpSQLiteMaster(ctx context.Context, c *core, cfg Config) error {
	stmts, err := c.queryColumn(ctx, "SELECT sql FROM sqlite_master")
	if err != nil {
		return fmt.Errorf("reading sqlite_master: %w", err)
	}

	cleaned := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		cleaned = append(cleaned, strings.ReplaceAll(strings.Trim(stmt, `"`), `\n`, "\n"))
	}

	return writeSchemaFile(cfg.MigrationsFolder, cfg.SchemaFile, strings.Join(cleaned, "\n"))
}
