package driver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// core implements the ledger operations and SQL execution shared by every
// database/sql backed engine. Placeholder syntax is the only dialect
// difference at this layer.
type core struct {
	db          *sql.DB
	table       string
	placeholder string // "$1" for postgres, "?" for everything else
}

// open wraps sql.Open and caps the handle at a single connection. A
// migration run is strictly sequential, and statements that escape the
// transaction wrapper must land on the same session.
func open(driverName, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDatabaseURL, err)
	}

	db.SetMaxOpenConns(1)

	return db, nil
}

// Execute runs a migration file's statements, optionally inside a transaction.
// On statement failure inside a transaction the rollback error, if any, is
// reported alongside the original cause rather than replacing it.
func (c *core) Execute(ctx context.Context, query string, inTransaction bool) error {
	if !inTransaction {
		if _, err := c.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}

		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query); err != nil {
		execErr := fmt.Errorf("executing migration: %w", err)

		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(execErr, fmt.Errorf("rolling back: %w", rbErr))
		}

		return execErr
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// EnsureMigrationsTable creates the migrations table if it does not exist and
// returns the applied ids in the table's native descending order.
func (c *core) EnsureMigrationsTable(ctx context.Context) ([]string, error) {
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (id VARCHAR(255) PRIMARY KEY)", c.table)
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("creating migrations table %s: %w", c.table, err)
	}

	ids, err := c.queryColumn(ctx, fmt.Sprintf("SELECT id FROM %s ORDER BY id DESC", c.table))
	if err != nil {
		return nil, fmt.Errorf("reading migrations table %s: %w", c.table, err)
	}

	return ids, nil
}

// InsertMigration records an id as applied.
func (c *core) InsertMigration(ctx context.Context, id string) error {
	query := fmt.Sprintf("INSERT INTO %s (id) VALUES (%s)", c.table, c.placeholder)
	if _, err := c.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("recording migration %s: %w", id, err)
	}

	return nil
}

// RemoveMigration deletes an id from the migrations table.
func (c *core) RemoveMigration(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = %s", c.table, c.placeholder)
	if _, err := c.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("removing migration %s: %w", id, err)
	}

	return nil
}

// Ready probes the connection.
func (c *core) Ready(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	return nil
}

// Close releases the underlying connection.
func (c *core) Close() error {
	return c.db.Close()
}

// queryColumn runs a query and collects the first column of every row,
// skipping NULLs. Extra columns, which some introspection queries carry for
// their ORDER BY, are discarded.
func (c *core) queryColumn(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []string

	for rows.Next() {
		var s sql.NullString

		dest := make([]any, len(cols))
		dest[0] = &s

		for i := 1; i < len(dest); i++ {
			var discard any
			dest[i] = &discard
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		if s.Valid {
			out = append(out, s.String)
		}
	}

	return out, rows.Err()
}

// waitReady polls the driver once a second until the database answers or the
// timeout elapses.
func waitReady(ctx context.Context, d Driver, timeout time.Duration) error {
	err := d.Ready(ctx)
	if err == nil {
		return nil
	}

	deadline := time.Now().Add(timeout)

	for {
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %w", ErrDatabaseNotReady, err)
		}

		slog.Info("waiting for database to be ready")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}

		if err = d.Ready(ctx); err == nil {
			return nil
		}
	}
}
