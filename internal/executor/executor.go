package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/emilpriver/geni/internal/driver"
	"github.com/emilpriver/geni/internal/migration"
	"github.com/emilpriver/geni/internal/tracker"
)

// Progress status constants reported via ProgressEvent.
const (
	StatusStarting  = "starting"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ProgressEvent is emitted for each migration the executor processes.
type ProgressEvent struct {
	File     migration.File
	Status   string
	Duration time.Duration
	Error    error
}

// Executor drives migration runs: it diffs the migrations folder against
// the ledger and applies or reverts files strictly one at a time, updating
// the ledger after each success. A failure aborts the run at the current
// file, leaving the ledger describing exactly the work that committed.
type Executor struct {
	drv        driver.Driver
	folder     string
	dumpSchema bool
	onProgress func(ProgressEvent)
}

// Option configures an Executor.
type Option func(*Executor)

// WithProgressCallback sets a function called for each migration processed.
func WithProgressCallback(fn func(ProgressEvent)) Option {
	return func(e *Executor) { e.onProgress = fn }
}

// WithSchemaDump enables dumping the schema after a successful run.
func WithSchemaDump(enabled bool) Option {
	return func(e *Executor) { e.dumpSchema = enabled }
}

// New creates an Executor over a constructed driver and migrations folder.
func New(drv driver.Driver, folder string, opts ...Option) *Executor {
	e := &Executor{
		drv:    drv,
		folder: folder,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Up applies every pending migration in ascending version order and returns
// how many were applied. Re-running after a mid-run failure resumes with the
// first migration the ledger does not record.
func (e *Executor) Up(ctx context.Context) (int, error) {
	files, err := migration.Discover(e.folder, migration.DirectionUp)
	if err != nil {
		return 0, err
	}

	if len(files) == 0 {
		return 0, fmt.Errorf("%w: no .up.sql files at %s", ErrNoMigrations, e.folder)
	}

	tr, err := tracker.New(ctx, e.drv)
	if err != nil {
		return 0, err
	}

	applied := 0

	for _, f := range files {
		if tr.IsApplied(f.ID()) {
			continue
		}

		if err := e.applyOne(ctx, f, tr); err != nil {
			return applied, err
		}

		applied++
	}

	e.maybeDumpSchema(ctx)

	return applied, nil
}

// applyOne executes a single up migration and records it in the ledger.
func (e *Executor) applyOne(ctx context.Context, f migration.File, tr *tracker.Tracker) error {
	content, err := f.Content()
	if err != nil {
		return err
	}

	e.fireProgress(ProgressEvent{File: f, Status: StatusStarting})

	start := time.Now()
	execErr := e.drv.Execute(ctx, content, migration.RunInTransaction(content))
	duration := time.Since(start)

	if execErr != nil {
		e.fireProgress(ProgressEvent{
			File:     f,
			Status:   StatusFailed,
			Duration: duration,
			Error:    execErr,
		})

		return fmt.Errorf("migrating %s: %w", f.ID(), execErr)
	}

	if err := tr.Record(ctx, f.ID()); err != nil {
		return err
	}

	e.fireProgress(ProgressEvent{
		File:     f,
		Status:   StatusCompleted,
		Duration: duration,
	})

	return nil
}

// maybeDumpSchema runs the post-run schema dump when enabled. Dump failures
// never affect the run's outcome.
func (e *Executor) maybeDumpSchema(ctx context.Context) {
	if !e.dumpSchema {
		return
	}

	if err := e.drv.DumpSchema(ctx); err != nil {
		slog.Warn("skipping schema dump", "error", err)
	}
}

func (e *Executor) fireProgress(event ProgressEvent) {
	if e.onProgress != nil {
		e.onProgress(event)
	}
}
