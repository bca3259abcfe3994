package executor

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/emilpriver/geni/internal/migration"
	"github.com/emilpriver/geni/internal/tracker"
)

// Down reverts the amount most recently applied migrations, newest first,
// and returns how many were reverted. Each revert runs the matching
// .down.sql file and then deletes the ledger row, so an interrupted
// rollback can be resumed by running it again.
func (e *Executor) Down(ctx context.Context, amount int) (int, error) {
	files, err := migration.Discover(e.folder, migration.DirectionDown)
	if err != nil {
		return 0, err
	}

	if len(files) == 0 {
		return 0, fmt.Errorf("%w: no .down.sql files at %s", ErrNoMigrations, e.folder)
	}

	tr, err := tracker.New(ctx, e.drv)
	if err != nil {
		return 0, err
	}

	targets, err := RollbackTargets(tr.AppliedDescending(), amount)
	if err != nil {
		return 0, err
	}

	reverted := 0

	for _, version := range targets {
		f, ok := migration.Find(files, version)
		if !ok {
			return reverted, fmt.Errorf("%w: %d", ErrMissingRollbackFile, version)
		}

		if err := e.revertOne(ctx, f, tr); err != nil {
			return reverted, err
		}

		reverted++
	}

	e.maybeDumpSchema(ctx)

	return reverted, nil
}

// revertOne executes a single down migration and deletes its ledger row.
func (e *Executor) revertOne(ctx context.Context, f migration.File, tr *tracker.Tracker) error {
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

		return fmt.Errorf("rolling back %s: %w", f.ID(), execErr)
	}

	if err := tr.Remove(ctx, f.ID()); err != nil {
		return err
	}

	e.fireProgress(ProgressEvent{
		File:     f,
		Status:   StatusCompleted,
		Duration: duration,
	})

	return nil
}

// RollbackTargets picks which versions Down will revert: the first amount
// entries of the ledger's newest-first order. Every ledger id must parse as
// a version number. An amount larger than the ledger reverts everything.
func RollbackTargets(appliedDesc []string, amount int) ([]int64, error) {
	versions := make([]int64, 0, len(appliedDesc))

	for _, id := range appliedDesc {
		v, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvariantViolation, id)
		}

		versions = append(versions, v)
	}

	if amount < 0 {
		amount = 0
	}

	if amount > len(versions) {
		amount = len(versions)
	}

	return versions[:amount], nil
}
