package tracker

import (
	"context"
	"sort"

	"github.com/emilpriver/geni/internal/driver"
)

// Tracker is the ledger manager: it reads and mutates the applied-migrations
// table through a Driver and caches the applied set for the duration of one
// run. The process is short-lived, so the cache is rebuilt every invocation.
type Tracker struct {
	drv     driver.Driver
	applied []string // ids in the ledger's native descending order
}

// New ensures the migrations table exists and loads the applied ids.
func New(ctx context.Context, drv driver.Driver) (*Tracker, error) {
	ids, err := drv.EnsureMigrationsTable(ctx)
	if err != nil {
		return nil, err
	}

	return &Tracker{drv: drv, applied: ids}, nil
}

// AppliedDescending returns the applied ids, most recently applied first.
func (t *Tracker) AppliedDescending() []string {
	out := make([]string, len(t.applied))
	copy(out, t.applied)

	return out
}

// IsApplied reports whether an id is recorded in the ledger.
func (t *Tracker) IsApplied(id string) bool {
	for _, a := range t.applied {
		if a == id {
			return true
		}
	}

	return false
}

// Count returns how many migrations are currently applied.
func (t *Tracker) Count() int {
	return len(t.applied)
}

// Record writes an id to the ledger and keeps the cache coherent.
func (t *Tracker) Record(ctx context.Context, id string) error {
	if err := t.drv.InsertMigration(ctx, id); err != nil {
		return err
	}

	t.applied = append(t.applied, id)
	sort.Sort(sort.Reverse(sort.StringSlice(t.applied)))

	return nil
}

// Remove deletes an id from the ledger and the cache.
func (t *Tracker) Remove(ctx context.Context, id string) error {
	if err := t.drv.RemoveMigration(ctx, id); err != nil {
		return err
	}

	for i, a := range t.applied {
		if a == id {
			t.applied = append(t.applied[:i], t.applied[i+1:]...)

			break
		}
	}

	return nil
}
