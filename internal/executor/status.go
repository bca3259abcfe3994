package executor

import (
	"context"

	"github.com/emilpriver/geni/internal/migration"
	"github.com/emilpriver/geni/internal/tracker"
)

// Report describes the gap between the migrations folder and the ledger.
type Report struct {
	// Pending lists up migrations on disk that the ledger does not record,
	// in the order Up would apply them.
	Pending []migration.File
	// Applied is the number of ledger entries.
	Applied int
}

// Status reports which migrations are pending without executing anything.
func (e *Executor) Status(ctx context.Context) (*Report, error) {
	files, err := migration.Discover(e.folder, migration.DirectionUp)
	if err != nil {
		return nil, err
	}

	tr, err := tracker.New(ctx, e.drv)
	if err != nil {
		return nil, err
	}

	report := &Report{Applied: tr.Count()}

	for _, f := range files {
		if tr.IsApplied(f.ID()) {
			continue
		}

		report.Pending = append(report.Pending, f)
	}

	return report, nil
}
