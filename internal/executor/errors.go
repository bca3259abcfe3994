package executor

import "errors"

var (
	// ErrNoMigrations is returned by Up when the migrations folder holds
	// no .up.sql files at all.
	ErrNoMigrations = errors.New("no migrations found")

	// ErrMissingRollbackFile is returned by Down when an applied migration
	// has no matching .down.sql file.
	ErrMissingRollbackFile = errors.New("no rollback file for applied migration")

	// ErrInvariantViolation is returned when the migrations table contains
	// an id that is not a version number.
	ErrInvariantViolation = errors.New("migrations table contains a non-numeric id")
)
