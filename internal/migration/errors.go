package migration

import "errors"

var (
	// ErrMalformedFilename indicates a file with a migration suffix whose
	// version prefix could not be parsed.
	ErrMalformedFilename = errors.New("malformed migration filename")

	// ErrDirectoryNotFound indicates the configured migrations folder does not exist.
	ErrDirectoryNotFound = errors.New("migrations directory not found")
)
