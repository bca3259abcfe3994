package driver

import "errors"

var (
	// ErrInvalidDatabaseURL indicates the provided database URL could not be parsed.
	ErrInvalidDatabaseURL = errors.New("invalid database URL")

	// ErrUnsupportedDriver indicates the URL scheme does not map to a known engine.
	ErrUnsupportedDriver = errors.New("unsupported database driver")

	// ErrDatabaseNotReady indicates the readiness probe exhausted its wait timeout.
	ErrDatabaseNotReady = errors.New("database is not ready")

	// ErrUnsupported indicates an administrative operation the engine deliberately
	// refuses, such as creating a database over a remote HTTP connection.
	ErrUnsupported = errors.New("operation not supported by this driver")
)
