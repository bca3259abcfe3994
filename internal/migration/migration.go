package migration

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Direction selects which half of a migration pair a file belongs to.
type Direction string

const (
	// DirectionUp applies a migration forward.
	DirectionUp Direction = "up"
	// DirectionDown reverses a previously applied migration.
	DirectionDown Direction = "down"
)

// File represents a single migration file discovered on disk.
type File struct {
	Version   int64  // numeric timestamp prefix, the migration's identity
	Name      string // the slug between version and suffix, like "create_users"
	Direction Direction
	Path      string // full path to the file
}

// ID returns the version formatted as the string stored in the migrations table.
func (f File) ID() string {
	return strconv.FormatInt(f.Version, 10)
}

// Content reads the file's SQL from disk.
func (f File) Content() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("reading migration file %s: %w", f.Path, err)
	}

	return string(data), nil
}

// RunInTransaction reports whether a migration file's statements should be
// wrapped in a transaction. The first line of the file may opt out with a
// `transaction: no` (or `transaction:no`) marker, typically inside a SQL
// comment; anything else keeps the transactional default.
func RunInTransaction(content string) bool {
	first, _, _ := strings.Cut(content, "\n")

	if strings.Contains(first, "transaction: no") || strings.Contains(first, "transaction:no") {
		return false
	}

	return true
}

// Find returns the file with the given version, if present.
func Find(files []File, version int64) (File, bool) {
	for _, f := range files {
		if f.Version == version {
			return f, true
		}
	}

	return File{}, false
}
