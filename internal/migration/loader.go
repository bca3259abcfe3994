package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Discover scans a directory (non-recursively) for migration files of one
// direction and returns them sorted by ascending version. Filenames must
// follow {version}_{name}.{direction}.sql where version is the numeric
// timestamp assigned at generation time; a file carrying the direction
// suffix but a non-numeric prefix is an error rather than skipped, since a
// typo there would otherwise silently drop a migration.
func Discover(dir string, direction Direction) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}

		return nil, fmt.Errorf("reading migrations directory %s: %w", dir, err)
	}

	suffix := "." + string(direction) + ".sql"

	var files []File

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}

		f, err := parseFilename(entry.Name(), suffix, direction)
		if err != nil {
			return nil, err
		}

		f.Path = filepath.Join(dir, entry.Name())
		files = append(files, f)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Version < files[j].Version
	})

	return files, nil
}

// parseFilename splits {version}_{name}{suffix} into its parts.
func parseFilename(filename, suffix string, direction Direction) (File, error) {
	base := strings.TrimSuffix(filename, suffix)

	versionPart, name, found := strings.Cut(base, "_")
	if !found || versionPart == "" {
		return File{}, fmt.Errorf("%w: %s: missing version prefix", ErrMalformedFilename, filename)
	}

	version, err := strconv.ParseInt(versionPart, 10, 64)
	if err != nil {
		return File{}, fmt.Errorf("%w: %s: version %q is not numeric", ErrMalformedFilename, filename, versionPart)
	}

	return File{
		Version:   version,
		Name:      name,
		Direction: direction,
	}, nil
}
