package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// New scaffolds an empty migration pair in folder, named
// {unix_ts}_{slug}.up.sql and {unix_ts}_{slug}.down.sql, and returns the
// two paths. The slug is the name lowercased with spaces replaced by
// underscores. The folder is created if it does not exist.
func New(folder, name string) (up string, down string, err error) {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", "", fmt.Errorf("creating migrations folder %s: %w", folder, err)
	}

	version := strconv.FormatInt(time.Now().Unix(), 10)
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "_"))

	up = filepath.Join(folder, version+"_"+slug+".up.sql")
	down = filepath.Join(folder, version+"_"+slug+".down.sql")

	if err := writeTemplate(up, "up"); err != nil {
		return "", "", err
	}

	if err := writeTemplate(down, "down"); err != nil {
		return "", "", err
	}

	return up, down, nil
}

func writeTemplate(path, direction string) error {
	content := "-- Write your " + direction + " sql migration here"

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
