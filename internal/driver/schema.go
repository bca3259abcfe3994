package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// writeSchemaFile writes a schema dump to the configured file inside the
// migrations folder, creating parent directories and truncating any
// previous dump.
func writeSchemaFile(folder, file, content string) error {
	path := filepath.Join(folder, file)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating schema file directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing schema file %s: %w", path, err)
	}

	return nil
}

// dumpHeader returns the banner written at the top of SQL-dialect dumps.
func dumpHeader(engine string) string {
	return fmt.Sprintf("\n--\n-- %s SQL Schema dump automatic generated by geni\n--\n\n\n", engine)
}

// writeSection appends a named dump section when it has any statements.
func writeSection(b *strings.Builder, name string, stmts []string) {
	if len(stmts) == 0 {
		return
	}

	b.WriteString("-- " + name + " \n\n")

	for _, s := range stmts {
		b.WriteString(s)
		b.WriteString("\n\n")
	}
}
