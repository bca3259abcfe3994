package analyzer

import "github.com/emilpriver/geni/internal/migration"

// statementDisplayLen bounds the statement text stored on a finding.
const statementDisplayLen = 120

// Finding represents a single dangerous pattern detected in a migration.
type Finding struct {
	Rule       string   // rule ID (e.g. "create-index-not-concurrent")
	Severity   Severity // danger level
	Table      string   // affected table name
	Statement  string   // the offending SQL, truncated for display
	Message    string   // what the statement does to a live database
	Suggestion string   // safer alternative
	LockType   string   // PostgreSQL lock the statement acquires
	StmtIndex  int      // index in the migration's statement list
}

// AnalysisResult holds all findings for a single migration file.
type AnalysisResult struct {
	File        migration.File
	Findings    []Finding
	MaxSeverity Severity
}

// HasHighOrCritical returns true if any finding is High or Critical.
func (r *AnalysisResult) HasHighOrCritical() bool {
	return r.MaxSeverity >= High
}

// TruncateSQL shortens a SQL string to maxLen characters for display.
// Strings at or under the limit, and limits too small to leave room for
// the ellipsis, come back unchanged.
func TruncateSQL(sql string, maxLen int) string {
	if len(sql) <= maxLen || maxLen < 4 {
		return sql
	}

	return sql[:maxLen-3] + "..."
}
