package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/emilpriver/geni/internal/analyzer"
)

// LockTableRule flags explicit LOCK TABLE statements.
type LockTableRule struct{}

// NewLockTableRule creates the rule.
func NewLockTableRule() *LockTableRule { return &LockTableRule{} }

// ID returns the rule identifier.
func (r *LockTableRule) ID() string { return "lock-table" }

// Check reports hand-written table locks.
func (r *LockTableRule) Check(stmt *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	lock := stmt.GetStmt().GetLockStmt()
	if lock == nil {
		return nil
	}

	var findings []analyzer.Finding

	for _, rel := range lock.Relations {
		rv := rel.GetRangeVar()
		if rv == nil {
			continue
		}

		findings = append(findings, analyzer.Finding{
			Rule:       r.ID(),
			Severity:   analyzer.High,
			Table:      analyzer.TableName(rv),
			Message:    "Explicit LOCK TABLE stalls every other query on the table until commit",
			Suggestion: "Drop the LOCK statement; the DDL already takes the locks it needs",
			LockType:   "EXPLICIT",
			StmtIndex:  ctx.StmtIndex,
		})
	}

	return findings
}
