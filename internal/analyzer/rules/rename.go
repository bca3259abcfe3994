package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/emilpriver/geni/internal/analyzer"
)

// RenameRule flags table and column renames, which break running
// application code the moment they commit.
type RenameRule struct{}

// NewRenameRule creates a new RenameRule.
func NewRenameRule() *RenameRule { return &RenameRule{} }

// ID returns the rule identifier.
func (r *RenameRule) ID() string { return "rename" }

// Check reports table and column renames. Renaming indexes or constraints
// stays quiet; nothing outside the database references those names.
func (r *RenameRule) Check(stmt *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	rename := stmt.GetStmt().GetRenameStmt()
	if rename == nil {
		return nil
	}

	var subject, fix string

	switch rename.RenameType {
	case pg_query.ObjectType_OBJECT_TABLE:
		subject = "RENAME TABLE"
		fix = "Stage it: create a view under the new name, move the application over, then drop the old name"
	case pg_query.ObjectType_OBJECT_COLUMN:
		subject = "RENAME COLUMN"
		fix = "Stage it: add the new column, backfill, move the application over, then drop the old column"
	default:
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Medium,
		Table:      analyzer.TableName(rename.Relation),
		Message:    subject + " breaks application code still using the old name",
		Suggestion: fix,
		LockType:   "ACCESS EXCLUSIVE",
		StmtIndex:  ctx.StmtIndex,
	}}
}
