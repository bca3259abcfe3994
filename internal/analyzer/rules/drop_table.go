package rules

import (
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/emilpriver/geni/internal/analyzer"
)

// DropTableRule flags statements that destroy table data outright:
// DROP TABLE and TRUNCATE.
type DropTableRule struct{}

// NewDropTableRule creates a new DropTableRule.
func NewDropTableRule() *DropTableRule { return &DropTableRule{} }

// ID returns the rule identifier.
func (r *DropTableRule) ID() string { return "drop-table" }

// Check reports table drops and truncations. Dropping other object kinds
// (indexes, views) stays quiet.
func (r *DropTableRule) Check(stmt *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	if drop := stmt.GetStmt().GetDropStmt(); drop != nil {
		return r.dropFindings(drop, ctx)
	}

	if trunc := stmt.GetStmt().GetTruncateStmt(); trunc != nil {
		return r.truncateFindings(trunc, ctx)
	}

	return nil
}

func (r *DropTableRule) dropFindings(drop *pg_query.DropStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	if drop.RemoveType != pg_query.ObjectType_OBJECT_TABLE {
		return nil
	}

	verb := "DROP TABLE"
	if drop.MissingOk {
		verb = "DROP TABLE IF EXISTS"
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Critical,
		Table:      strings.Join(droppedTables(drop), ", "),
		Message:    verb + " permanently deletes the table and every row in it",
		Suggestion: "Take a backup and confirm nothing references the table before this runs",
		LockType:   "ACCESS EXCLUSIVE",
		StmtIndex:  ctx.StmtIndex,
	}}
}

func (r *DropTableRule) truncateFindings(trunc *pg_query.TruncateStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	var tables []string

	for _, rel := range trunc.Relations {
		if rv := rel.GetRangeVar(); rv != nil {
			tables = append(tables, analyzer.TableName(rv))
		}
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Critical,
		Table:      strings.Join(tables, ", "),
		Message:    "TRUNCATE deletes every row; the paired down migration cannot bring the data back",
		Suggestion: "Take a backup first, or delete rows in batches instead",
		LockType:   "ACCESS EXCLUSIVE",
		StmtIndex:  ctx.StmtIndex,
	}}
}

// droppedTables joins each dotted name list in the drop statement.
func droppedTables(drop *pg_query.DropStmt) []string {
	var tables []string

	for _, obj := range drop.Objects {
		list := obj.GetList()
		if list == nil {
			continue
		}

		var parts []string

		for _, item := range list.Items {
			if s := item.GetString_(); s != nil {
				parts = append(parts, s.Sval)
			}
		}

		if len(parts) > 0 {
			tables = append(tables, strings.Join(parts, "."))
		}
	}

	return tables
}
