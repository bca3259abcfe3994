package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/emilpriver/geni/internal/analyzer"
)

// AlterColumnTypeRule flags ALTER COLUMN ... TYPE. Unless the new type is
// binary compatible, the change rewrites the whole table under an ACCESS
// EXCLUSIVE lock.
type AlterColumnTypeRule struct{}

// NewAlterColumnTypeRule creates a new AlterColumnTypeRule.
func NewAlterColumnTypeRule() *AlterColumnTypeRule { return &AlterColumnTypeRule{} }

// ID returns the rule identifier.
func (r *AlterColumnTypeRule) ID() string { return "alter-column-type" }

// Check reports one finding per retyped column in the statement.
func (r *AlterColumnTypeRule) Check(stmt *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	alter := stmt.GetStmt().GetAlterTableStmt()
	if alter == nil {
		return nil
	}

	var findings []analyzer.Finding

	for _, node := range alter.Cmds {
		cmd := node.GetAlterTableCmd()
		if cmd == nil || cmd.Subtype != pg_query.AlterTableType_AT_AlterColumnType {
			continue
		}

		findings = append(findings, analyzer.Finding{
			Rule:       r.ID(),
			Severity:   analyzer.High,
			Table:      analyzer.TableName(alter.Relation),
			Message:    "Changing a column type rewrites the table under an ACCESS EXCLUSIVE lock",
			Suggestion: "Stage it: add a column with the new type, backfill, swap reads, then drop the old column",
			LockType:   "ACCESS EXCLUSIVE",
			StmtIndex:  ctx.StmtIndex,
		})
	}

	return findings
}
