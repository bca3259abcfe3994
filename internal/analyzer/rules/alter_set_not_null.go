package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/emilpriver/geni/internal/analyzer"
)

// SetNotNullRule flags SET NOT NULL, which proves the absence of NULLs by
// scanning the table. A validated CHECK constraint lets Postgres skip that
// scan, so the staged form is the safe path on busy tables.
type SetNotNullRule struct{}

// NewSetNotNullRule creates the rule.
func NewSetNotNullRule() *SetNotNullRule { return &SetNotNullRule{} }

// ID returns the rule identifier.
func (r *SetNotNullRule) ID() string { return "set-not-null" }

// Check reports columns switched to NOT NULL in place.
func (r *SetNotNullRule) Check(stmt *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	alter := stmt.GetStmt().GetAlterTableStmt()
	if alter == nil {
		return nil
	}

	var findings []analyzer.Finding

	for _, node := range alter.Cmds {
		cmd := node.GetAlterTableCmd()
		if cmd == nil || cmd.Subtype != pg_query.AlterTableType_AT_SetNotNull {
			continue
		}

		findings = append(findings, analyzer.Finding{
			Rule:       r.ID(),
			Severity:   analyzer.Medium,
			Table:      analyzer.TableName(alter.Relation),
			Message:    "SET NOT NULL scans the whole table to prove no NULLs exist",
			Suggestion: "Add CHECK (col IS NOT NULL) NOT VALID, VALIDATE CONSTRAINT, then SET NOT NULL",
			LockType:   "ACCESS EXCLUSIVE",
			StmtIndex:  ctx.StmtIndex,
		})
	}

	return findings
}
