package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/emilpriver/geni/internal/analyzer"
)

// AddConstraintRule flags CHECK and FOREIGN KEY constraints added without
// NOT VALID. Inline validation scans every row while the ALTER holds its
// lock; NOT VALID defers the scan to a later VALIDATE CONSTRAINT, which
// takes a much weaker lock.
type AddConstraintRule struct{}

// NewAddConstraintRule creates the rule.
func NewAddConstraintRule() *AddConstraintRule { return &AddConstraintRule{} }

// ID returns the rule identifier.
func (r *AddConstraintRule) ID() string { return "add-constraint-without-not-valid" }

// Check reports constraints that validate existing rows inline.
func (r *AddConstraintRule) Check(stmt *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	alter := stmt.GetStmt().GetAlterTableStmt()
	if alter == nil {
		return nil
	}

	var findings []analyzer.Finding

	for _, node := range alter.Cmds {
		cmd := node.GetAlterTableCmd()
		if cmd == nil || cmd.Subtype != pg_query.AlterTableType_AT_AddConstraint {
			continue
		}

		con := cmd.GetDef().GetConstraint()
		if con == nil || con.SkipValidation {
			continue
		}

		if con.Contype != pg_query.ConstrType_CONSTR_CHECK && con.Contype != pg_query.ConstrType_CONSTR_FOREIGN {
			continue
		}

		findings = append(findings, analyzer.Finding{
			Rule:       r.ID(),
			Severity:   analyzer.High,
			Table:      analyzer.TableName(alter.Relation),
			Message:    "ADD CONSTRAINT without NOT VALID scans the whole table while holding a lock",
			Suggestion: "Add the constraint NOT VALID, then VALIDATE CONSTRAINT in a later migration",
			LockType:   "ACCESS EXCLUSIVE",
			StmtIndex:  ctx.StmtIndex,
		})
	}

	return findings
}
