package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/emilpriver/geni/internal/analyzer"
)

// AddColumnRule flags ADD COLUMN with a volatile DEFAULT. Postgres serves
// constant defaults from catalog metadata, but a volatile expression like
// now() or gen_random_uuid() is computed per row, which rewrites the table.
type AddColumnRule struct{}

// NewAddColumnRule creates the rule.
func NewAddColumnRule() *AddColumnRule { return &AddColumnRule{} }

// ID returns the rule identifier.
func (r *AddColumnRule) ID() string { return "add-column-volatile-default" }

// Check reports added columns whose DEFAULT forces a table rewrite.
func (r *AddColumnRule) Check(stmt *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	alter := stmt.GetStmt().GetAlterTableStmt()
	if alter == nil {
		return nil
	}

	var findings []analyzer.Finding

	for _, node := range alter.Cmds {
		cmd := node.GetAlterTableCmd()
		if cmd == nil || cmd.Subtype != pg_query.AlterTableType_AT_AddColumn {
			continue
		}

		if !volatileDefault(columnDefault(cmd.GetDef().GetColumnDef())) {
			continue
		}

		findings = append(findings, analyzer.Finding{
			Rule:       r.ID(),
			Severity:   analyzer.High,
			Table:      analyzer.TableName(alter.Relation),
			Message:    "ADD COLUMN with a volatile DEFAULT computes the expression for every existing row",
			Suggestion: "Add the column without a default, backfill in batches, then set the default for new rows",
			LockType:   "ACCESS EXCLUSIVE",
			StmtIndex:  ctx.StmtIndex,
		})
	}

	return findings
}

// columnDefault returns the DEFAULT expression of a column definition, or
// nil when the column has none. The parser stores it as a CONSTR_DEFAULT
// entry in the constraint list.
func columnDefault(col *pg_query.ColumnDef) *pg_query.Node {
	if col == nil {
		return nil
	}

	for _, c := range col.Constraints {
		if con := c.GetConstraint(); con != nil && con.Contype == pg_query.ConstrType_CONSTR_DEFAULT {
			return con.RawExpr
		}
	}

	return nil
}

// volatileDefault reports whether a DEFAULT expression can change between
// evaluations. Constants and casts of constants are stable; anything else,
// function calls included, is treated as volatile.
func volatileDefault(expr *pg_query.Node) bool {
	switch {
	case expr == nil:
		return false
	case expr.GetAConst() != nil:
		return false
	case expr.GetTypeCast() != nil:
		return expr.GetTypeCast().GetArg().GetAConst() == nil
	default:
		return true
	}
}
