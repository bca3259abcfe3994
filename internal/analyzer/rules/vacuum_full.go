package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/emilpriver/geni/internal/analyzer"
)

// VacuumFullRule flags VACUUM FULL, which compacts by rewriting the whole
// table rather than reclaiming space in place.
type VacuumFullRule struct{}

// NewVacuumFullRule creates the rule.
func NewVacuumFullRule() *VacuumFullRule { return &VacuumFullRule{} }

// ID returns the rule identifier.
func (r *VacuumFullRule) ID() string { return "vacuum-full" }

// Check reports full-rewrite vacuums.
func (r *VacuumFullRule) Check(stmt *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	vacuum := stmt.GetStmt().GetVacuumStmt()
	if vacuum == nil || !hasFullOption(vacuum) {
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.High,
		Table:      vacuumTarget(vacuum),
		Message:    "VACUUM FULL rewrites the table under an ACCESS EXCLUSIVE lock",
		Suggestion: "Run plain VACUUM; it reclaims space without blocking reads or writes",
		LockType:   "ACCESS EXCLUSIVE",
		StmtIndex:  ctx.StmtIndex,
	}}
}

func hasFullOption(v *pg_query.VacuumStmt) bool {
	for _, opt := range v.Options {
		if opt.GetDefElem().GetDefname() == "full" {
			return true
		}
	}

	return false
}

func vacuumTarget(v *pg_query.VacuumStmt) string {
	for _, rel := range v.Rels {
		if vr := rel.GetVacuumRelation(); vr.GetRelation() != nil {
			return analyzer.TableName(vr.GetRelation())
		}
	}

	return "<all tables>"
}
