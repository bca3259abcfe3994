package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/emilpriver/geni/internal/analyzer"
)

// CreateIndexRule flags index builds that block writes. A plain CREATE
// INDEX holds a SHARE lock on the table until the build finishes.
type CreateIndexRule struct{}

// NewCreateIndexRule creates a new CreateIndexRule.
func NewCreateIndexRule() *CreateIndexRule { return &CreateIndexRule{} }

// ID returns the rule identifier.
func (r *CreateIndexRule) ID() string { return "create-index-not-concurrent" }

// Check reports indexes created without CONCURRENTLY.
func (r *CreateIndexRule) Check(stmt *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	idx := stmt.GetStmt().GetIndexStmt()
	if idx == nil || idx.Concurrent {
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.High,
		Table:      analyzer.TableName(idx.Relation),
		Message:    "CREATE INDEX without CONCURRENTLY blocks writes until the build finishes",
		Suggestion: "Use CREATE INDEX CONCURRENTLY with a 'transaction: no' marker so it runs outside a transaction",
		LockType:   "SHARE",
		StmtIndex:  ctx.StmtIndex,
	}}
}
