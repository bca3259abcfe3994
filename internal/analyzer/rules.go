package analyzer

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/emilpriver/geni/internal/migration"
)

// Rule is implemented by every lint check.
type Rule interface {
	// ID returns a unique kebab-case identifier for this rule.
	ID() string
	// Check examines a single parsed statement and returns any findings.
	Check(stmt *pg_query.RawStmt, ctx *RuleContext) []Finding
}

// RuleContext carries per-statement context into rules.
type RuleContext struct {
	File      migration.File
	StmtIndex int
	SQL       string // full migration SQL, for extracting statement text
}

// Registry holds the rules an Analyzer runs.
type Registry struct {
	rules []Rule
}

// NewRegistry creates a registry holding the given rules.
func NewRegistry(rules ...Rule) *Registry {
	return &Registry{rules: rules}
}

// Register appends a rule.
func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	return r.rules
}

// TableName renders a parsed relation reference, schema-qualified when the
// statement named a schema.
func TableName(rv *pg_query.RangeVar) string {
	switch {
	case rv == nil:
		return "<unknown>"
	case rv.Schemaname != "":
		return rv.Schemaname + "." + rv.Relname
	default:
		return rv.Relname
	}
}

