package rules_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emilpriver/geni/internal/analyzer"
	"github.com/emilpriver/geni/internal/parser"
)

// checkOne parses a single-statement SQL string and runs one rule over it.
func checkOne(t *testing.T, rule analyzer.Rule, sql string) []analyzer.Finding {
	t.Helper()

	result, err := parser.Parse(sql)
	require.NoError(t, err)
	require.Len(t, result.Stmts, 1)

	return rule.Check(result.Stmts[0], &analyzer.RuleContext{StmtIndex: 0})
}
