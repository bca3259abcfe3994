package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilpriver/geni/internal/analyzer"
	"github.com/emilpriver/geni/internal/analyzer/rules"
)

func TestVacuumFullRule_flagsFullVacuums(t *testing.T) {
	t.Parallel()

	rule := rules.NewVacuumFullRule()
	require.Equal(t, "vacuum-full", rule.ID())

	tests := []struct {
		name  string
		sql   string
		table string
	}{
		{"legacy syntax", "VACUUM FULL users;", "users"},
		{"option list syntax", "VACUUM (FULL) users;", "users"},
		{"no target table", "VACUUM FULL;", "<all tables>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			findings := checkOne(t, rule, tt.sql)
			require.Len(t, findings, 1)
			assert.Equal(t, analyzer.High, findings[0].Severity)
			assert.Equal(t, tt.table, findings[0].Table)
		})
	}
}

func TestVacuumFullRule_ignoresPlainVacuum(t *testing.T) {
	t.Parallel()

	rule := rules.NewVacuumFullRule()

	for _, sql := range []string{
		"VACUUM users;",
		"VACUUM ANALYZE users;",
		"CREATE TABLE users (id INT);",
	} {
		assert.Empty(t, checkOne(t, rule, sql))
	}
}
