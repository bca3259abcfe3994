package parser //nolint:revive // does not conflict with go/parser inside internal

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// ParseResult holds the parsed statements and the SQL they came from.
// Statement offsets index into SQL, so the input reaches the parser
// untrimmed.
type ParseResult struct {
	Stmts []*pg_query.RawStmt
	SQL   string
}

// Parse runs a SQL string through the PostgreSQL parser. Lint rules walk
// the returned statements. Empty or whitespace-only input parses to zero
// statements rather than an error, since generated migration files start
// out as a lone comment.
func Parse(sql string) (*ParseResult, error) {
	if strings.TrimSpace(sql) == "" {
		return &ParseResult{SQL: sql}, nil
	}

	tree, err := pg_query.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("parsing SQL: %w", err)
	}

	return &ParseResult{
		Stmts: tree.Stmts,
		SQL:   sql,
	}, nil
}

// StmtText returns the source text of the statement at idx, trimmed of
// surrounding whitespace and the trailing semicolon. The parser records an
// offset and length per statement; a zero length means the statement runs
// to the end of the input.
func (r *ParseResult) StmtText(idx int) string {
	if idx < 0 || idx >= len(r.Stmts) {
		return ""
	}

	start := int(r.Stmts[idx].StmtLocation)
	if start < 0 || start >= len(r.SQL) {
		return ""
	}

	end := len(r.SQL)
	if n := int(r.Stmts[idx].StmtLen); n > 0 && start+n <= len(r.SQL) {
		end = start + n
	}

	return strings.TrimSpace(r.SQL[start:end])
}
