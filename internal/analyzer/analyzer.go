package analyzer

import (
	"fmt"

	"github.com/emilpriver/geni/internal/migration"
	"github.com/emilpriver/geni/internal/parser"
)

// Option configures the Analyzer.
type Option func(*Analyzer)

// Analyzer runs registered lint rules against migration SQL. Rules speak
// the PostgreSQL dialect; migrations written for other engines may fail to
// parse, which surfaces as an error rather than a silent pass.
type Analyzer struct {
	registry *Registry
	parseFn  func(string) (*parser.ParseResult, error)
}

// New creates an Analyzer with the given options.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		registry: NewRegistry(),
		parseFn:  parser.Parse,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// WithRegistry sets a custom rule registry.
func WithRegistry(r *Registry) Option {
	return func(a *Analyzer) { a.registry = r }
}

// WithParser overrides the SQL parser function (useful for testing).
func WithParser(fn func(string) (*parser.ParseResult, error)) Option {
	return func(a *Analyzer) { a.parseFn = fn }
}

// Analyze runs every registered rule over each statement of one migration
// and returns the collected findings.
func (a *Analyzer) Analyze(f migration.File, sql string) (*AnalysisResult, error) {
	result, err := a.parseFn(sql)
	if err != nil {
		return nil, fmt.Errorf("parsing migration %s: %w", f.ID(), err)
	}

	var findings []Finding

	maxSeverity := Safe

	for i, stmt := range result.Stmts {
		ctx := &RuleContext{
			File:      f,
			StmtIndex: i,
			SQL:       sql,
		}

		for _, rule := range a.registry.Rules() {
			fs := rule.Check(stmt, ctx)
			for j := range fs {
				if fs[j].Severity > maxSeverity {
					maxSeverity = fs[j].Severity
				}

				if fs[j].Statement == "" {
					fs[j].Statement = TruncateSQL(result.StmtText(i), statementDisplayLen)
				}
			}

			findings = append(findings, fs...)
		}
	}

	return &AnalysisResult{
		File:        f,
		Findings:    findings,
		MaxSeverity: maxSeverity,
	}, nil
}

// AnalyzeAll reads and analyzes each migration file in order.
func (a *Analyzer) AnalyzeAll(files []migration.File) ([]AnalysisResult, error) {
	results := make([]AnalysisResult, 0, len(files))

	for _, f := range files {
		sql, err := f.Content()
		if err != nil {
			return nil, err
		}

		r, err := a.Analyze(f, sql)
		if err != nil {
			return nil, err
		}

		results = append(results, *r)
	}

	return results, nil
}
