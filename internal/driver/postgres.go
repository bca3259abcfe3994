package driver

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
)

// Postgres runs migrations against a PostgreSQL server through pgx.
type Postgres struct {
	core
	cfg    Config
	dbName string
}

func newPostgres(ctx context.Context, cfg Config, u *url.URL, selectDatabase bool) (*Postgres, error) {
	dbName := strings.TrimPrefix(u.Path, "/")

	connURL := *u
	connURL.Scheme = "postgresql"

	if !selectDatabase {
		connURL.Path = ""
	}

	db, err := open("pgx", connURL.String())
	if err != nil {
		return nil, err
	}

	p := &Postgres{
		core:   core{db: db, table: cfg.MigrationsTable, placeholder: "$1"},
		cfg:    cfg,
		dbName: dbName,
	}

	if err := waitReady(ctx, p, cfg.WaitTimeout); err != nil {
		_ = db.Close()

		return nil, err
	}

	return p, nil
}

// CreateDatabase creates the database named in the connection URL. Only
// valid on a driver constructed at server level.
func (p *Postgres) CreateDatabase(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %s", p.dbName)); err != nil {
		return fmt.Errorf("creating database %s: %w", p.dbName, err)
	}

	return nil
}

// DropDatabase drops the database named in the connection URL.
func (p *Postgres) DropDatabase(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, fmt.Sprintf("DROP DATABASE %s", p.dbName)); err != nil {
		return fmt.Errorf("dropping database %s: %w", p.dbName, err)
	}

	return nil
}

// DumpSchema introspects the public schema and writes extensions, tables,
// views, constraints, indexes, sequences, and comments to the schema file.
func (p *Postgres) DumpSchema(ctx context.Context) error {
	var b strings.Builder
	b.WriteString(dumpHeader("Postgres"))

	sections := []struct {
		name  string
		query string
	}{
		{"EXTENSIONS", pgDumpExtensions},
		{"TABLES", pgDumpTables},
		{"VIEWS", pgDumpViews},
		{"CONSTRAINTS", pgDumpConstraints},
		{"INDEXES", pgDumpIndexes},
		{"SEQUENCES", pgDumpSequences},
		{"COMMENTS", pgDumpComments},
	}

	for _, s := range sections {
		stmts, err := p.queryColumn(ctx, s.query)
		if err != nil {
			return fmt.Errorf("dumping %s: %w", strings.ToLower(s.name), err)
		}

		writeSection(&b, s.name, stmts)
	}

	return writeSchemaFile(p.cfg.MigrationsFolder, p.cfg.SchemaFile, b.String())
}

const (
	pgDumpExtensions = `
		SELECT
			'CREATE EXTENSION IF NOT EXISTS "' || extname || '" WITH SCHEMA public;' AS sql
		FROM
			pg_extension
		WHERE
			(SELECT nspname FROM pg_namespace WHERE oid = extnamespace) = 'public'
		ORDER BY extname ASC
	`

	pgDumpTables = `
		SELECT
			'CREATE TABLE ' || t.table_name || E' (\n ' ||
			string_agg(c.column_name || ' ' || c.data_type || ' ' ||
						(CASE WHEN c.character_maximum_length IS NOT NULL
							THEN '(' || c.character_maximum_length || ')'
							ELSE '' END) ||
						(CASE WHEN c.is_nullable = 'NO' THEN ' NOT NULL' ELSE '' END),
						E',\n ' ORDER BY c.column_name ASC) ||
			E'\n);' AS sql
		FROM
			information_schema.columns c
		JOIN
			information_schema.tables t ON c.table_name = t.table_name
		WHERE
			t.table_schema = 'public'
			AND t.table_type = 'BASE TABLE'
		GROUP BY
			t.table_name
		ORDER BY
			t.table_name
	`

	pgDumpViews = `
		SELECT
			'CREATE VIEW ' || table_name || ' AS\n' || view_definition || ';' AS sql
		FROM
			information_schema.views
		WHERE
			table_schema = 'public'
		ORDER BY
			table_name ASC
	`

	pgDumpConstraints = `
		SELECT DISTINCT
			CASE
				WHEN tc.constraint_type = 'PRIMARY KEY' THEN
					'ALTER TABLE ' || tc.table_name ||
					' ADD CONSTRAINT ' || tc.constraint_name ||
					' PRIMARY KEY (' || kcu.column_name || ');'
				WHEN tc.constraint_type = 'FOREIGN KEY' THEN
					'ALTER TABLE ' || tc.table_name ||
					' ADD CONSTRAINT ' || tc.constraint_name ||
					' FOREIGN KEY (' || kcu.column_name || ') REFERENCES ' ||
					ccu.table_name || '(' || ccu.column_name || ');'
				WHEN tc.constraint_type = 'UNIQUE' THEN
					'ALTER TABLE ' || tc.table_name ||
					' ADD CONSTRAINT ' || tc.constraint_name ||
					' UNIQUE (' || kcu.column_name || ');'
				WHEN tc.constraint_type = 'CHECK' THEN
					'ALTER TABLE ' || tc.table_name ||
					' ADD CONSTRAINT ' || tc.constraint_name ||
					' CHECK (' || cc.check_clause || ');'
			END AS sql,
			tc.table_name,
			tc.constraint_name
		FROM
			information_schema.table_constraints tc
		JOIN
			information_schema.key_column_usage kcu ON tc.constraint_name = kcu.constraint_name
		LEFT JOIN
			information_schema.constraint_column_usage ccu ON kcu.constraint_name = ccu.constraint_name
		LEFT JOIN
			information_schema.check_constraints cc ON tc.constraint_name = cc.constraint_name
		WHERE
			tc.table_schema = 'public'
		ORDER BY
			tc.table_name,
			tc.constraint_name
	`

	pgDumpIndexes = `
		SELECT
			indexdef AS sql
		FROM
			pg_indexes
		WHERE
			schemaname = 'public'
		ORDER BY
			indexname ASC
	`

	pgDumpSequences = `
		SELECT
			'CREATE SEQUENCE ' || sequence_name ||
			' AS ' || data_type ||
			' START WITH ' || start_value ||
			' MINVALUE ' || minimum_value ||
			' MAXVALUE ' || maximum_value ||
			' INCREMENT BY ' || increment ||
			' CYCLE;' AS sql
		FROM
			information_schema.sequences
		WHERE
			sequence_schema = 'public'
		ORDER BY
			sequence_name ASC
	`

	pgDumpComments = `
		SELECT
			'COMMENT ON ' ||
			CASE
				WHEN pa.attnum > 0 THEN
					'COLUMN ' || pc.relname || '.' || pa.attname
				ELSE
					'TABLE ' || pc.relname
			END ||
			' IS ' || pd.description || ';' AS sql
		FROM
			pg_class pc
			JOIN pg_attribute pa ON pc.oid = pa.attrelid
			LEFT JOIN pg_description pd ON pc.oid = pd.objoid AND pa.attnum = pd.objsubid
		WHERE
			pc.relnamespace = (
				SELECT
					oid
				FROM
					pg_namespace
				WHERE
					nspname = 'public'
			)
			AND pd.description IS NOT NULL
		ORDER BY
			pc.relname,
			pa.attnum
	`
)
