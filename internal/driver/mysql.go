package driver

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Dump header labels. MySQL and MariaDB share the implementation.
const (
	engineMySQL   = "MySQL"
	engineMariaDB = "Maria"
)

// MySQL runs migrations against MySQL or MariaDB servers. The two engines
// speak the same protocol and differ here only in the dump banner.
type MySQL struct {
	core
	cfg    Config
	dbName string
	engine string
}

func newMySQL(ctx context.Context, cfg Config, u *url.URL, selectDatabase bool, engine string) (*MySQL, error) {
	dbName := strings.TrimPrefix(u.Path, "/")

	connURL := *u
	if !selectDatabase {
		connURL.Path = ""
	}

	db, err := open("mysql", mysqlDSN(&connURL))
	if err != nil {
		return nil, err
	}

	m := &MySQL{
		core:   core{db: db, table: cfg.MigrationsTable, placeholder: "?"},
		cfg:    cfg,
		dbName: dbName,
		engine: engine,
	}

	if err := waitReady(ctx, m, cfg.WaitTimeout); err != nil {
		_ = db.Close()

		return nil, err
	}

	return m, nil
}

// mysqlDSN converts a mysql:// URL into the DSN form the driver expects.
// Multi-statement mode is forced on because migration files routinely hold
// more than one statement, and localhost is pinned to 127.0.0.1 so the
// driver does not try a socket connection.
func mysqlDSN(u *url.URL) string {
	c := mysql.NewConfig()
	c.Net = "tcp"

	host := u.Hostname()
	if host == "localhost" {
		host = "127.0.0.1"
	}

	port := u.Port()
	if port == "" {
		port = "3306"
	}

	c.Addr = net.JoinHostPort(host, port)
	c.DBName = strings.TrimPrefix(u.Path, "/")

	if u.User != nil {
		c.User = u.User.Username()
		c.Passwd, _ = u.User.Password()
	}

	c.MultiStatements = true

	for k, v := range u.Query() {
		if len(v) == 0 {
			continue
		}

		if c.Params == nil {
			c.Params = make(map[string]string)
		}

		c.Params[k] = v[0]
	}

	return c.FormatDSN()
}

// CreateDatabase creates the database named in the connection URL. Only
// valid on a driver constructed at server level.
func (m *MySQL) CreateDatabase(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", m.dbName)); err != nil {
		return fmt.Errorf("creating database %s: %w", m.dbName, err)
	}

	return nil
}

// DropDatabase drops the database named in the connection URL.
func (m *MySQL) DropDatabase(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", m.dbName)); err != nil {
		return fmt.Errorf("dropping database %s: %w", m.dbName, err)
	}

	return nil
}

// DumpSchema introspects information_schema and writes tables, views,
// constraints, indexes, and comments to the schema file.
func (m *MySQL) DumpSchema(ctx context.Context) error {
	var b strings.Builder
	b.WriteString(dumpHeader(m.engine))

	sections := []struct {
		name  string
		query string
		binds int
	}{
		{"TABLES", myDumpTables, 2},
		{"VIEWS", myDumpViews, 1},
		{"CONSTRAINTS", myDumpConstraints, 3},
		{"INDEXES", myDumpIndexes, 1},
		{"COMMENTS", myDumpComments, 2},
	}

	for _, s := range sections {
		args := make([]any, s.binds)
		for i := range args {
			args[i] = m.dbName
		}

		stmts, err := m.queryColumn(ctx, s.query, args...)
		if err != nil {
			return fmt.Errorf("dumping %s: %w", strings.ToLower(s.name), err)
		}

		writeSection(&b, s.name, stmts)
	}

	return writeSchemaFile(m.cfg.MigrationsFolder, m.cfg.SchemaFile, b.String())
}

const (
	myDumpTables = `
		SELECT
			CONCAT(
				'CREATE TABLE ',
				TABLE_NAME,
				' (\n',
				GROUP_CONCAT(
					CONCAT(
						'  ', COLUMN_NAME, ' ', COLUMN_TYPE,
						IF(IS_NULLABLE = 'NO', ' NOT NULL', ''),
						IF(COLUMN_DEFAULT IS NOT NULL, CONCAT(' DEFAULT ', COLUMN_DEFAULT), '')
					)
					ORDER BY COLUMN_NAME ASC
					SEPARATOR', \n'
				),
				'\n);'
			) AS create_table_stmt
		FROM
			INFORMATION_SCHEMA.COLUMNS
		WHERE
			TABLE_SCHEMA = ? AND TABLE_NAME NOT IN (SELECT TABLE_NAME FROM INFORMATION_SCHEMA.VIEWS WHERE TABLE_SCHEMA = ?)
		GROUP BY
			TABLE_NAME
		ORDER BY
			TABLE_NAME
	`

	myDumpViews = `
		SELECT
			CONCAT(
				'CREATE VIEW ',
				TABLE_NAME,
				' AS ',
				VIEW_DEFINITION,
				';'
			) AS create_view_stmt
		FROM
			INFORMATION_SCHEMA.VIEWS
		WHERE
			TABLE_SCHEMA = ?
		ORDER BY TABLE_SCHEMA ASC
	`

	myDumpConstraints = `
		SELECT DISTINCT
			CONCAT(
				'ALTER TABLE ',
				TABLE_NAME,
				' ADD CONSTRAINT ',
				CASE
					WHEN CONSTRAINT_NAME = 'PRIMARY' THEN 'PRIMARY KEY'
					WHEN INDEX_NAME != 'PRIMARY' THEN 'UNIQUE'
					ELSE 'FOREIGN KEY'
				END,
				' (',
				COLUMN_NAME,
				CASE
					WHEN REFERENCED_TABLE_NAME IS NOT NULL THEN
						CONCAT(') REFERENCES ', REFERENCED_TABLE_NAME, ' (', REFERENCED_COLUMN_NAME, ')')
					ELSE ')'
				END,
				';'
			) AS create_constraint_stmt,
			TABLE_NAME
		FROM
			(
			SELECT
				TABLE_NAME,
				COLUMN_NAME,
				CONSTRAINT_NAME,
				NULL AS INDEX_NAME,
				NULL AS REFERENCED_TABLE_NAME,
				NULL AS REFERENCED_COLUMN_NAME
			FROM
				INFORMATION_SCHEMA.KEY_COLUMN_USAGE
			WHERE
				TABLE_SCHEMA = ?
				AND CONSTRAINT_NAME = 'PRIMARY'
			UNION ALL
			SELECT
				TABLE_NAME,
				COLUMN_NAME,
				NULL AS CONSTRAINT_NAME,
				INDEX_NAME,
				NULL AS REFERENCED_TABLE_NAME,
				NULL AS REFERENCED_COLUMN_NAME
			FROM
				INFORMATION_SCHEMA.STATISTICS
			WHERE
				TABLE_SCHEMA = ?
				AND INDEX_NAME != 'PRIMARY'
			UNION ALL
			SELECT
				TABLE_NAME,
				COLUMN_NAME,
				CONSTRAINT_NAME,
				NULL AS INDEX_NAME,
				REFERENCED_TABLE_NAME,
				REFERENCED_COLUMN_NAME
			FROM
				INFORMATION_SCHEMA.KEY_COLUMN_USAGE
			WHERE
				TABLE_SCHEMA = ?
				AND REFERENCED_TABLE_NAME IS NOT NULL
			ORDER BY COLUMN_NAME ASC
			) AS constraints
		ORDER BY
			TABLE_NAME ASC
	`

	myDumpIndexes = `
		SELECT
			CONCAT(
				'CREATE INDEX ',
				INDEX_NAME,
				' ON ',
				TABLE_NAME,
				' (',
				COLUMN_NAME,
				');'
			) AS create_index_stmt
		FROM
			INFORMATION_SCHEMA.STATISTICS
		WHERE
			TABLE_SCHEMA = ?
		GROUP BY
			TABLE_NAME, INDEX_NAME, COLUMN_NAME
		ORDER BY
			TABLE_NAME, COLUMN_NAME ASC
	`

	myDumpComments = `
		SELECT
			CONCAT(
				CASE
					WHEN TABLE_COMMENT IS NOT NULL THEN
						CONCAT('ALTER TABLE ', TABLE_NAME, ' COMMENT = ''', TABLE_COMMENT, ''';')
					ELSE
						CONCAT('ALTER TABLE ', TABLE_NAME, ' MODIFY COLUMN ', COLUMN_NAME, ' COMMENT ''', COLUMN_COMMENT, ''';')
				END
			) AS comment_stmt
		FROM
			(
				SELECT TABLE_NAME, TABLE_COMMENT, NULL AS COLUMN_NAME, NULL AS COLUMN_COMMENT
				FROM INFORMATION_SCHEMA.TABLES
				WHERE TABLE_SCHEMA = ? AND (TABLE_COMMENT IS NOT NULL OR TABLE_COMMENT != '')
				UNION ALL
				SELECT TABLE_NAME, NULL, COLUMN_NAME, COLUMN_COMMENT
				FROM INFORMATION_SCHEMA.COLUMNS
				WHERE TABLE_SCHEMA = ? AND (COLUMN_COMMENT IS NOT NULL OR COLUMN_COMMENT != '')
			) AS comments
		ORDER BY TABLE_NAME, COLUMN_NAME
	`
)
