package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/validata-io/validata/pkg/core"
)

// PostgresCatalog reads table schemas from information_schema.
type PostgresCatalog struct {
	db     *sql.DB
	schema string
}

// OpenPostgres connects to the database named by dsn. Lookups are scoped
// to the public schema.
func OpenPostgres(dsn string) (*PostgresCatalog, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres catalog: %w", err)
	}
	return NewPostgres(db), nil
}

// NewPostgres wraps an existing connection. Used directly by tests.
func NewPostgres(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db, schema: "public"}
}

func (c *PostgresCatalog) Close() error { return c.db.Close() }

func (c *PostgresCatalog) Tables(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`, c.schema)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (c *PostgresCatalog) Schema(ctx context.Context, table string) (*core.TargetSchema, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT
			c.column_name,
			c.data_type,
			c.is_nullable = 'YES',
			EXISTS (
				SELECT 1
				FROM information_schema.table_constraints tc
				JOIN information_schema.key_column_usage kcu
					ON kcu.constraint_name = tc.constraint_name
					AND kcu.table_schema = tc.table_schema
				WHERE tc.constraint_type = 'PRIMARY KEY'
					AND tc.table_schema = c.table_schema
					AND tc.table_name = c.table_name
					AND kcu.column_name = c.column_name
			) AS is_pk
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`, c.schema, table)
	if err != nil {
		return nil, fmt.Errorf("introspect table %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	schema := &core.TargetSchema{Table: table}
	for rows.Next() {
		var (
			name, declared string
			nullable, pk   bool
		)
		if err := rows.Scan(&name, &declared, &nullable, &pk); err != nil {
			return nil, fmt.Errorf("scan column info: %w", err)
		}
		typ, err := core.ParseColumnType(declared)
		if err != nil {
			typ = core.TypeString
		}
		schema.Columns = append(schema.Columns, core.ColumnSpec{
			Name:       name,
			Type:       typ,
			Nullable:   nullable && !pk,
			PrimaryKey: pk,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("column info rows: %w", err)
	}
	if len(schema.Columns) == 0 {
		return nil, &core.SchemaNotFoundError{Table: table}
	}
	return schema, nil
}
