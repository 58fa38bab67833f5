package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/validata-io/validata/pkg/core"
)

// SQLiteCatalog reads table schemas from a SQLite database via
// PRAGMA table_info.
type SQLiteCatalog struct {
	db *sql.DB
}

// OpenSQLite opens a read-only catalog over the SQLite database at path.
func OpenSQLite(path string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite catalog: %w", err)
	}
	return &SQLiteCatalog{db: db}, nil
}

func (c *SQLiteCatalog) Close() error { return c.db.Close() }

// Tables lists user tables, excluding SQLite internals.
func (c *SQLiteCatalog) Tables(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
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

// Schema introspects one table. Column types are folded onto the logical
// type set; an undeclared or unrecognized type falls back to STRING.
func (c *SQLiteCatalog) Schema(ctx context.Context, table string) (*core.TargetSchema, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT name, type, "notnull", pk FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("introspect table %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	schema := &core.TargetSchema{Table: table}
	for rows.Next() {
		var (
			name, declared string
			notNull, pk    int
		)
		if err := rows.Scan(&name, &declared, &notNull, &pk); err != nil {
			return nil, fmt.Errorf("scan column info: %w", err)
		}
		typ, err := core.ParseColumnType(declared)
		if err != nil {
			typ = core.TypeString
		}
		schema.Columns = append(schema.Columns, core.ColumnSpec{
			Name:       name,
			Type:       typ,
			Nullable:   notNull == 0 && pk == 0,
			PrimaryKey: pk > 0,
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
