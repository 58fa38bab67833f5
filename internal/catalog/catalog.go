// Package catalog resolves target schemas for destination tables. Backends
// exist for SQLite databases, Postgres databases, and plain YAML schema
// definition files.
package catalog

import (
	"context"
	"fmt"

	"github.com/validata-io/validata/pkg/core"
)

// Catalog looks up declared table schemas.
type Catalog interface {
	// Schema returns the declared schema for a table. A table unknown to
	// the catalog fails with *core.SchemaNotFoundError.
	Schema(ctx context.Context, table string) (*core.TargetSchema, error)

	// Tables lists the table names the catalog knows about.
	Tables(ctx context.Context) ([]string, error)

	Close() error
}

// Config selects and parameterizes a catalog backend.
type Config struct {
	// Driver is one of "sqlite", "postgres", "yaml".
	Driver string
	// DSN is the database path (sqlite), connection string (postgres),
	// or file path (yaml).
	DSN string
}

// Open constructs the backend named by cfg.Driver.
func Open(cfg Config) (Catalog, error) {
	switch cfg.Driver {
	case "sqlite":
		return OpenSQLite(cfg.DSN)
	case "postgres":
		return OpenPostgres(cfg.DSN)
	case "yaml":
		return OpenYAML(cfg.DSN)
	case "":
		return nil, fmt.Errorf("catalog driver not configured")
	default:
		return nil, fmt.Errorf("unknown catalog driver %q", cfg.Driver)
	}
}
