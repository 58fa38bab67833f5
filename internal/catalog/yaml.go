package catalog

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/validata-io/validata/pkg/core"
)

// yamlColumn is the on-disk column shape. Nullable defaults to true when
// omitted, matching how most schema files are written.
type yamlColumn struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Nullable   *bool  `yaml:"nullable"`
	PrimaryKey bool   `yaml:"primary_key"`
}

type yamlFile struct {
	Tables map[string][]yamlColumn `yaml:"tables"`
}

// YAMLCatalog serves schemas from a YAML definition file, for use without
// a live database.
type YAMLCatalog struct {
	schemas map[string]*core.TargetSchema
}

// OpenYAML parses the schema definition file at path.
func OpenYAML(path string) (*YAMLCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	var doc yamlFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema file %s: %w", path, err)
	}

	schemas := make(map[string]*core.TargetSchema, len(doc.Tables))
	for table, cols := range doc.Tables {
		schema := &core.TargetSchema{Table: table}
		for _, yc := range cols {
			typ, err := core.ParseColumnType(yc.Type)
			if err != nil {
				return nil, fmt.Errorf("table %s column %s: %w", table, yc.Name, err)
			}
			nullable := yc.Nullable == nil || *yc.Nullable
			if yc.PrimaryKey {
				nullable = false
			}
			schema.Columns = append(schema.Columns, core.ColumnSpec{
				Name:       yc.Name,
				Type:       typ,
				Nullable:   nullable,
				PrimaryKey: yc.PrimaryKey,
			})
		}
		schemas[table] = schema
	}
	return &YAMLCatalog{schemas: schemas}, nil
}

func (c *YAMLCatalog) Close() error { return nil }

func (c *YAMLCatalog) Tables(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(c.schemas))
	for name := range c.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (c *YAMLCatalog) Schema(_ context.Context, table string) (*core.TargetSchema, error) {
	schema, ok := c.schemas[table]
	if !ok {
		return nil, &core.SchemaNotFoundError{Table: table}
	}
	return schema, nil
}
