package core

import (
	"fmt"
	"strings"
)

// ColumnType is the declared or observed logical type of a column.
type ColumnType string

const (
	TypeInteger ColumnType = "INTEGER"
	TypeFloat   ColumnType = "FLOAT"
	TypeString  ColumnType = "STRING"
	TypeDate    ColumnType = "DATE"
	TypeBool    ColumnType = "BOOL"
)

// ParseColumnType parses the wire form of a column type. Common SQL
// spellings (TEXT, VARCHAR, REAL, NUMERIC, TIMESTAMP, BOOLEAN, INT) are
// folded onto the five logical types.
func ParseColumnType(s string) (ColumnType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INTEGER", "INT", "BIGINT", "SMALLINT", "TINYINT":
		return TypeInteger, nil
	case "FLOAT", "REAL", "DOUBLE", "DOUBLE PRECISION", "NUMERIC", "DECIMAL":
		return TypeFloat, nil
	case "STRING", "TEXT", "VARCHAR", "CHAR", "CHARACTER VARYING":
		return TypeString, nil
	case "DATE", "DATETIME", "TIMESTAMP", "TIMESTAMP WITH TIME ZONE", "TIMESTAMP WITHOUT TIME ZONE":
		return TypeDate, nil
	case "BOOL", "BOOLEAN":
		return TypeBool, nil
	}
	return "", fmt.Errorf("unknown column type %q", s)
}

func (t ColumnType) String() string { return string(t) }

// Numeric reports whether the type orders as a number.
func (t ColumnType) Numeric() bool { return t == TypeInteger || t == TypeFloat }

// ColumnSpec describes one column of a target schema.
type ColumnSpec struct {
	Name       string     `json:"name"`
	Type       ColumnType `json:"type"`
	Nullable   bool       `json:"nullable"`
	PrimaryKey bool       `json:"primary_key"`
}

// TargetSchema is the declared shape of a destination table.
type TargetSchema struct {
	Table   string       `json:"table"`
	Columns []ColumnSpec `json:"columns"`
}

// Column returns the spec with the given name, or nil if absent.
func (s *TargetSchema) Column(name string) *ColumnSpec {
	for i := range s.Columns {
		if s.Columns[i].Name == name {
			return &s.Columns[i]
		}
	}
	return nil
}

// PrimaryKeys returns the names of columns flagged as primary key,
// in schema order.
func (s *TargetSchema) PrimaryKeys() []string {
	var keys []string
	for _, c := range s.Columns {
		if c.PrimaryKey {
			keys = append(keys, c.Name)
		}
	}
	return keys
}
