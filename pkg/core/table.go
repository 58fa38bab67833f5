// Package core defines the data model shared by the validation engine,
// catalogs, and renderers: ingested tables, target schemas, and the
// findings that make up a validation report.
package core

import "strings"

// Column is a single named column of raw cell text. A cell whose trimmed
// text is empty is treated as null everywhere in the engine.
type Column struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// IsNull reports whether the cell at row i is null. Out-of-range rows are
// null by definition (ragged sources are padded at ingest, but callers may
// probe past the end).
func (c Column) IsNull(i int) bool {
	if i < 0 || i >= len(c.Values) {
		return true
	}
	return strings.TrimSpace(c.Values[i]) == ""
}

// NonNull returns the non-null cell values in row order.
func (c Column) NonNull() []string {
	out := make([]string, 0, len(c.Values))
	for i, v := range c.Values {
		if !c.IsNull(i) {
			out = append(out, v)
		}
	}
	return out
}

// NullCount returns the number of null cells.
func (c Column) NullCount() int {
	n := 0
	for i := range c.Values {
		if c.IsNull(i) {
			n++
		}
	}
	return n
}

// Table is an immutable snapshot of an ingested file. Columns keep the
// order they appeared in the source.
type Table struct {
	Name     string   `json:"name"`
	Columns  []Column `json:"columns"`
	RowCount int      `json:"row_count"`
}

// Column returns the column with the given name, or nil if absent.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// ColumnNames returns the column names in source order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Row materializes row i as a slice of cell texts in column order.
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		if i >= 0 && i < len(c.Values) {
			row[j] = c.Values[i]
		}
	}
	return row
}
