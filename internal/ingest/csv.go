// Package ingest turns source files into core.Table snapshots. Cells are
// kept as raw text; type interpretation happens later in the engine.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/validata-io/validata/pkg/core"
)

// ReadCSV loads a CSV file into a Table. The first row is the header;
// ragged data rows are padded or truncated to the header width. An
// unreadable file or a file without a header row fails with an
// IngestionError.
func ReadCSV(path string) (*core.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.IngestionError{Source: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	tbl, err := FromReader(f, tableName(path))
	if err != nil {
		return nil, &core.IngestionError{Source: path, Err: err}
	}
	return tbl, nil
}

// FromReader parses CSV content from r into a Table named name.
func FromReader(r io.Reader, name string) (*core.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows, we pad below
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file, no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make([]core.Column, len(header))
	for i, h := range header {
		cols[i] = core.Column{Name: strings.TrimSpace(h)}
	}

	rows := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rows+1, err)
		}
		for i := range cols {
			if i < len(rec) {
				cols[i].Values = append(cols[i].Values, rec[i])
			} else {
				cols[i].Values = append(cols[i].Values, "")
			}
		}
		rows++
	}

	return &core.Table{Name: name, Columns: cols, RowCount: rows}, nil
}

// LoadDir loads every *.csv file in dir, keyed by file stem. A missing
// directory yields an empty map.
func LoadDir(dir string) (map[string]*core.Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*core.Table{}, nil
		}
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	tables := make(map[string]*core.Table)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		tbl, err := ReadCSV(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		tables[tbl.Name] = tbl
	}
	return tables, nil
}

func tableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
