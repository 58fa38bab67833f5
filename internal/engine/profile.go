package engine

import (
	"context"
	"strconv"
	"strings"

	"github.com/validata-io/validata/pkg/core"
)

// DefaultProfileRows is the number of sample rows a profile carries when
// the caller does not say otherwise.
const DefaultProfileRows = 5

// Profile summarizes a table: the first sampleRows rows plus per-column
// counts and, for numeric columns, min/max/mean. An out-of-range
// sampleRows is clamped to [0, rowCount] and logged, never an error.
func (e *Engine) Profile(ctx context.Context, table *core.Table, sampleRows int) (*core.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	requested := sampleRows
	if sampleRows < 0 {
		sampleRows = 0
	}
	if sampleRows > table.RowCount {
		sampleRows = table.RowCount
	}
	if sampleRows != requested {
		e.logger.Debug("clamped profile sample size",
			"table", table.Name,
			"requested", requested,
			"clamped", sampleRows,
			"reason", (&core.InvalidParameterError{Param: "sample_rows", Value: requested, Clamped: sampleRows}).Error())
	}

	prof := &core.Profile{
		Table:      table.Name,
		RowCount:   table.RowCount,
		SampleSize: sampleRows,
		Header:     table.ColumnNames(),
		SampleRows: make([][]string, 0, sampleRows),
	}
	for i := 0; i < sampleRows; i++ {
		prof.SampleRows = append(prof.SampleRows, table.Row(i))
	}

	for i := range table.Columns {
		col := &table.Columns[i]
		prof.Columns = append(prof.Columns, profileColumn(col, e.sampleSize))
	}
	return prof, nil
}

func profileColumn(col *core.Column, sampleSize int) core.ColumnProfile {
	cp := core.ColumnProfile{
		Name:      col.Name,
		Count:     len(col.Values),
		NullCount: col.NullCount(),
	}

	distinct := make(map[string]bool, len(col.Values))
	for i, v := range col.Values {
		if !col.IsNull(i) {
			distinct[strings.TrimSpace(v)] = true
		}
	}
	cp.DistinctCount = len(distinct)

	if !observeType(sampleValues(col, sampleSize)).Numeric() {
		return cp
	}

	var (
		sum      float64
		n        int
		min, max float64
	)
	for i, v := range col.Values {
		if col.IsNull(i) {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			continue
		}
		if n == 0 || f < min {
			min = f
		}
		if n == 0 || f > max {
			max = f
		}
		sum += f
		n++
	}
	if n > 0 {
		mean := sum / float64(n)
		cp.Min, cp.Max, cp.Mean = &min, &max, &mean
	}
	return cp
}
