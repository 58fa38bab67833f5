package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/validata-io/validata/pkg/core"
)

// typePriority is the order in which cell values are classified. A value
// belongs to the first type it fully parses as; anything else is a string.
var typePriority = []core.ColumnType{
	core.TypeInteger,
	core.TypeFloat,
	core.TypeDate,
	core.TypeBool,
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parsesAs(value string, t core.ColumnType) bool {
	v := strings.TrimSpace(value)
	switch t {
	case core.TypeInteger:
		_, err := strconv.ParseInt(v, 10, 64)
		return err == nil
	case core.TypeFloat:
		_, err := strconv.ParseFloat(v, 64)
		return err == nil
	case core.TypeDate:
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, v); err == nil {
				return true
			}
		}
		return false
	case core.TypeBool:
		_, err := strconv.ParseBool(v)
		return err == nil
	case core.TypeString:
		return true
	}
	return false
}

// classifyValue returns the narrowest type a cell value parses as.
func classifyValue(value string) core.ColumnType {
	for _, t := range typePriority {
		if parsesAs(value, t) {
			return t
		}
	}
	return core.TypeString
}

// observeType infers a sample's type: the first type in classification
// order that every sampled value parses as. A single stray value widens
// the whole column to string, which is what makes it show up against a
// narrower declared type.
func observeType(sample []string) core.ColumnType {
	if len(sample) == 0 {
		return core.TypeString
	}
	for _, t := range typePriority {
		all := true
		for _, v := range sample {
			if !parsesAs(v, t) {
				all = false
				break
			}
		}
		if all {
			return t
		}
	}
	return core.TypeString
}

const maxInvalidSamples = 5

// checkType compares a column's observed type against its declared type.
// On mismatch the whole column is scanned and every cell that fails to
// parse as the declared type is counted, keeping up to five distinct
// offending values in first-seen order. Zero failing cells yields nil.
func checkType(col *core.Column, spec core.ColumnSpec, rowCount, sampleSize int) *core.TypeViolation {
	sample := sampleValues(col, sampleSize)
	observed := observeType(sample)
	if observed == spec.Type {
		return nil
	}

	affected := 0
	var samples []string
	seen := make(map[string]bool)
	for i, v := range col.Values {
		if col.IsNull(i) || parsesAs(v, spec.Type) {
			continue
		}
		affected++
		if len(samples) < maxInvalidSamples && !seen[v] {
			seen[v] = true
			samples = append(samples, v)
		}
	}
	if affected == 0 {
		return nil
	}

	severity := core.SeverityMedium
	if rowCount > 0 && float64(affected)/float64(rowCount) > 0.05 {
		severity = core.SeverityHigh
	}
	return &core.TypeViolation{
		Column:         spec.Name,
		Declared:       spec.Type,
		Observed:       observed,
		AffectedCount:  affected,
		RowCount:       rowCount,
		InvalidSamples: samples,
		Severity:       severity,
	}
}

// sampleValues returns the first n non-null values of a column.
func sampleValues(col *core.Column, n int) []string {
	if n < 1 {
		n = 1
	}
	out := make([]string, 0, n)
	for i, v := range col.Values {
		if col.IsNull(i) {
			continue
		}
		out = append(out, v)
		if len(out) == n {
			break
		}
	}
	return out
}
