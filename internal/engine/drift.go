package engine

import (
	"sort"

	"github.com/validata-io/validata/pkg/core"
)

// resolvedColumns is the column set drift operates on: matched file
// columns under their target names, extras under their file names.
func resolvedColumns(table *core.Table, mapping core.ColumnMapping) []string {
	out := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		if target, ok := mapping.Target(col.Name); ok {
			out = append(out, target)
		} else {
			out = append(out, col.Name)
		}
	}
	return out
}

// diffColumns compares the current resolved column set against a baseline
// snapshot and reports additions and removals, sorted for stable output.
func diffColumns(current, baseline []string, baselineRunID string) core.DriftResult {
	if baseline == nil {
		return core.DriftResult{Skipped: true, Reason: "no baseline snapshot"}
	}

	curSet := make(map[string]bool, len(current))
	for _, c := range current {
		curSet[c] = true
	}
	baseSet := make(map[string]bool, len(baseline))
	for _, c := range baseline {
		baseSet[c] = true
	}

	var added, removed []string
	for c := range curSet {
		if !baseSet[c] {
			added = append(added, c)
		}
	}
	for c := range baseSet {
		if !curSet[c] {
			removed = append(removed, c)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)

	return core.DriftResult{
		BaselineRunID: baselineRunID,
		Added:         added,
		Removed:       removed,
	}
}
