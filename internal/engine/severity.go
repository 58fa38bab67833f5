package engine

import "github.com/validata-io/validata/pkg/core"

// scoreSeverity folds every finding in a run into per-severity totals.
// Type and quality violations carry their own severity; schema mismatches
// are graded here: a missing non-nullable target column is High, a missing
// nullable one Medium, and each unmatched extra file column Medium.
func scoreSeverity(schema *core.TargetSchema, mapping core.ColumnMapping, typeViolations []core.TypeViolation, violations []core.QualityViolation) core.SeverityTotals {
	var totals core.SeverityTotals

	for _, tv := range typeViolations {
		totals.Add(tv.Severity)
	}
	for _, v := range violations {
		totals.Add(v.Severity)
	}
	for _, name := range mapping.Missing {
		spec := schema.Column(name)
		if spec != nil && !spec.Nullable {
			totals.Add(core.SeverityHigh)
		} else {
			totals.Add(core.SeverityMedium)
		}
	}
	for range mapping.Extra {
		totals.Add(core.SeverityMedium)
	}
	return totals
}
