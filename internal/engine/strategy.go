package engine

import (
	"strings"

	"github.com/validata-io/validata/pkg/core"
)

// Closed reason strings for load recommendations. Renderers key off these,
// so they never vary per run.
const (
	reasonNoPrimaryKey    = "no primary key candidate identified"
	reasonPKDeclared      = "primary key declared in target schema"
	reasonPKNameHeuristic = "primary key guessed from column name"
	reasonPKNulls         = "null primary key values present"
	reasonPKDuplicates    = "duplicate primary key values present"
	reasonPKClean         = "primary key values are present and unique"
)

// recommendLoad picks a load strategy for the file. A declared primary key
// wins; otherwise a matched target column named like an identifier is
// used. Dirty keys (nulls or duplicates) push toward UPSERT, clean keys
// toward INSERT, and no key at all means a human has to decide.
func recommendLoad(table *core.Table, schema *core.TargetSchema, mapping core.ColumnMapping, violations []core.QualityViolation) core.LoadRecommendation {
	pk, reason := pickPrimaryKey(schema, mapping)
	if pk == "" {
		return core.LoadRecommendation{
			Strategy: core.LoadManual,
			Reasons:  []string{reasonNoPrimaryKey},
		}
	}

	rec := core.LoadRecommendation{
		PrimaryKeyColumn: pk,
		Reasons:          []string{reason},
	}

	dirty := false
	for _, v := range violations {
		if v.Rule.Kind == core.RuleNotNull && v.Rule.Column == pk && v.Count > 0 {
			dirty = true
			rec.Reasons = append(rec.Reasons, reasonPKNulls)
			break
		}
	}
	if hasDuplicates(table, mapping, pk) {
		dirty = true
		rec.Reasons = append(rec.Reasons, reasonPKDuplicates)
	}

	if dirty {
		rec.Strategy = core.LoadUpsert
	} else {
		rec.Strategy = core.LoadInsert
		rec.Reasons = append(rec.Reasons, reasonPKClean)
	}
	return rec
}

// pickPrimaryKey returns the target column to treat as primary key and the
// reason it was chosen. Only matched columns qualify: an unmatched key
// cannot be checked against the file.
func pickPrimaryKey(schema *core.TargetSchema, mapping core.ColumnMapping) (string, string) {
	for _, name := range schema.PrimaryKeys() {
		if matchedTarget(mapping, name) {
			return name, reasonPKDeclared
		}
	}
	for _, mc := range mapping.Matched {
		lower := strings.ToLower(mc.TargetColumn)
		if lower == "id" || strings.HasSuffix(mc.TargetColumn, "ID") {
			return mc.TargetColumn, reasonPKNameHeuristic
		}
	}
	return "", ""
}

func matchedTarget(mapping core.ColumnMapping, target string) bool {
	for _, mc := range mapping.Matched {
		if mc.TargetColumn == target {
			return true
		}
	}
	return false
}

// hasDuplicates checks the file column bound to the primary key for
// repeated non-null values.
func hasDuplicates(table *core.Table, mapping core.ColumnMapping, pk string) bool {
	var fileCol string
	for _, mc := range mapping.Matched {
		if mc.TargetColumn == pk {
			fileCol = mc.FileColumn
			break
		}
	}
	col := table.Column(fileCol)
	if col == nil {
		return false
	}
	seen := make(map[string]bool, len(col.Values))
	for i, v := range col.Values {
		if col.IsNull(i) {
			continue
		}
		key := strings.TrimSpace(v)
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}
