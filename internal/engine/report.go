package engine

import (
	"fmt"

	"github.com/validata-io/validata/pkg/core"
)

// Root-cause lines come from a closed template table keyed by violation
// kind and severity. Same findings in, same text out.
var rootCauseTemplates = map[string]string{
	"TYPE/high":      "column %s carries values that do not parse as %s; the upstream export likely changed its formatting",
	"TYPE/medium":    "column %s has a small number of values that do not parse as %s; likely isolated bad records",
	"NOT_NULL/high":  "column %s is required by the target but contains missing values; records would be rejected at load",
	"FORMAT/high":    "column %s deviates broadly from its established format; the source field definition may have changed",
	"FORMAT/medium":  "column %s has occasional format outliers; likely manual data entry errors",
	"ENUM/high":      "column %s contains many values outside its known set; a new category may have been introduced upstream",
	"ENUM/medium":    "column %s contains a few values outside its known set; likely typos or rare categories",
	"RANGE/medium":   "column %s has values outside the range seen in the sample; verify units and sign conventions",
	"NUMERIC/high":   "column %s is expected to be numeric but frequently is not; the column order in the source may have shifted",
	"NUMERIC/medium": "column %s has occasional non-numeric values; likely isolated bad records",
	"missing-column": "target column %s is absent from the file; the extract may be incomplete",
	"extra-column":   "file column %s has no counterpart in the target schema; it will be dropped on load",
	"schema-missing": "no target schema was available; only structural checks were performed",
}

// assembleRootCauses renders one line per finding in report order:
// type violations, quality violations, then schema mismatches.
func assembleRootCauses(report *core.Report) []string {
	var causes []string

	if report.SchemaMissing {
		causes = append(causes, rootCauseTemplates["schema-missing"])
		return causes
	}

	for _, tv := range report.TypeViolations {
		if tpl, ok := rootCauseTemplates["TYPE/"+string(tv.Severity)]; ok {
			causes = append(causes, fmt.Sprintf(tpl, tv.Column, tv.Declared))
		}
	}
	for _, v := range report.Violations {
		key := string(v.Rule.Kind) + "/" + string(v.Severity)
		if tpl, ok := rootCauseTemplates[key]; ok {
			causes = append(causes, fmt.Sprintf(tpl, v.Rule.Column))
		}
	}
	for _, name := range report.Mapping.Missing {
		causes = append(causes, fmt.Sprintf(rootCauseTemplates["missing-column"], name))
	}
	for _, name := range report.Mapping.Extra {
		causes = append(causes, fmt.Sprintf(rootCauseTemplates["extra-column"], name))
	}
	return causes
}
