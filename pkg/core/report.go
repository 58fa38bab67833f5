package core

// Severity classifies a finding by how strongly it should block a load.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// MatchMethod records how a file column was bound to a target column.
type MatchMethod string

const (
	MatchExact MatchMethod = "EXACT"
	MatchAlias MatchMethod = "ALIAS"
)

// MatchedColumn is one resolved file-to-target column binding.
type MatchedColumn struct {
	FileColumn   string      `json:"file_column"`
	TargetColumn string      `json:"target_column"`
	Method       MatchMethod `json:"method"`
	Score        float64     `json:"score"`
}

// ColumnMapping is the full result of matching file columns against a
// target schema. Missing holds unclaimed target columns, Extra holds
// unmatched file columns.
type ColumnMapping struct {
	Matched []MatchedColumn `json:"matched"`
	Missing []string        `json:"missing"`
	Extra   []string        `json:"extra"`
}

// Target returns the target column a file column resolved to, if any.
func (m *ColumnMapping) Target(fileColumn string) (string, bool) {
	for _, mc := range m.Matched {
		if mc.FileColumn == fileColumn {
			return mc.TargetColumn, true
		}
	}
	return "", false
}

// TypeViolation reports cells that do not parse as a column's declared type.
type TypeViolation struct {
	Column         string     `json:"column"`
	Declared       ColumnType `json:"declared"`
	Observed       ColumnType `json:"observed"`
	AffectedCount  int        `json:"affected_count"`
	RowCount       int        `json:"row_count"`
	InvalidSamples []string   `json:"invalid_samples"`
	Severity       Severity   `json:"severity"`
}

// RuleKind identifies a quality rule family.
type RuleKind string

const (
	RuleNotNull RuleKind = "NOT_NULL"
	RuleFormat  RuleKind = "FORMAT"
	RuleEnum    RuleKind = "ENUM"
	RuleRange   RuleKind = "RANGE"
	RuleNumeric RuleKind = "NUMERIC"
)

// QualityRule is a rule inferred from (or always applied to) a column.
// Pattern is set for FORMAT, Allowed for ENUM, Min/Max for RANGE.
// SupportRatio is the share of the inference sample that satisfied the
// rule when it was inferred.
type QualityRule struct {
	Column       string   `json:"column"`
	Kind         RuleKind `json:"kind"`
	Pattern      string   `json:"pattern,omitempty"`
	Allowed      []string `json:"allowed,omitempty"`
	Min          string   `json:"min,omitempty"`
	Max          string   `json:"max,omitempty"`
	SupportRatio float64  `json:"support_ratio"`
}

// QualityViolation reports cells that break an inferred or declared rule.
type QualityViolation struct {
	Rule     QualityRule `json:"rule"`
	Count    int         `json:"count"`
	RowCount int         `json:"row_count"`
	Samples  []string    `json:"samples,omitempty"`
	Severity Severity    `json:"severity"`
}

// SkippedRule records a rule that was not evaluated and why.
type SkippedRule struct {
	Column string   `json:"column"`
	Kind   RuleKind `json:"kind"`
	Reason string   `json:"reason"`
}

// DriftResult is the set difference between the current resolved column
// set and the last stored baseline snapshot.
type DriftResult struct {
	BaselineRunID string   `json:"baseline_run_id,omitempty"`
	Added         []string `json:"added,omitempty"`
	Removed       []string `json:"removed,omitempty"`
	Skipped       bool     `json:"skipped"`
	Reason        string   `json:"reason,omitempty"`
}

// Changed reports whether any drift was observed.
func (d DriftResult) Changed() bool {
	return !d.Skipped && (len(d.Added) > 0 || len(d.Removed) > 0)
}

// LoadStrategy is the recommended way to load the file into the target.
type LoadStrategy string

const (
	LoadInsert LoadStrategy = "INSERT"
	LoadUpsert LoadStrategy = "UPSERT"
	LoadManual LoadStrategy = "MANUAL"
)

// LoadRecommendation carries the chosen strategy and the closed set of
// reasons that led to it.
type LoadRecommendation struct {
	Strategy         LoadStrategy `json:"strategy"`
	PrimaryKeyColumn string       `json:"primary_key_column,omitempty"`
	Reasons          []string     `json:"reasons"`
}

// SeverityTotals aggregates every finding in a report by severity.
type SeverityTotals struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Add counts one finding of the given severity.
func (t *SeverityTotals) Add(s Severity) {
	switch s {
	case SeverityHigh:
		t.High++
	case SeverityMedium:
		t.Medium++
	case SeverityLow:
		t.Low++
	}
}

// Total returns the number of findings across all severities.
func (t SeverityTotals) Total() int { return t.High + t.Medium + t.Low }

// ColumnProfile holds per-column descriptive statistics. Min, Max and Mean
// are only set for columns whose observed type is numeric.
type ColumnProfile struct {
	Name          string   `json:"name"`
	Count         int      `json:"count"`
	NullCount     int      `json:"null_count"`
	DistinctCount int      `json:"distinct_count"`
	Min           *float64 `json:"min,omitempty"`
	Max           *float64 `json:"max,omitempty"`
	Mean          *float64 `json:"mean,omitempty"`
}

// Profile is a structural summary of a table: sample rows plus per-column
// statistics.
type Profile struct {
	Table      string          `json:"table"`
	RowCount   int             `json:"row_count"`
	SampleSize int             `json:"sample_size"`
	Header     []string        `json:"header"`
	SampleRows [][]string      `json:"sample_rows"`
	Columns    []ColumnProfile `json:"columns"`
}

// Report is the complete outcome of one validation run. It is the single
// source of truth: every rendered format is derived from it and a JSON
// round-trip loses nothing.
type Report struct {
	RunID       string `json:"run_id"`
	Source      string `json:"source"`
	TargetTable string `json:"target_table"`
	RowCount    int    `json:"row_count"`

	// SchemaMissing is set when the catalog had no schema for the target
	// table; the schema-dependent sections below are then empty.
	SchemaMissing bool   `json:"schema_missing,omitempty"`
	SchemaReason  string `json:"schema_reason,omitempty"`

	Mapping        ColumnMapping      `json:"mapping"`
	TypeViolations []TypeViolation    `json:"type_violations"`
	Violations     []QualityViolation `json:"violations"`
	SkippedRules   []SkippedRule      `json:"skipped_rules,omitempty"`
	InferredRules  []QualityRule      `json:"inferred_rules"`
	Drift          DriftResult        `json:"drift"`
	Load           LoadRecommendation `json:"load"`
	Totals         SeverityTotals     `json:"totals"`
	RootCauses     []string           `json:"root_causes"`
}
