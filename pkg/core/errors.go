package core

import "fmt"

// IngestionError reports an unreadable or structurally broken source file.
// It is fatal: no report is produced for the file.
type IngestionError struct {
	Source string
	Err    error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Source, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// SchemaNotFoundError means the catalog has no schema for the requested
// table. Callers degrade to a profile-only report rather than failing.
type SchemaNotFoundError struct {
	Table string
}

func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("no schema found for table %q", e.Table)
}

// InvalidParameterError records a caller-supplied parameter that was out of
// range and the value it was clamped to. It is informational: operations
// proceed with the clamped value.
type InvalidParameterError struct {
	Param   string
	Value   int
	Clamped int
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("parameter %s=%d out of range, clamped to %d", e.Param, e.Value, e.Clamped)
}

// RuleEvaluationError marks a quality rule that could not be evaluated
// against a column. The rule is skipped; the run continues.
type RuleEvaluationError struct {
	Column string
	Kind   RuleKind
	Err    error
}

func (e *RuleEvaluationError) Error() string {
	return fmt.Sprintf("evaluate %s rule on column %s: %v", e.Kind, e.Column, e.Err)
}

func (e *RuleEvaluationError) Unwrap() error { return e.Err }
