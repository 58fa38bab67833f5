package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validata-io/validata/pkg/core"
)

func TestScoreSeverity(t *testing.T) {
	schema := &core.TargetSchema{
		Table: "t",
		Columns: []core.ColumnSpec{
			{Name: "Required", Type: core.TypeString, Nullable: false},
			{Name: "Optional", Type: core.TypeString, Nullable: true},
		},
	}
	mapping := core.ColumnMapping{
		Missing: []string{"Required", "Optional"},
		Extra:   []string{"Stray"},
	}
	typeViolations := []core.TypeViolation{{Column: "a", Severity: core.SeverityHigh}}
	violations := []core.QualityViolation{
		{Rule: core.QualityRule{Column: "b", Kind: core.RuleRange}, Severity: core.SeverityMedium},
		{Rule: core.QualityRule{Column: "c", Kind: core.RuleEnum}, Severity: core.SeverityLow},
	}

	totals := scoreSeverity(schema, mapping, typeViolations, violations)

	// high: type violation + missing non-nullable column
	// medium: range violation + missing nullable column + extra column
	// low: enum violation
	assert.Equal(t, core.SeverityTotals{High: 2, Medium: 3, Low: 1}, totals)
}

func TestScoreSeverityEmpty(t *testing.T) {
	schema := &core.TargetSchema{Table: "t"}
	totals := scoreSeverity(schema, core.ColumnMapping{}, nil, nil)
	assert.Equal(t, core.SeverityTotals{}, totals)
	assert.Equal(t, 0, totals.Total())
}

func TestAssembleRootCauses(t *testing.T) {
	report := &core.Report{
		TypeViolations: []core.TypeViolation{{
			Column: "Quantity", Declared: core.TypeInteger, Severity: core.SeverityHigh,
		}},
		Violations: []core.QualityViolation{{
			Rule:     core.QualityRule{Column: "OrderID", Kind: core.RuleNotNull},
			Severity: core.SeverityHigh,
		}},
		Mapping: core.ColumnMapping{
			Missing: []string{"Price"},
			Extra:   []string{"ShippingMethod"},
		},
	}

	causes := assembleRootCauses(report)
	require.Len(t, causes, 4)
	assert.Contains(t, causes[0], "Quantity")
	assert.Contains(t, causes[0], "INTEGER")
	assert.Contains(t, causes[1], "OrderID")
	assert.Contains(t, causes[2], "Price")
	assert.Contains(t, causes[3], "ShippingMethod")
}

func TestAssembleRootCausesSchemaMissing(t *testing.T) {
	report := &core.Report{SchemaMissing: true}
	causes := assembleRootCauses(report)
	assert.Equal(t, []string{rootCauseTemplates["schema-missing"]}, causes)
}

func TestRootCauseTemplatesAreClosed(t *testing.T) {
	// Identical findings must always render the identical line.
	report := &core.Report{
		Violations: []core.QualityViolation{{
			Rule:     core.QualityRule{Column: "x", Kind: core.RuleFormat},
			Severity: core.SeverityMedium,
		}},
	}
	a := assembleRootCauses(report)
	b := assembleRootCauses(report)
	assert.Equal(t, a, b)
}
