package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validata-io/validata/internal/baseline"
	"github.com/validata-io/validata/internal/testutil"
	"github.com/validata-io/validata/pkg/core"
)

// stubCatalog serves a fixed schema set without a database.
type stubCatalog struct {
	schemas map[string]*core.TargetSchema
}

func (s stubCatalog) Schema(_ context.Context, table string) (*core.TargetSchema, error) {
	if schema, ok := s.schemas[table]; ok {
		return schema, nil
	}
	return nil, &core.SchemaNotFoundError{Table: table}
}

func (s stubCatalog) Tables(_ context.Context) ([]string, error) {
	var names []string
	for name := range s.schemas {
		names = append(names, name)
	}
	return names, nil
}

func (s stubCatalog) Close() error { return nil }

func customerOrdersSchema() *core.TargetSchema {
	return &core.TargetSchema{
		Table: "customer_orders",
		Columns: []core.ColumnSpec{
			{Name: "OrderID", Type: core.TypeString, Nullable: false, PrimaryKey: true},
			{Name: "CustomerID", Type: core.TypeString, Nullable: false},
			{Name: "OrderDate", Type: core.TypeString, Nullable: false},
			{Name: "Quantity", Type: core.TypeInteger, Nullable: false},
			{Name: "DiscountCode", Type: core.TypeString, Nullable: true},
		},
	}
}

// newOrdersTable mimics a vendor file whose headers drifted from the
// target: shorthand names, extra columns, one missing OrderID, and a
// spelled-out quantity.
func newOrdersTable() *core.Table {
	return &core.Table{
		Name: "new_orders",
		Columns: []core.Column{
			{Name: "cust", Values: []string{"CUST001", "CUST002", "CUST001", "CUST003", "CUST002"}},
			{Name: "qty", Values: []string{"10", "5", "3", "2", "one"}},
			{Name: "OrderDate", Values: []string{"2025-10-26", "2025-10-26", "2025-10-27", "2025-10-27", "2025-10-28"}},
			{Name: "DiscountCode", Values: []string{"SAVE10", "", "NEW25", "", "SAVE10"}},
			{Name: "OrderID", Values: []string{"ORD2001", "ORD2002", "ORD2003", "", "ORD2005"}},
			{Name: "CustomerEmail", Values: []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com"}},
			{Name: "ShippingMethod", Values: []string{"air", "sea", "air", "road", "air"}},
		},
		RowCount: 5,
	}
}

func newTestEngine(t *testing.T, store baseline.Store) *Engine {
	t.Helper()
	e, err := New(Config{
		Catalog:  stubCatalog{schemas: map[string]*core.TargetSchema{"customer_orders": customerOrdersSchema()}},
		Baseline: store,
		Logger:   testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	return e
}

func TestValidateOrdersFile(t *testing.T) {
	store, err := baseline.Open(filepath.Join(t.TempDir(), "baseline.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	e := newTestEngine(t, store)
	ctx := context.Background()

	report, err := e.Validate(ctx, newOrdersTable(), "customer_orders")
	require.NoError(t, err)
	require.NotEmpty(t, report.RunID)
	assert.Equal(t, 5, report.RowCount)
	assert.False(t, report.SchemaMissing)

	// Shorthand headers resolve through the alias dictionary.
	cust, ok := report.Mapping.Target("cust")
	require.True(t, ok)
	assert.Equal(t, "CustomerID", cust)
	qty, ok := report.Mapping.Target("qty")
	require.True(t, ok)
	assert.Equal(t, "Quantity", qty)
	assert.Empty(t, report.Mapping.Missing)
	assert.Equal(t, []string{"CustomerEmail", "ShippingMethod"}, report.Mapping.Extra)

	// "one" breaks the declared INTEGER type.
	require.Len(t, report.TypeViolations, 1)
	tv := report.TypeViolations[0]
	assert.Equal(t, "Quantity", tv.Column)
	assert.Equal(t, core.TypeInteger, tv.Declared)
	assert.Equal(t, core.TypeString, tv.Observed)
	assert.Equal(t, 1, tv.AffectedCount)
	assert.Equal(t, []string{"one"}, tv.InvalidSamples)
	assert.Equal(t, core.SeverityHigh, tv.Severity)

	// The missing OrderID trips NOT_NULL on the primary key.
	var notNull *core.QualityViolation
	for i := range report.Violations {
		if report.Violations[i].Rule.Kind == core.RuleNotNull {
			require.Nil(t, notNull, "only one NOT_NULL violation expected")
			notNull = &report.Violations[i]
		}
	}
	require.NotNil(t, notNull)
	assert.Equal(t, "OrderID", notNull.Rule.Column)
	assert.Equal(t, 1, notNull.Count)
	assert.Equal(t, core.SeverityHigh, notNull.Severity)

	// Nullable DiscountCode never gets a NOT_NULL rule.
	var skippedNotNull bool
	for _, s := range report.SkippedRules {
		if s.Column == "DiscountCode" && s.Kind == core.RuleNotNull {
			skippedNotNull = true
		}
	}
	assert.True(t, skippedNotNull)

	// First run has nothing to drift against.
	assert.True(t, report.Drift.Skipped)
	assert.Equal(t, "no baseline snapshot", report.Drift.Reason)

	assert.Equal(t, core.LoadUpsert, report.Load.Strategy)
	assert.Equal(t, "OrderID", report.Load.PrimaryKeyColumn)
	assert.Contains(t, report.Load.Reasons, reasonPKNulls)

	assert.Equal(t, core.SeverityTotals{High: 2, Medium: 2, Low: 0}, report.Totals)
	assert.NotEmpty(t, report.RootCauses)
	assert.NotEmpty(t, report.InferredRules)
}

func TestValidateRecordsBaselineAndDetectsDrift(t *testing.T) {
	store, err := baseline.Open(filepath.Join(t.TempDir(), "baseline.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	e := newTestEngine(t, store)
	ctx := context.Background()

	first, err := e.Validate(ctx, newOrdersTable(), "customer_orders")
	require.NoError(t, err)
	assert.True(t, first.Drift.Skipped)

	// Second file drops ShippingMethod and adds a Currency column.
	tbl := newOrdersTable()
	tbl.Columns = tbl.Columns[:len(tbl.Columns)-1]
	tbl.Columns = append(tbl.Columns, core.Column{
		Name:   "Currency",
		Values: []string{"EUR", "EUR", "USD", "EUR", "USD"},
	})

	second, err := e.Validate(ctx, tbl, "customer_orders")
	require.NoError(t, err)
	require.False(t, second.Drift.Skipped)
	assert.Equal(t, first.RunID, second.Drift.BaselineRunID)
	assert.Equal(t, []string{"Currency"}, second.Drift.Added)
	assert.Equal(t, []string{"ShippingMethod"}, second.Drift.Removed)
}

func TestValidateUnknownSchemaDegrades(t *testing.T) {
	e := newTestEngine(t, nil)

	report, err := e.Validate(context.Background(), newOrdersTable(), "no_such_table")
	require.NoError(t, err, "a missing schema degrades, it does not fail")
	assert.True(t, report.SchemaMissing)
	assert.Contains(t, report.SchemaReason, "no_such_table")
	assert.Empty(t, report.Mapping.Matched)
	assert.Empty(t, report.TypeViolations)
	assert.True(t, report.Drift.Skipped)
	assert.Equal(t, core.LoadManual, report.Load.Strategy)
	assert.Equal(t, []string{rootCauseTemplates["schema-missing"]}, report.RootCauses)
}

func TestValidateWithoutBaselineStore(t *testing.T) {
	e := newTestEngine(t, nil)

	report, err := e.Validate(context.Background(), newOrdersTable(), "customer_orders")
	require.NoError(t, err)
	assert.True(t, report.Drift.Skipped)
	assert.Equal(t, "baseline store disabled", report.Drift.Reason)
}

func TestValidateCancelledContext(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Validate(ctx, newOrdersTable(), "customer_orders")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidateDeterministicOutput(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	first, err := e.Validate(ctx, newOrdersTable(), "customer_orders")
	require.NoError(t, err)
	second, err := e.Validate(ctx, newOrdersTable(), "customer_orders")
	require.NoError(t, err)

	// Everything except the run ID must be identical across runs.
	first.RunID = ""
	second.RunID = ""
	assert.Equal(t, first, second)
}
