package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/validata-io/validata/pkg/core"
)

func orderSchema() *core.TargetSchema {
	return &core.TargetSchema{
		Table: "customer_orders",
		Columns: []core.ColumnSpec{
			{Name: "OrderID", Type: core.TypeString, PrimaryKey: true},
			{Name: "Quantity", Type: core.TypeInteger},
		},
	}
}

func orderMapping() core.ColumnMapping {
	return core.ColumnMapping{
		Matched: []core.MatchedColumn{
			{FileColumn: "OrderID", TargetColumn: "OrderID", Method: core.MatchExact, Score: 1},
			{FileColumn: "qty", TargetColumn: "Quantity", Method: core.MatchAlias, Score: 1},
		},
	}
}

func TestRecommendLoadInsert(t *testing.T) {
	tbl := &core.Table{
		Name: "orders",
		Columns: []core.Column{
			{Name: "OrderID", Values: []string{"ORD1", "ORD2"}},
			{Name: "qty", Values: []string{"1", "2"}},
		},
		RowCount: 2,
	}

	rec := recommendLoad(tbl, orderSchema(), orderMapping(), nil)
	assert.Equal(t, core.LoadInsert, rec.Strategy)
	assert.Equal(t, "OrderID", rec.PrimaryKeyColumn)
	assert.Contains(t, rec.Reasons, reasonPKDeclared)
	assert.Contains(t, rec.Reasons, reasonPKClean)
}

func TestRecommendLoadUpsertOnNulls(t *testing.T) {
	tbl := &core.Table{
		Name: "orders",
		Columns: []core.Column{
			{Name: "OrderID", Values: []string{"ORD1", ""}},
			{Name: "qty", Values: []string{"1", "2"}},
		},
		RowCount: 2,
	}
	violations := []core.QualityViolation{{
		Rule:     core.QualityRule{Column: "OrderID", Kind: core.RuleNotNull},
		Count:    1,
		Severity: core.SeverityHigh,
	}}

	rec := recommendLoad(tbl, orderSchema(), orderMapping(), violations)
	assert.Equal(t, core.LoadUpsert, rec.Strategy)
	assert.Contains(t, rec.Reasons, reasonPKNulls)
}

func TestRecommendLoadUpsertOnDuplicates(t *testing.T) {
	tbl := &core.Table{
		Name: "orders",
		Columns: []core.Column{
			{Name: "OrderID", Values: []string{"ORD1", "ORD1"}},
			{Name: "qty", Values: []string{"1", "2"}},
		},
		RowCount: 2,
	}

	rec := recommendLoad(tbl, orderSchema(), orderMapping(), nil)
	assert.Equal(t, core.LoadUpsert, rec.Strategy)
	assert.Contains(t, rec.Reasons, reasonPKDuplicates)
}

func TestRecommendLoadNameHeuristic(t *testing.T) {
	schema := &core.TargetSchema{
		Table: "products",
		Columns: []core.ColumnSpec{
			{Name: "ProductID", Type: core.TypeString},
			{Name: "Stock", Type: core.TypeInteger},
		},
	}
	mapping := core.ColumnMapping{
		Matched: []core.MatchedColumn{
			{FileColumn: "ProductID", TargetColumn: "ProductID", Method: core.MatchExact, Score: 1},
		},
	}
	tbl := &core.Table{
		Name:     "products",
		Columns:  []core.Column{{Name: "ProductID", Values: []string{"P1", "P2"}}},
		RowCount: 2,
	}

	rec := recommendLoad(tbl, schema, mapping, nil)
	assert.Equal(t, core.LoadInsert, rec.Strategy)
	assert.Equal(t, "ProductID", rec.PrimaryKeyColumn)
	assert.Contains(t, rec.Reasons, reasonPKNameHeuristic)
}

func TestRecommendLoadManual(t *testing.T) {
	schema := &core.TargetSchema{
		Table:   "notes",
		Columns: []core.ColumnSpec{{Name: "Body", Type: core.TypeString, Nullable: true}},
	}
	mapping := core.ColumnMapping{
		Matched: []core.MatchedColumn{{FileColumn: "Body", TargetColumn: "Body"}},
	}
	tbl := &core.Table{Name: "notes", Columns: []core.Column{{Name: "Body"}}}

	rec := recommendLoad(tbl, schema, mapping, nil)
	assert.Equal(t, core.LoadManual, rec.Strategy)
	assert.Empty(t, rec.PrimaryKeyColumn)
	assert.Equal(t, []string{reasonNoPrimaryKey}, rec.Reasons)
}

func TestRecommendLoadUnmatchedPrimaryKey(t *testing.T) {
	// A declared key the file does not carry cannot be verified.
	mapping := core.ColumnMapping{
		Matched: []core.MatchedColumn{{FileColumn: "qty", TargetColumn: "Quantity"}},
		Missing: []string{"OrderID"},
	}
	tbl := &core.Table{Name: "orders", Columns: []core.Column{{Name: "qty", Values: []string{"1"}}}}

	rec := recommendLoad(tbl, orderSchema(), mapping, nil)
	assert.Equal(t, core.LoadManual, rec.Strategy)
}
