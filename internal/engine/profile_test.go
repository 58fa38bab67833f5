package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validata-io/validata/internal/testutil"
	"github.com/validata-io/validata/pkg/core"
)

func newProfileEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(Config{
		Catalog: stubCatalog{},
		Logger:  testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	return e
}

func TestProfile(t *testing.T) {
	tbl := &core.Table{
		Name: "orders",
		Columns: []core.Column{
			{Name: "OrderID", Values: []string{"ORD1", "ORD2", "ORD2", ""}},
			{Name: "Quantity", Values: []string{"2", "4", "6", "8"}},
		},
		RowCount: 4,
	}

	prof, err := newProfileEngine(t).Profile(context.Background(), tbl, 2)
	require.NoError(t, err)

	assert.Equal(t, "orders", prof.Table)
	assert.Equal(t, 4, prof.RowCount)
	assert.Equal(t, 2, prof.SampleSize)
	assert.Equal(t, [][]string{{"ORD1", "2"}, {"ORD2", "4"}}, prof.SampleRows)
	require.Len(t, prof.Columns, 2)

	id := prof.Columns[0]
	assert.Equal(t, 4, id.Count)
	assert.Equal(t, 1, id.NullCount)
	assert.Equal(t, 2, id.DistinctCount)
	assert.Nil(t, id.Mean, "text columns carry no numeric stats")

	qty := prof.Columns[1]
	require.NotNil(t, qty.Min)
	require.NotNil(t, qty.Max)
	require.NotNil(t, qty.Mean)
	assert.Equal(t, 2.0, *qty.Min)
	assert.Equal(t, 8.0, *qty.Max)
	assert.Equal(t, 5.0, *qty.Mean)
}

func TestProfileClampsSampleSize(t *testing.T) {
	tbl := &core.Table{
		Name:     "small",
		Columns:  []core.Column{{Name: "a", Values: []string{"1", "2", "3", "4", "5"}}},
		RowCount: 5,
	}
	e := newProfileEngine(t)

	prof, err := e.Profile(context.Background(), tbl, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, prof.SampleSize, "sample size larger than the table clamps to row count")
	assert.Len(t, prof.SampleRows, 5)

	prof, err = e.Profile(context.Background(), tbl, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, prof.SampleSize)
	assert.Empty(t, prof.SampleRows)
}

func TestProfileCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newProfileEngine(t).Profile(ctx, &core.Table{Name: "t"}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
