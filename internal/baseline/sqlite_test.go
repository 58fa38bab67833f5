package baseline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "baseline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	cols, runID, err := s.LatestSnapshot(ctx, "customer_orders")
	require.NoError(t, err)
	assert.Nil(t, cols, "no snapshot yet")
	assert.Empty(t, runID)

	want := []string{"OrderID", "CustomerID", "OrderDate"}
	require.NoError(t, s.SaveSnapshot(ctx, "customer_orders", "run-1", want))

	cols, runID, err = s.LatestSnapshot(ctx, "customer_orders")
	require.NoError(t, err)
	assert.Equal(t, want, cols)
	assert.Equal(t, "run-1", runID)
}

func TestLatestSnapshotPicksNewestRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSnapshot(ctx, "orders", "run-1", []string{"a", "b"}))
	require.NoError(t, s.SaveSnapshot(ctx, "orders", "run-2", []string{"a", "b", "c"}))

	cols, runID, err := s.LatestSnapshot(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, "run-2", runID)
	assert.Equal(t, []string{"a", "b", "c"}, cols)
}

func TestSnapshotsAreScopedByTable(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSnapshot(ctx, "orders", "run-1", []string{"a"}))
	require.NoError(t, s.SaveSnapshot(ctx, "products", "run-1", []string{"x", "y"}))

	cols, _, err := s.LatestSnapshot(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, cols)
}

func TestPrune(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, run := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, s.SaveSnapshot(ctx, "orders", run, []string{"a", run}))
	}
	require.NoError(t, s.Prune(ctx, "orders", 1))

	cols, runID, err := s.LatestSnapshot(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, "run-3", runID)
	assert.Equal(t, []string{"a", "run-3"}, cols)

	var count int
	require.NoError(t, s.db.QueryRow(
		`SELECT COUNT(DISTINCT run_id) FROM schema_snapshots WHERE table_name = 'orders'`,
	).Scan(&count))
	assert.Equal(t, 1, count)
}
