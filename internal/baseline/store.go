// Package baseline persists per-table column snapshots between runs so the
// engine can detect schema drift in incoming files.
package baseline

import "context"

// Store is the snapshot persistence contract. Implementations must treat
// a missing snapshot as (nil, "", nil), not an error.
type Store interface {
	// SaveSnapshot records the resolved column set observed for a table
	// during the given run.
	SaveSnapshot(ctx context.Context, table, runID string, columns []string) error

	// LatestSnapshot returns the most recent column set for a table and
	// the run that captured it.
	LatestSnapshot(ctx context.Context, table string) (columns []string, runID string, err error)

	// Prune drops all but the most recent keepRuns snapshots for a table.
	Prune(ctx context.Context, table string, keepRuns int) error

	Close() error
}
