package baseline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps snapshots in a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the snapshot database at path and runs
// pending migrations.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create baseline directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open baseline database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveSnapshot stores the resolved column set for a table under a run ID.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, table, runID string, columns []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO schema_snapshots
		(table_name, column_name, column_index, run_id)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, col := range columns {
		if _, err := stmt.ExecContext(ctx, table, col, i, runID); err != nil {
			return fmt.Errorf("insert snapshot for column %s: %w", col, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent column set for a table, in
// recorded order, together with the run ID that captured it. No snapshot
// yields (nil, "", nil).
func (s *SQLiteStore) LatestSnapshot(ctx context.Context, table string) ([]string, string, error) {
	var runID string
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id FROM schema_snapshots
		WHERE table_name = ?
		ORDER BY captured_at DESC, rowid DESC
		LIMIT 1
	`, table).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("get latest snapshot run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT column_name FROM schema_snapshots
		WHERE table_name = ? AND run_id = ?
		ORDER BY column_index
	`, table, runID)
	if err != nil {
		return nil, "", fmt.Errorf("query snapshot columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []string
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return nil, "", fmt.Errorf("scan snapshot column: %w", err)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("snapshot rows: %w", err)
	}
	return columns, runID, nil
}

// Prune keeps only the most recent keepRuns snapshots for a table.
func (s *SQLiteStore) Prune(ctx context.Context, table string, keepRuns int) error {
	if keepRuns < 1 {
		keepRuns = 1
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM schema_snapshots
		WHERE table_name = ?1 AND run_id NOT IN (
			SELECT run_id FROM (
				SELECT run_id, MAX(rowid) AS latest
				FROM schema_snapshots
				WHERE table_name = ?1
				GROUP BY run_id
				ORDER BY latest DESC
				LIMIT ?2
			)
		)
	`, table, keepRuns)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
