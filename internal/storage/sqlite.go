// Package storage persists working-set snapshots so an import session can
// be corrected across invocations. SQLite keeps everything in one local
// file; the rest of the application only sees the workset.SnapshotStore
// interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/nursyahid/dapur-ledger/internal/common"
	"github.com/nursyahid/dapur-ledger/internal/workset"
)

// SQLiteStore implements workset.SnapshotStore using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

var _ workset.SnapshotStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the snapshot database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Migrate creates the schema if it does not exist yet.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS sessions (
		name       TEXT PRIMARY KEY,
		id         TEXT NOT NULL,
		saved_at   TIMESTAMP NOT NULL,
		rows       INTEGER NOT NULL,
		valid_rows INTEGER NOT NULL,
		payload    TEXT NOT NULL
	)`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveSnapshot stores a snapshot under its name, replacing any previous
// session with the same name.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *workset.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}
	if snap.Name == "" {
		return fmt.Errorf("snapshot name cannot be empty")
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	validRows := 0
	for _, c := range snap.Candidates {
		if c.Valid {
			validRows++
		}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (name, id, saved_at, rows, valid_rows, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			id = excluded.id,
			saved_at = excluded.saved_at,
			rows = excluded.rows,
			valid_rows = excluded.valid_rows,
			payload = excluded.payload`,
		snap.Name, snap.ID, snap.SavedAt, len(snap.Candidates), validRows, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", snap.Name, err)
	}

	return nil
}

// LoadSnapshot fetches a snapshot by name.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context, name string) (*workset.Snapshot, error) {
	if name == "" {
		return nil, fmt.Errorf("snapshot name cannot be empty")
	}

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM sessions WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %q: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %q: %w", name, err)
	}

	var snap workset.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %q: %w", name, err)
	}

	return &snap, nil
}

// ListSnapshots returns summaries of all stored sessions, newest first.
func (s *SQLiteStore) ListSnapshots(ctx context.Context) ([]workset.SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, id, saved_at, rows, valid_rows FROM sessions ORDER BY saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var infos []workset.SnapshotInfo
	for rows.Next() {
		var info workset.SnapshotInfo
		var savedAt time.Time
		if err := rows.Scan(&info.Name, &info.ID, &savedAt, &info.Rows, &info.ValidRows); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		info.SavedAt = savedAt
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return infos, nil
}

// DeleteSnapshot removes a stored session.
func (s *SQLiteStore) DeleteSnapshot(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("snapshot name cannot be empty")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %q: %w", name, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %q: %w", name, common.ErrNotFound)
	}

	return nil
}
