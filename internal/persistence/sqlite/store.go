// Package sqlite keeps the entry blob in a single-table SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/persistence"
)

const schema = `CREATE TABLE IF NOT EXISTS blobs (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
)`

// Store persists the entry collection under one key.
type Store struct {
	db  *sql.DB
	key string
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path, key string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if key == "" {
		key = persistence.DefaultKey
	}
	return &Store{db: db, key: key}, nil
}

// Load implements domain.EntryStore.
func (s *Store) Load(ctx context.Context) ([]domain.Entry, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, s.key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []domain.Entry{}, nil
		}
		return nil, err
	}
	return persistence.Decode(raw), nil
}

// Save implements domain.EntryStore.
func (s *Store) Save(ctx context.Context, entries []domain.Entry) error {
	raw, err := persistence.Encode(entries)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
         ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, raw)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
