// Package postgres keeps the entry blob in a PostgreSQL table.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/persistence"
)

const schema = `CREATE TABLE IF NOT EXISTS entry_blobs (
    blob_key   TEXT PRIMARY KEY,
    payload    JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Store persists the entry collection as one JSONB row.
type Store struct {
	pool *pgxpool.Pool
	key  string
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool, key string) *Store {
	if key == "" {
		key = persistence.DefaultKey
	}
	return &Store{pool: pool, key: key}
}

// EnsureSchema creates the entry_blobs table when it is missing. Deployments
// that run db/postgres/migrations can skip it.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Load implements domain.EntryStore.
func (s *Store) Load(ctx context.Context) ([]domain.Entry, error) {
	var raw string
	err := s.pool.QueryRow(ctx, `SELECT payload::text FROM entry_blobs WHERE blob_key = $1`, s.key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Entry{}, nil
		}
		return nil, err
	}
	return persistence.Decode([]byte(raw)), nil
}

// Save implements domain.EntryStore.
func (s *Store) Save(ctx context.Context, entries []domain.Entry) error {
	raw, err := persistence.Encode(entries)
	if err != nil {
		return err
	}
	const stmt = `INSERT INTO entry_blobs (blob_key, payload, updated_at) VALUES ($1, $2::jsonb, NOW())
        ON CONFLICT (blob_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	_, err = s.pool.Exec(ctx, stmt, s.key, string(raw))
	return err
}
