// Package file stores the entry collection as a JSON document on disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/persistence"
)

// Store reads and writes one JSON file.
type Store struct {
	path string
}

// NewStore constructs a Store for path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load implements domain.EntryStore. A missing or corrupted file yields an
// empty collection.
func (s *Store) Load(ctx context.Context) ([]domain.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Entry{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return persistence.Decode(raw), nil
}

// Save implements domain.EntryStore. The file is replaced atomically.
func (s *Store) Save(ctx context.Context, entries []domain.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := persistence.Encode(entries)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".entries-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
