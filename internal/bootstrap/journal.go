// Package bootstrap assembles the journal from configuration for the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/workoutlog/internal/catalog"
	"example.com/workoutlog/internal/config"
	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/outbox"
	"example.com/workoutlog/internal/parser"
	"example.com/workoutlog/internal/persistence/file"
	"example.com/workoutlog/internal/persistence/postgres"
	"example.com/workoutlog/internal/persistence/sqlite"
)

// Journal is a loaded journal service plus the resources backing it.
type Journal struct {
	Service *domain.Service
	Catalog *catalog.Index
	closers []func() error
}

// Close releases the store and the change producer.
func (j *Journal) Close() error {
	var firstErr error
	for i := len(j.closers) - 1; i >= 0; i-- {
		if err := j.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OpenStore builds the entry store selected by cfg.StoreDriver. The returned
// close function is never nil.
func OpenStore(ctx context.Context, cfg config.Config) (domain.EntryStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.StoreDriver {
	case config.DriverFile, "":
		return file.NewStore(cfg.StorePath), noop, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.StoreKey)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to postgres: %w", err)
		}
		store := postgres.NewStore(pool, cfg.StoreKey)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("ensure schema: %w", err)
		}
		return store, func() error { pool.Close(); return nil }, nil
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// OpenJournal wires catalog, parser, store and optional change publishing, and
// loads the persisted entries. A broken catalog is logged and replaced by an
// empty alias index.
func OpenJournal(ctx context.Context, cfg config.Config, logger *log.Logger) (*Journal, error) {
	if logger == nil {
		logger = log.Default()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	index, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		logger.Printf("catalog: %v", err)
	}

	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	j := &Journal{Catalog: index, closers: []func() error{closeStore}}

	opts := []domain.Option{domain.WithLocation(loc)}
	if cfg.PublishChanges {
		producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
		j.closers = append(j.closers, producer.Close)
		opts = append(opts, domain.WithPublisher(outbox.NewPublisher(producer, cfg.ChangesTopic)))
	}

	j.Service = domain.NewService(store, parser.New(index), opts...)
	if err := j.Service.Load(ctx); err != nil {
		_ = j.Close()
		return nil, err
	}
	logger.Printf("journal loaded (driver=%s, entries=%d, aliases=%d)", cfg.StoreDriver, len(j.Service.Entries()), index.Len())
	return j, nil
}
