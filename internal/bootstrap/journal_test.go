package bootstrap

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/workoutlog/internal/config"
)

func TestOpenJournalWithFileStore(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		StoreDriver: config.DriverFile,
		StorePath:   filepath.Join(dir, "entries.json"),
		TimeZone:    "UTC",
	}

	j, err := OpenJournal(context.Background(), cfg, log.New(&bytes.Buffer{}, "", 0))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	created, err := j.Service.LogText(context.Background(), "ten pushups")
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.Equal(t, "push ups", created[0].Activity)
	require.Equal(t, "exercise", j.Catalog.KindOf("push ups"))

	reopened, err := OpenJournal(context.Background(), cfg, log.New(&bytes.Buffer{}, "", 0))
	require.NoError(t, err)
	require.Equal(t, j.Service.Entries(), reopened.Service.Entries())
}

func TestOpenJournalWithSQLiteStore(t *testing.T) {
	cfg := config.Config{
		StoreDriver: config.DriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "journal.db"),
		StoreKey:    "test.entries",
		TimeZone:    "UTC",
	}

	j, err := OpenJournal(context.Background(), cfg, log.New(&bytes.Buffer{}, "", 0))
	require.NoError(t, err)
	defer j.Close()

	_, err = j.Service.LogText(context.Background(), "plank for 2 minutes")
	require.NoError(t, err)
	require.Len(t, j.Service.Entries(), 1)
}

func TestOpenJournalDegradesOnBrokenCatalog(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte("activities: [ {"), 0o644))

	var logs bytes.Buffer
	j, err := OpenJournal(context.Background(), config.Config{
		StoreDriver: config.DriverFile,
		StorePath:   filepath.Join(dir, "entries.json"),
		CatalogPath: catalogPath,
		TimeZone:    "UTC",
	}, log.New(&logs, "", 0))
	require.NoError(t, err)
	defer j.Close()

	require.Contains(t, logs.String(), "catalog")
	require.Zero(t, j.Catalog.Len())

	created, err := j.Service.LogText(context.Background(), "10 pushups")
	require.NoError(t, err)
	require.Equal(t, "pushups", created[0].Activity)
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	_, closeStore, err := OpenStore(context.Background(), config.Config{StoreDriver: "redis"})
	require.ErrorContains(t, err, "unknown store driver")
	require.NoError(t, closeStore())
}

func TestOpenJournalRejectsUnknownZone(t *testing.T) {
	_, err := OpenJournal(context.Background(), config.Config{TimeZone: "Nowhere/Special"}, nil)
	require.Error(t, err)
}
