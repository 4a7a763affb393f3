package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, ":8080", cfg.HTTPAddress)
	require.Equal(t, DriverFile, cfg.StoreDriver)
	require.Equal(t, "workout-logger.entries.v1", cfg.StoreKey)
	require.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	require.Equal(t, []string{"speech_transcripts"}, cfg.TranscriptTopics)
	require.False(t, cfg.PublishChanges)
	require.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("TRANSCRIPT_TOPICS", "a,b")
	t.Setenv("PUBLISH_CHANGES", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("CATALOG_PATH", "/etc/workoutlog/catalog.yaml")

	cfg := Load()
	require.Equal(t, DriverSQLite, cfg.StoreDriver)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, []string{"a", "b"}, cfg.TranscriptTopics)
	require.True(t, cfg.PublishChanges)
	require.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, "/etc/workoutlog/catalog.yaml", cfg.CatalogPath)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("PUBLISH_CHANGES", "sometimes")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := Load()
	require.False(t, cfg.PublishChanges)
	require.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

func TestLocation(t *testing.T) {
	loc, err := Config{TimeZone: "Local"}.Location()
	require.NoError(t, err)
	require.Equal(t, time.Local, loc)

	loc, err = Config{TimeZone: "UTC"}.Location()
	require.NoError(t, err)
	require.Equal(t, "UTC", loc.String())

	_, err = Config{TimeZone: "Mars/Olympus_Mons"}.Location()
	require.Error(t, err)
}
