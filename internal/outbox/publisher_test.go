package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/events"
)

type recordingWriter struct {
	topic string
	msgs  []kafka.Message
	err   error
}

func (w *recordingWriter) WriteMessages(_ context.Context, topic string, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.topic = topic
	w.msgs = append(w.msgs, msgs...)
	return nil
}

type testWriter struct {
	t *testing.T
}

func (tw testWriter) Write(p []byte) (int, error) {
	tw.t.Log(string(p))
	return len(p), nil
}

func TestPublisherWritesKeyedEvents(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewPublisher(writer, "workout_entry_events", WithLogger(log.New(testWriter{t}, "", 0)))

	loggedAt := time.Date(2025, time.May, 1, 6, 30, 0, 0, time.UTC)
	occurred := loggedAt.Add(time.Hour)
	entry := domain.Entry{ID: "e-1", Activity: "squats", Amount: 15, Unit: domain.UnitReps, Timestamp: loggedAt}

	err := publisher.Publish(context.Background(),
		domain.Change{Type: domain.ChangeLogged, Entry: entry, OccurredAt: occurred},
		domain.Change{Type: domain.ChangeDeleted, Entry: entry, OccurredAt: occurred},
	)
	require.NoError(t, err)

	require.Equal(t, "workout_entry_events", writer.topic)
	require.Len(t, writer.msgs, 2)

	first := writer.msgs[0]
	require.Equal(t, "e-1", string(first.Key))
	require.Equal(t, kafka.Header{Key: "event_type", Value: []byte("entry.logged")}, first.Headers[0])
	require.Equal(t, "entry.deleted", string(writer.msgs[1].Headers[0].Value))

	var payload events.EntryChanged
	require.NoError(t, json.Unmarshal(first.Value, &payload))
	require.Equal(t, events.EntryChanged{
		EntryID:    "e-1",
		Activity:   "squats",
		Amount:     15,
		Unit:       "reps",
		LoggedAt:   loggedAt,
		OccurredAt: occurred,
	}, payload)
}

func TestPublisherReturnsWriteErrors(t *testing.T) {
	writer := &recordingWriter{err: errors.New("broker down")}
	publisher := NewPublisher(writer, "topic", WithLogger(log.New(testWriter{t}, "", 0)))

	err := publisher.Publish(context.Background(), domain.Change{Type: domain.ChangeEdited, Entry: domain.Entry{ID: "x"}})
	require.ErrorContains(t, err, "broker down")
}

func TestPublisherSkipsEmptyBatch(t *testing.T) {
	writer := &recordingWriter{err: errors.New("must not be called")}
	publisher := NewPublisher(writer, "topic")

	require.NoError(t, publisher.Publish(context.Background()))
}
