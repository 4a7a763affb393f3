package consumer

import (
	"context"
	"errors"
	"log"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"example.com/workoutlog/internal/domain"
)

type stubJournal struct {
	texts   []string
	entries []domain.Entry
	err     error
}

func (j *stubJournal) LogText(_ context.Context, text string) ([]domain.Entry, error) {
	j.texts = append(j.texts, text)
	return j.entries, j.err
}

func transcript(topic, payload string) Message {
	return Message{Topic: topic, EventType: "transcript.captured", Payload: []byte(payload)}
}

func TestTranscriptHandlerLogsText(t *testing.T) {
	journal := &stubJournal{entries: []domain.Entry{{ID: "1", Activity: "squats", Amount: 10, Unit: domain.UnitReps}}}
	handler := NewTranscriptHandler(journal, log.New(testWriter{t}, "", 0))

	err := handler.Handle(context.Background(), transcript("speech_transcripts", `{"text":"ten squats","source":"watch"}`))
	require.NoError(t, err)
	require.Equal(t, []string{"ten squats"}, journal.texts)
}

func TestTranscriptHandlerCountsUnparsedText(t *testing.T) {
	topic := "unparsed_topic"
	journal := &stubJournal{}
	handler := NewTranscriptHandler(journal, log.New(testWriter{t}, "", 0))

	require.NoError(t, handler.Handle(context.Background(), transcript(topic, `{"text":"blah"}`)))
	require.NoError(t, handler.Handle(context.Background(), transcript(topic, `{"text":"   "}`)))

	require.Equal(t, []string{"blah"}, journal.texts)
	require.Equal(t, 2.0, testutil.ToFloat64(unparsedCounter.WithLabelValues(topic)))
}

func TestTranscriptHandlerIgnoresOtherEvents(t *testing.T) {
	journal := &stubJournal{}
	handler := NewTranscriptHandler(journal, log.New(testWriter{t}, "", 0))

	msg := transcript("speech_transcripts", `{"text":"10 squats"}`)
	msg.EventType = "transcript.deleted"
	require.NoError(t, handler.Handle(context.Background(), msg))
	require.Empty(t, journal.texts)
}

func TestTranscriptHandlerSkipsWrongShape(t *testing.T) {
	journal := &stubJournal{}
	handler := NewTranscriptHandler(journal, log.New(testWriter{t}, "", 0))

	require.NoError(t, handler.Handle(context.Background(), transcript("speech_transcripts", `["10 squats"]`)))
	require.Empty(t, journal.texts)
}

func TestTranscriptHandlerPropagatesJournalErrors(t *testing.T) {
	journal := &stubJournal{err: errors.New("disk full")}
	handler := NewTranscriptHandler(journal, log.New(testWriter{t}, "", 0))

	err := handler.Handle(context.Background(), transcript("speech_transcripts", `{"text":"10 squats"}`))
	require.ErrorContains(t, err, "disk full")
}
