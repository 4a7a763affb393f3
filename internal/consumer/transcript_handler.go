package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/events"
)

// TextLogger is the journal operation transcripts are fed into.
type TextLogger interface {
	LogText(ctx context.Context, text string) ([]domain.Entry, error)
}

// TranscriptHandler logs speech transcripts exactly like typed text.
type TranscriptHandler struct {
	journal TextLogger
	logger  *log.Logger
}

// NewTranscriptHandler constructs a TranscriptHandler.
func NewTranscriptHandler(journal TextLogger, logger *log.Logger) *TranscriptHandler {
	if logger == nil {
		logger = log.New(log.Writer(), "[transcripts] ", log.LstdFlags|log.Lshortfile)
	}
	return &TranscriptHandler{journal: journal, logger: logger}
}

// Handle implements Handler. Other event types are ignored, and a transcript
// that yields no entries is counted but not treated as a failure.
func (h *TranscriptHandler) Handle(ctx context.Context, msg Message) error {
	if msg.EventType != events.TypeTranscriptCaptured {
		return nil
	}

	var transcript events.TranscriptCaptured
	if err := json.Unmarshal(msg.Payload, &transcript); err != nil {
		h.logger.Printf("skip transcript at offset %d: %v", msg.Offset, err)
		recordDecodeError(msg.Topic)
		return nil
	}
	if strings.TrimSpace(transcript.Text) == "" {
		recordUnparsed(msg.Topic)
		return nil
	}

	entries, err := h.journal.LogText(ctx, transcript.Text)
	if err != nil {
		return fmt.Errorf("log transcript: %w", err)
	}
	if len(entries) == 0 {
		recordUnparsed(msg.Topic)
		h.logger.Printf("no entries parsed from transcript (source=%s)", transcript.Source)
		return nil
	}
	h.logger.Printf("logged %d entr(ies) from transcript (source=%s)", len(entries), transcript.Source)
	return nil
}
