// Package events defines the payloads exchanged with other services over Kafka.
package events

import "time"

// TypeTranscriptCaptured is the event_type header of speech transcripts.
const TypeTranscriptCaptured = "transcript.captured"

// EntryChanged is the payload of entry.logged, entry.edited and entry.deleted
// events. For deletions it describes the removed entry.
type EntryChanged struct {
	EntryID    string    `json:"entry_id"`
	Activity   string    `json:"activity"`
	Amount     float64   `json:"amount"`
	Unit       string    `json:"unit"`
	LoggedAt   time.Time `json:"logged_at"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TranscriptCaptured carries freeform text recognised from speech.
type TranscriptCaptured struct {
	Text       string    `json:"text"`
	Source     string    `json:"source,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
}
