package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/events"
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// Option configures optional behaviour for the Publisher.
type Option func(*Publisher)

// WithLogger overrides the publisher logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// Publisher turns journal changes into Kafka records keyed by entry id.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *log.Logger
}

// NewPublisher constructs a Publisher writing to topic.
func NewPublisher(writer messageWriter, topic string, opts ...Option) *Publisher {
	p := &Publisher{
		writer: writer,
		topic:  topic,
		logger: log.New(log.Writer(), "[outbox] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish implements domain.Publisher. All changes are written in one batch.
func (p *Publisher) Publish(ctx context.Context, changes ...domain.Change) error {
	if len(changes) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(changes))
	for _, change := range changes {
		msg, err := encodeChange(change)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := p.writer.WriteMessages(ctx, p.topic, msgs...); err != nil {
		return fmt.Errorf("write %d change event(s) to %s: %w", len(msgs), p.topic, err)
	}
	for _, change := range changes {
		deliveredCounter.WithLabelValues(string(change.Type)).Inc()
	}
	p.logger.Printf("published %d change event(s) to %s", len(msgs), p.topic)
	return nil
}

func encodeChange(change domain.Change) (kafka.Message, error) {
	payload, err := json.Marshal(events.EntryChanged{
		EntryID:    change.Entry.ID,
		Activity:   change.Entry.Activity,
		Amount:     change.Entry.Amount,
		Unit:       string(change.Entry.Unit),
		LoggedAt:   change.Entry.Timestamp,
		OccurredAt: change.OccurredAt,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s event: %w", change.Type, err)
	}
	return kafka.Message{
		Key:   []byte(change.Entry.ID),
		Value: payload,
		Time:  change.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(change.Type)},
			{Key: "content_type", Value: []byte("application/json")},
		},
	}, nil
}
