// Package consumer reads speech transcripts from Kafka and logs them into the
// journal.
package consumer

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Reader exposes the subset of *kafka.Reader the processor needs.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// Handler receives decoded messages.
type Handler interface {
	Handle(context.Context, Message) error
}

// Message is the decoded form of a Kafka record.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       string
	Timestamp time.Time
	EventType string
	SchemaID  int
	Payload   json.RawMessage
}

// Option configures optional behaviour for the Processor.
type Option func(*Processor)

// WithLogger overrides the logger used to report errors.
func WithLogger(logger *log.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// Processor pulls messages from a Reader, decodes them and dispatches them to
// a Handler.
type Processor struct {
	reader  Reader
	handler Handler
	logger  *log.Logger
}

// NewProcessor constructs a Processor.
func NewProcessor(reader Reader, handler Handler, opts ...Option) *Processor {
	p := &Processor{
		reader:  reader,
		handler: handler,
		logger:  log.New(log.Writer(), "[consumer] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes messages until ctx is cancelled. Malformed records are
// committed and skipped; a handler failure leaves the record uncommitted.
func (p *Processor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := p.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			p.logger.Printf("fetch error: %v", err)
			continue
		}

		event, err := decodeMessage(msg)
		if err != nil {
			p.logger.Printf("decode error (topic=%s, partition=%d, offset=%d): %v", msg.Topic, msg.Partition, msg.Offset, err)
			recordDecodeError(msg.Topic)
			if commitErr := p.reader.CommitMessages(ctx, msg); commitErr != nil {
				p.logger.Printf("commit error after decode failure: %v", commitErr)
			}
			continue
		}

		if err := p.handler.Handle(ctx, event); err != nil {
			p.logger.Printf("handler error (topic=%s, offset=%d, event_type=%s): %v", event.Topic, event.Offset, event.EventType, err)
			recordHandlerError(event.Topic)
			continue
		}

		if err := p.reader.CommitMessages(ctx, msg); err != nil {
			p.logger.Printf("commit error: %v", err)
			continue
		}
		recordProcessed(event)
	}
}

// decodeMessage accepts plain JSON values and values framed with the
// five byte schema registry prefix (magic byte 0 plus a big endian id).
func decodeMessage(msg kafka.Message) (Message, error) {
	eventType, ok := headerValue(msg, "event_type")
	if !ok {
		return Message{}, errors.New("missing event_type header")
	}

	value := msg.Value
	schemaID := 0
	if len(value) >= 5 && value[0] == 0 {
		schemaID = int(binary.BigEndian.Uint32(value[1:5]))
		value = value[5:]
	}
	if len(value) == 0 {
		return Message{}, errors.New("empty payload")
	}
	if !json.Valid(value) {
		return Message{}, fmt.Errorf("payload is not valid JSON (%d bytes)", len(value))
	}

	return Message{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       string(msg.Key),
		Timestamp: msg.Time,
		EventType: string(eventType),
		SchemaID:  schemaID,
		Payload:   json.RawMessage(append([]byte(nil), value...)),
	}, nil
}

func headerValue(msg kafka.Message, key string) ([]byte, bool) {
	for _, header := range msg.Headers {
		if header.Key == key {
			return header.Value, true
		}
	}
	return nil, false
}
