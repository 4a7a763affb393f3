package bootstrap

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"example.com/workoutlog/internal/config"
	"example.com/workoutlog/internal/consumer"
)

// StartTranscriptConsumers runs one processor per transcript topic until ctx
// is cancelled. Wait on wg for them to stop.
func StartTranscriptConsumers(ctx context.Context, cfg config.Config, journal consumer.TextLogger, wg *sync.WaitGroup) {
	handler := consumer.NewTranscriptHandler(journal, nil)
	for _, topic := range cfg.TranscriptTopics {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:         cfg.KafkaBrokers,
			GroupID:         cfg.ConsumerGroupID,
			Topic:           topic,
			MinBytes:        1,
			MaxBytes:        1e6,
			MaxWait:         time.Second,
			ReadLagInterval: -1,
		})
		proc := consumer.NewProcessor(reader, handler)

		wg.Add(1)
		go func(topic string, r *kafka.Reader) {
			defer wg.Done()
			defer r.Close()

			log.Printf("transcript consumer started (topic=%s, group=%s)", topic, cfg.ConsumerGroupID)
			if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("transcript consumer stopped with error (topic=%s): %v", topic, err)
			}
		}(topic, reader)
	}
}
