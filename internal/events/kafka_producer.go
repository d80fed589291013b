// Package events carries applied-transaction events out of the service.
// Writes go through a PostgreSQL outbox so an event row commits alongside
// the ledger writes; a background poller drains the outbox to Kafka.
package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/bank-demo-ledger/internal/config"
)

// AppliedEventProducer publishes applied-transaction events to Kafka
type AppliedEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewAppliedEventProducer creates the producer and ensures the topic exists
func NewAppliedEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*AppliedEventProducer, error) {
	if cfg.AppliedEventTopic == "" {
		return nil, fmt.Errorf("kafka applied event topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for applied event producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.AppliedEventTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure topic %s exists for applied event producer: %w", cfg.AppliedEventTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.AppliedEventTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.MaxWait,
	}

	return &AppliedEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.AppliedEventTopic,
	}, nil
}

// Publish writes an already-serialized event payload keyed by account ID so
// events for the same account land on the same partition in order.
func (p *AppliedEventProducer) Publish(ctx context.Context, key string, payload []byte) error {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish applied event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish applied event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published applied event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *AppliedEventProducer) Close() error {
	p.logger.Info("Closing applied event Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
