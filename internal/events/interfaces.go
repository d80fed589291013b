package events

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// Publisher handles publishing applied-event payloads to a topic
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
