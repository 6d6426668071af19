package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

const Topic = "user_events"

// Producer publishes account lifecycle events. A zero Producer (no writer)
// is a no-op so tests and the CLI run without a broker.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(address string) *Producer {
	if address == "" {
		return &Producer{}
	}
	return &Producer{writer: &kafka.Writer{
		Addr:                   kafka.TCP(address),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}}
}

func (p *Producer) PublishEvent(ctx context.Context, key string, event map[string]any) error {
	if p == nil || p.writer == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
	}); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
