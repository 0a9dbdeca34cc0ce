// Package events publishes order lifecycle events onto Kafka for the
// background worker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"storefront/internal/checkout"
)

const Topic = "order-events"

const TypeOrderCompleted = "order.completed"

// Event is the wire format on the order-events topic.
type Event struct {
	Type      string          `json:"type"`
	OrderID   uint            `json:"order_id"`
	Reference string          `json:"reference"`
	Lines     []checkout.Line `json:"lines"`
	Timestamp time.Time       `json:"timestamp"`
}

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers),
			Topic:        Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

// OrderCompleted announces a successful checkout.
func (p *Publisher) OrderCompleted(ctx context.Context, orderID uint, reference string, lines []checkout.Line) error {
	event := Event{
		Type:      TypeOrderCompleted,
		OrderID:   orderID,
		Reference: reference,
		Lines:     lines,
		Timestamp: time.Now().UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(reference),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
