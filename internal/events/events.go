// Package events publishes order lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/kindones/storefront/internal/money"
)

const (
	TypeOrderPlaced        = "order_placed"
	TypeOrderStatusChanged = "order_status_changed"
)

type OrderPlaced struct {
	Type          string     `json:"type"`
	OrderID       string     `json:"orderID"`
	UserID        string     `json:"userID"`
	Total         money.Mils `json:"total"`
	DeliveryFee   money.Mils `json:"deliveryFee"`
	Method        string     `json:"method"`
	PaymentMethod string     `json:"paymentMethod"`
	Items         int        `json:"items"`
	At            time.Time  `json:"at"`
}

type OrderStatusChanged struct {
	Type    string    `json:"type"`
	OrderID string    `json:"orderID"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	At      time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

type KafkaPublisher struct {
	w *kafka.Writer
}

// NewKafkaPublisher writes asynchronously; delivery errors are logged by the
// writer's completion hook.
func NewKafkaPublisher(brokers []string, topic string, log *slog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				log.Error("kafka_publish_failed", "topic", topic, "messages", len(msgs), "error", err)
			}
		},
	}
	return &KafkaPublisher{w: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}
	if err := p.w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: data}); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// Nop discards events. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

func (Nop) Close() error { return nil }
