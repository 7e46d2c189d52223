package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"campus-canteen/internal/logger"
	"campus-canteen/internal/models"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const OrderPlaced = "order.placed"

// OrderEvent is emitted after an order commits
type OrderEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	OrderID       int       `json:"order_id"`
	UserID        int       `json:"user_id"`
	TotalAmount   float64   `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	ItemCount     int       `json:"item_count"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewOrderPlaced builds the event for a committed order.
func NewOrderPlaced(order *models.Order) OrderEvent {
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	return OrderEvent{
		EventID:       uuid.NewString(),
		Type:          OrderPlaced,
		OrderID:       order.ID,
		UserID:        order.UserID,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: string(order.PaymentMethod),
		ItemCount:     count,
		OccurredAt:    time.Now().UTC(),
	}
}

type Publisher interface {
	PublishOrder(ctx context.Context, event OrderEvent) error
	Close() error
}

// messageWriter is the subset of *kafka.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes order events keyed by order id
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
		},
	}
}

func (p *KafkaPublisher) PublishOrder(ctx context.Context, event OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.Itoa(event.OrderID)),
		Value: data,
		Time:  event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher only logs events. Used when no brokers are configured.
type LogPublisher struct{}

func (LogPublisher) PublishOrder(ctx context.Context, event OrderEvent) error {
	logger.FromContext(ctx).Info("order event",
		"event_id", event.EventID,
		"type", event.Type,
		"order_id", event.OrderID,
		"total", event.TotalAmount,
		"payment_method", event.PaymentMethod,
	)
	return nil
}

func (LogPublisher) Close() error { return nil }

// NewPublisher returns a Kafka publisher when brokers are set.
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return LogPublisher{}
	}
	logger.Info("order events: publishing to kafka", "brokers", brokers, "topic", topic)
	return NewKafkaPublisher(brokers, topic)
}
