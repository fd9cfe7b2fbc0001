package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const (
	TypeOrderCreated = "order_created"
	TypeOrderDeleted = "order_deleted"
)

type Item struct {
	ProductID uint    `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

type OrderEvent struct {
	EventID     string          `json:"event_id"`
	Type        string          `json:"type"`
	OrderID     uint            `json:"order_id"`
	UserID      uint            `json:"user_id,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []Item          `json:"items,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

func NewOrderEvent(typ string, orderID uint) OrderEvent {
	return OrderEvent{
		EventID:    uuid.NewString(),
		Type:       typ,
		OrderID:    orderID,
		OccurredAt: time.Now().UTC(),
	}
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			WriteTimeout:           5 * time.Second,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, event OrderEvent) error {
	msg, err := encode(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// encode keys messages by order id so events of one order stay on one
// partition.
func encode(event OrderEvent) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}, nil
}

// Noop is used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, OrderEvent) error { return nil }
func (Noop) Close() error                             { return nil }
