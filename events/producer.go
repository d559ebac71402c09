package events

import (
	"context"
	"encoding/json"
	"time"

	"storefront-service/models"

	"github.com/segmentio/kafka-go"
)

// OrderPlacedEvent is the payload published when a checkout completes.
type OrderPlacedEvent struct {
	Event        string    `json:"event"` // "order.placed"
	OrderID      string    `json:"order_id"`
	TotalPrice   float64   `json:"total_price"`
	CustomerName string    `json:"customer_name"`
	Timestamp    time.Time `json:"timestamp"`
}

type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishOrderPlaced emits the order-placed event. Failures are returned to
// the caller, which logs and moves on; checkout never depends on the broker.
func (p *Producer) PublishOrderPlaced(ctx context.Context, order models.Order) error {
	event := OrderPlacedEvent{
		Event:        "order.placed",
		OrderID:      order.ID,
		TotalPrice:   order.TotalPrice,
		CustomerName: order.CustomerName,
		Timestamp:    time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(order.ID),
		Value: data,
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Producer) Close() {
	_ = p.writer.Close()
}
