package kafka

import (
	"context"
	"encoding/json"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes order events to the order events topic. Kitchen displays
// and courier apps consume it.
type Producer struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer, topic: topic, logger: logger}
}

// PublishOrderEvent sends one event keyed by order ID so all events of an
// order land on the same partition, in order.
func (p *Producer) PublishOrderEvent(event models.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
	}
	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		p.logger.Warn("Kafka write failed",
			zap.String("topic", p.topic),
			zap.String("event", event.Event),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (p *Producer) Close() {
	_ = p.writer.Close()
}
