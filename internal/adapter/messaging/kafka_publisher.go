package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/gs-sudheesh/project-shoplite/internal/core/domain"
)

const (
	// Topic carries order outcome events, keyed by order id.
	Topic = "orders.events"
	// GroupID is the reconciliation consumer group; scaled-out workers share
	// partitions within it.
	GroupID = "catalog-service"

	batchTimeout = 10 * time.Millisecond
)

type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaPublisher(broker string, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:  kafka.TCP(broker),
		Topic: Topic,
		// Hash keeps messages with the same key on the same partition, which
		// is what gives same-key delivery its ordering.
		Balancer:     &kafka.Hash{},
		BatchTimeout: batchTimeout,
		RequiredAcks: kafka.RequireAll,
	}
	return &KafkaPublisher{writer: writer, logger: logger}
}

func (p *KafkaPublisher) PublishPlaced(ctx context.Context, ev domain.OrderPlaced) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal order placed: %w", err)
	}
	if err := p.Publish(ctx, ev.OrderID, payload); err != nil {
		return err
	}
	p.logger.Info("event published",
		zap.String("topic", Topic),
		zap.String("order_id", ev.OrderID),
	)
	return nil
}

// Publish writes a raw payload under the given key, carrying the caller's
// trace context in the message headers.
func (p *KafkaPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	msg := kafka.Message{
		Key:     []byte(key),
		Value:   payload,
		Headers: injectTraceContext(ctx),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// injectTraceContext copies the caller's trace context into Kafka headers so
// the consumer can continue the trace.
func injectTraceContext(ctx context.Context) []kafka.Header {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := make([]kafka.Header, 0, len(carrier))
	for k, v := range carrier {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return headers
}

func extractTraceContext(ctx context.Context, headers []kafka.Header) context.Context {
	carrier := propagation.MapCarrier{}
	for _, header := range headers {
		carrier[header.Key] = string(header.Value)
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}
