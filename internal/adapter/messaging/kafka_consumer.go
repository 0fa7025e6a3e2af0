package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/gs-sudheesh/project-shoplite/internal/core/domain"
)

// Handler processes a decoded OrderPlaced event. A nil return acknowledges the
// message; an error stops consumption before the offset is committed so the
// broker re-presents the message on the next start.
type Handler interface {
	Reconcile(ctx context.Context, ev domain.OrderPlaced) error
}

type Consumer struct {
	reader  *kafka.Reader
	handler Handler
	logger  *zap.Logger
}

func NewConsumer(broker string, handler Handler, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   Topic,
		GroupID: GroupID,
	})
	return &Consumer{
		reader:  reader,
		handler: handler,
		logger:  logger,
	}
}

// Run consumes until ctx is cancelled or handling fails. Offsets are committed
// only after the handler returns nil, so a crash mid-processing causes
// redelivery rather than silent loss.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("consumer started, waiting for messages",
		zap.String("topic", Topic),
		zap.String("group_id", GroupID),
	)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				c.logger.Info("consumer stopping", zap.Error(err))
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		msgCtx := extractTraceContext(ctx, msg.Headers)

		var ev domain.OrderPlaced
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			// An undecodable payload will never succeed; acknowledge and
			// move on rather than blocking the partition.
			c.logger.Error("invalid event payload",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return fmt.Errorf("commit message: %w", err)
			}
			continue
		}

		c.logger.Info("event received",
			zap.String("order_id", ev.OrderID),
			zap.String("key", string(msg.Key)),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
		)

		if err := c.handler.Reconcile(msgCtx, ev); err != nil {
			// Not committed: the broker re-presents this message after the
			// process restarts or the group rebalances.
			return fmt.Errorf("handle order %s: %w", ev.OrderID, err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit message: %w", err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
