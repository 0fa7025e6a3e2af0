package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Publisher sends one outbox payload to the event channel.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

type outboxRow struct {
	ID          string
	AggregateID string
	Payload     []byte
}

// Relay moves committed outbox rows to the event channel. Rows are deleted
// only after a confirmed send, so delivery is at-least-once: a crash between
// publish and delete republishes on the next tick.
type Relay struct {
	pool      *pgxpool.Pool
	publisher Publisher
	interval  time.Duration
	batchSize int
	logger    *zap.Logger
}

func New(pool *pgxpool.Pool, publisher Publisher, interval time.Duration, batchSize int, logger *zap.Logger) *Relay {
	if interval <= 0 {
		interval = time.Second
	}
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Relay{
		pool:      pool,
		publisher: publisher,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run polls the outbox until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info("outbox relay started",
		zap.Duration("interval", r.interval),
		zap.Int("batch_size", r.batchSize),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopping")
			return nil
		case <-ticker.C:
			if err := r.processBatch(ctx); err != nil {
				r.logger.Error("outbox batch failed", zap.Error(err))
			}
		}
	}
}

// processBatch locks a batch of pending rows, publishes each and deletes the
// ones that went through. SKIP LOCKED lets concurrent relay instances work
// disjoint batches.
func (r *Relay) processBatch(ctx context.Context) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT id, aggregate_id, payload
		FROM outbox
		WHERE status = 'PENDING'
		ORDER BY created_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED`, r.batchSize)
	if err != nil {
		return fmt.Errorf("fetch outbox rows: %w", err)
	}

	batch, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (outboxRow, error) {
		var o outboxRow
		err := row.Scan(&o.ID, &o.AggregateID, &o.Payload)
		return o, err
	})
	if err != nil {
		return fmt.Errorf("scan outbox rows: %w", err)
	}
	if len(batch) == 0 {
		return nil
	}

	r.logger.Info("relaying outbox batch", zap.Int("count", len(batch)))

	for _, row := range batch {
		if err := r.publisher.Publish(ctx, row.AggregateID, row.Payload); err != nil {
			// Leave the row pending; the next tick retries it.
			r.logger.Error("failed to publish outbox row",
				zap.Error(err),
				zap.String("outbox_id", row.ID),
				zap.String("aggregate_id", row.AggregateID),
			)
			continue
		}
		if _, err := tx.Exec(ctx, `DELETE FROM outbox WHERE id = $1`, row.ID); err != nil {
			// Deleting failed after a confirmed send; the row is
			// republished next tick, which consumers must tolerate.
			return fmt.Errorf("delete outbox row %s: %w", row.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
