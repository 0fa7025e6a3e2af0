package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gs-sudheesh/project-shoplite/internal/core/domain"
)

type PostgresOrderAdapter struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderAdapter(pool *pgxpool.Pool) *PostgresOrderAdapter {
	return &PostgresOrderAdapter{pool: pool}
}

// EnsureSchema creates the order and outbox tables when they do not exist yet.
func (p *PostgresOrderAdapter) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS orders (
			id         TEXT PRIMARY KEY,
			product_id TEXT NOT NULL,
			quantity   INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create orders table: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS outbox (
			id           TEXT PRIMARY KEY,
			aggregate_id TEXT NOT NULL,
			payload      BYTEA NOT NULL,
			status       TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create outbox table: %w", err)
	}
	return nil
}

func (p *PostgresOrderAdapter) Save(ctx context.Context, order domain.Order) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO orders (id, product_id, quantity, created_at)
		VALUES ($1, $2, $3, $4)`,
		order.ID, order.ProductID, order.Quantity, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// OutboxOrderStore persists each order together with its placed event in one
// transaction. The relay publishes the event rows after commit, so an event is
// eventually published for every committed order and never for a rolled-back
// one.
type OutboxOrderStore struct {
	pool *pgxpool.Pool
}

func NewOutboxOrderStore(pool *pgxpool.Pool) *OutboxOrderStore {
	return &OutboxOrderStore{pool: pool}
}

func (s *OutboxOrderStore) Save(ctx context.Context, order domain.Order) error {
	payload, err := json.Marshal(domain.OrderPlaced{
		OrderID:   order.ID,
		ProductID: order.ProductID,
		Quantity:  order.Quantity,
	})
	if err != nil {
		return fmt.Errorf("marshal order placed: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// Rollback is a no-op once committed.
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, product_id, quantity, created_at)
		VALUES ($1, $2, $3, $4)`,
		order.ID, order.ProductID, order.Quantity, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO outbox (id, aggregate_id, payload, status, created_at)
		VALUES ($1, $2, $3, 'PENDING', $4)`,
		uuid.New().String(), order.ID, payload, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert outbox row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
