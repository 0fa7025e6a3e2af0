package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gs-sudheesh/project-shoplite/internal/core/domain"
	"github.com/gs-sudheesh/project-shoplite/internal/port"
)

type PlaceOrderRequest struct {
	ProductID string
	Quantity  int
}

type OrderService struct {
	orders    port.OrderRepository
	publisher port.EventPublisher
	logger    *zap.Logger
}

// NewOrderService wires the placement workflow. publisher may be nil when the
// order repository writes an outbox row in the same transaction; the relay
// then publishes on its behalf.
func NewOrderService(orders port.OrderRepository, publisher port.EventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:    orders,
		publisher: publisher,
		logger:    logger,
	}
}

// Place validates the request, persists an order and publishes the outcome.
// A non-positive quantity yields OrderRejected with no side effects. The save
// happens strictly before the publish and the two are not atomic: a crash in
// between leaves an order with no event unless the outbox wiring is used.
func (s *OrderService) Place(ctx context.Context, req PlaceOrderRequest) (domain.OrderEvent, error) {
	if req.Quantity <= 0 {
		ev := domain.OrderRejected{Reason: "Quantity must be > 0"}
		s.logger.Warn("order rejected",
			zap.String("product_id", req.ProductID),
			zap.Int("quantity", req.Quantity),
			zap.String("reason", ev.Reason),
		)
		return ev, nil
	}

	order := domain.Order{
		ID:        uuid.New().String(),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		CreatedAt: time.Now(),
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	ev := domain.OrderPlaced{
		OrderID:   order.ID,
		ProductID: order.ProductID,
		Quantity:  order.Quantity,
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPlaced(ctx, ev); err != nil {
			// The order is already committed; until the event is
			// re-published by other means it has no corresponding event.
			return nil, fmt.Errorf("publish order placed: %w", err)
		}
	}

	s.logger.Info(domain.LogLine(ev),
		zap.String("order_id", ev.OrderID),
		zap.String("product_id", ev.ProductID),
		zap.Int("quantity", ev.Quantity),
	)
	return ev, nil
}
