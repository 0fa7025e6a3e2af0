package port

import (
	"context"

	"github.com/gs-sudheesh/project-shoplite/internal/core/domain"
)

type EventPublisher interface {
	// PublishPlaced sends the event to the orders.events topic keyed by the
	// order id.
	PublishPlaced(ctx context.Context, ev domain.OrderPlaced) error
}
