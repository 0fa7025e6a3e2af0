package port

import (
	"context"
	"errors"

	"github.com/gs-sudheesh/project-shoplite/internal/core/domain"
)

// ErrVersionConflict is returned by CatalogRepository.Update when the item was
// modified since it was read.
var ErrVersionConflict = errors.New("catalog item version conflict")

type OrderRepository interface {
	// Save persists a new order. Orders are immutable once saved.
	Save(ctx context.Context, order domain.Order) error
}

type CatalogRepository interface {
	// FindByID returns nil, nil when no item with the given id exists.
	FindByID(ctx context.Context, productID string) (*domain.CatalogItem, error)

	// Update persists the item's stock with a check on the version it was
	// read at, returning ErrVersionConflict when a concurrent update won.
	Update(ctx context.Context, item domain.CatalogItem) error
}

type DedupStore interface {
	// MarkProcessed records the key if unseen; false means the key was
	// already recorded and the caller should skip its effect.
	MarkProcessed(ctx context.Context, key string) (bool, error)
}
