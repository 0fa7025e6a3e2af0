package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/gs-sudheesh/project-shoplite/internal/core/domain"
	"github.com/gs-sudheesh/project-shoplite/internal/port"
)

// maxUpdateAttempts bounds re-reads after a version conflict.
const maxUpdateAttempts = 3

type StockReconciler struct {
	catalog port.CatalogRepository
	dedup   port.DedupStore // nil disables redelivery detection
	logger  *zap.Logger

	unresolved atomic.Uint64
}

func NewStockReconciler(catalog port.CatalogRepository, dedup port.DedupStore, logger *zap.Logger) *StockReconciler {
	return &StockReconciler{
		catalog: catalog,
		dedup:   dedup,
		logger:  logger,
	}
}

// Reconcile applies the stock decrement for a placed order, clamped so stock
// never goes below zero. A missing product is logged and counted, not retried.
// Updates carry a version check; a conflicting concurrent decrement triggers a
// re-read and retry. Storage errors propagate so the message is not
// acknowledged and the broker re-presents it.
//
// Without a dedup store each delivery decrements independently, so a
// redelivered message is applied twice.
func (r *StockReconciler) Reconcile(ctx context.Context, ev domain.OrderPlaced) error {
	if r.dedup != nil {
		first, err := r.dedup.MarkProcessed(ctx, ev.OrderID)
		if err != nil {
			return fmt.Errorf("dedup check: %w", err)
		}
		if !first {
			r.logger.Info("event already applied, skipping",
				zap.String("order_id", ev.OrderID))
			return nil
		}
	}

	for attempt := 1; ; attempt++ {
		item, err := r.catalog.FindByID(ctx, ev.ProductID)
		if err != nil {
			return fmt.Errorf("find catalog item: %w", err)
		}
		if item == nil {
			r.unresolved.Add(1)
			r.logger.Warn("product not found for placed order",
				zap.String("product_id", ev.ProductID),
				zap.String("order_id", ev.OrderID),
			)
			return nil
		}

		originalStock := item.Stock
		item.Stock = originalStock - ev.Quantity
		if item.Stock < 0 {
			item.Stock = 0
		}

		err = r.catalog.Update(ctx, *item)
		if err == nil {
			r.logger.Info("stock updated",
				zap.String("product_id", item.ID),
				zap.String("order_id", ev.OrderID),
				zap.Int("stock_original", originalStock),
				zap.Int("stock_updated", item.Stock),
			)
			return nil
		}
		if !errors.Is(err, port.ErrVersionConflict) {
			return fmt.Errorf("update catalog item: %w", err)
		}
		if attempt >= maxUpdateAttempts {
			return fmt.Errorf("update catalog item %s after %d attempts: %w", item.ID, attempt, err)
		}
		// Lost the race against a concurrent update; re-read and retry.
	}
}

// UnresolvedReferences reports how many events referenced an unknown product.
func (r *StockReconciler) UnresolvedReferences() uint64 {
	return r.unresolved.Load()
}
