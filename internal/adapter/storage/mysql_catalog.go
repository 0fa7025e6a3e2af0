package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gs-sudheesh/project-shoplite/internal/core/domain"
	"github.com/gs-sudheesh/project-shoplite/internal/port"
)

type MySQLCatalogAdapter struct {
	db *sql.DB
}

func NewMySQLCatalogAdapter(db *sql.DB) *MySQLCatalogAdapter {
	return &MySQLCatalogAdapter{db: db}
}

// EnsureSchema creates the catalog table when it does not exist yet.
func (m *MySQLCatalogAdapter) EnsureSchema(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS catalog_items (
			id      VARCHAR(64) PRIMARY KEY,
			name    VARCHAR(255) NOT NULL,
			stock   INT NOT NULL,
			version INT NOT NULL DEFAULT 0
		)`)
	if err != nil {
		return fmt.Errorf("create catalog_items table: %w", err)
	}
	return nil
}

func (m *MySQLCatalogAdapter) FindByID(ctx context.Context, productID string) (*domain.CatalogItem, error) {
	var item domain.CatalogItem
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, stock, version
		FROM catalog_items WHERE id = ?`, productID,
	).Scan(&item.ID, &item.Name, &item.Stock, &item.Version)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query catalog item: %w", err)
	}
	return &item, nil
}

func (m *MySQLCatalogAdapter) Update(ctx context.Context, item domain.CatalogItem) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE catalog_items
		SET stock = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		item.Stock, item.ID, item.Version,
	)
	if err != nil {
		return fmt.Errorf("update catalog item: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return port.ErrVersionConflict
	}
	return nil
}

// UpsertItem seeds or resets an item. Used by operational tooling and tests;
// the reconciliation path never creates items.
func (m *MySQLCatalogAdapter) UpsertItem(ctx context.Context, item domain.CatalogItem) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO catalog_items (id, name, stock, version) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name), stock = VALUES(stock), version = VALUES(version)`,
		item.ID, item.Name, item.Stock, item.Version,
	)
	if err != nil {
		return fmt.Errorf("upsert catalog item: %w", err)
	}
	return nil
}
