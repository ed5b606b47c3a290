package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/product_catalog/internal/domain"
)

// InventoryRepository implements domain.InventoryRepository for PostgreSQL
type InventoryRepository struct {
	db *sqlx.DB
}

// NewInventoryRepository creates a new PostgreSQL inventory repository
func NewInventoryRepository(db *sqlx.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// Upsert creates or replaces the inventory row for a product
func (r *InventoryRepository) Upsert(ctx context.Context, inventory *domain.Inventory) error {
	query := `
		INSERT INTO inventory (product_id, quantity, low_stock_threshold, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id) DO UPDATE
		SET quantity = EXCLUDED.quantity,
			low_stock_threshold = EXCLUDED.low_stock_threshold,
			updated_at = EXCLUDED.updated_at
		RETURNING id, updated_at
	`

	inventory.UpdatedAt = time.Now()

	err := r.db.QueryRowxContext(
		ctx,
		query,
		inventory.ProductID,
		inventory.Quantity,
		inventory.LowStockThreshold,
		inventory.UpdatedAt,
	).Scan(&inventory.ID, &inventory.UpdatedAt)

	return err
}

// GetByProductID retrieves the inventory snapshot for a product
func (r *InventoryRepository) GetByProductID(ctx context.Context, productID int64) (*domain.Inventory, error) {
	query := `
		SELECT id, product_id, quantity, low_stock_threshold, updated_at
		FROM inventory
		WHERE product_id = $1
	`

	var inventory domain.Inventory
	err := r.db.GetContext(ctx, &inventory, query, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &inventory, nil
}
