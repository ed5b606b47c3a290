package domain

import (
	"context"
	"time"
)

// Inventory is the stock snapshot for a product
type Inventory struct {
	ID                int64     `json:"id" db:"id"`
	ProductID         int64     `json:"product_id" db:"product_id"`
	Quantity          int       `json:"quantity" db:"quantity" validate:"gte=0"`
	LowStockThreshold int       `json:"low_stock_threshold" db:"low_stock_threshold" validate:"gte=0"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// InStock reports whether any stock remains
func (i *Inventory) InStock() bool {
	return i.Quantity > 0
}

// LowStock reports whether remaining stock is at or below the threshold
func (i *Inventory) LowStock() bool {
	return i.InStock() && i.Quantity <= i.LowStockThreshold
}

// InventoryRepository defines the interface for inventory data access
type InventoryRepository interface {
	// Upsert creates or replaces the inventory row for a product
	Upsert(ctx context.Context, inventory *Inventory) error

	// GetByProductID retrieves the inventory snapshot for a product
	GetByProductID(ctx context.Context, productID int64) (*Inventory, error)
}
