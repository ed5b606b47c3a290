package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/Pesokrava/product_catalog/internal/catalog"
	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	"github.com/Pesokrava/product_catalog/internal/repository/searchindex"
)

// Builder rebuilds a product's search document from database state
// and writes it to the index
type Builder struct {
	products  domain.ProductRepository
	inventory domain.InventoryRepository
	store     searchindex.Store
	logger    *logger.Logger
}

// NewBuilder creates a new document builder
func NewBuilder(
	products domain.ProductRepository,
	inventory domain.InventoryRepository,
	store searchindex.Store,
	log *logger.Logger,
) *Builder {
	return &Builder{
		products:  products,
		inventory: inventory,
		store:     store,
		logger:    log,
	}
}

// Rebuild loads the product aggregate, synthesizes the search document
// and stores it. A product that no longer exists (deleted or
// soft-deleted) is removed from the index instead, so rebuilds are
// self-correcting regardless of which event triggered them.
func (b *Builder) Rebuild(ctx context.Context, productID int64) error {
	agg, err := b.products.GetAggregate(ctx, productID)
	if errors.Is(err, domain.ErrNotFound) {
		b.logger.WithFields(map[string]any{
			"product_id": productID,
		}).Info("Product not found, removing from search index")

		if err := b.store.Delete(ctx, productID); err != nil {
			return fmt.Errorf("failed to delete search document: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load product aggregate: %w", err)
	}

	// Inventory is optional in the document
	inv, err := b.inventory.GetByProductID(ctx, productID)
	if errors.Is(err, domain.ErrNotFound) {
		inv = nil
	} else if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}

	doc, err := catalog.BuildDocument(agg, inv)
	if err != nil {
		return fmt.Errorf("failed to build search document: %w", err)
	}

	if err := b.store.Index(ctx, doc); err != nil {
		return fmt.Errorf("failed to index search document: %w", err)
	}

	b.logger.WithFields(map[string]any{
		"product_id": productID,
		"sku":        doc.SKU,
	}).Info("Successfully indexed product")

	return nil
}
