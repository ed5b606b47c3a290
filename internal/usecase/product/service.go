package product

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Pesokrava/product_catalog/internal/catalog"
	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	sharedvalidator "github.com/Pesokrava/product_catalog/internal/pkg/validator"
)

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Cache defines the product caching operations the service needs.
// Satisfied by cache.RedisCache.
type Cache interface {
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	InvalidateProduct(ctx context.Context, productID int64) error
	InvalidateAllProductCache(ctx context.Context, productID int64) error
}

// CatalogEvent represents a product lifecycle event
type CatalogEvent struct {
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	ProductID int64     `json:"product_id"`
}

// Subject is the NATS subject catalog events are published to
const Subject = "catalog.events"

// CustomAttributeInput is a free-form name/value pair supplied at creation
type CustomAttributeInput struct {
	Name  string
	Value string
}

// CreateInput carries everything needed to create a product
type CreateInput struct {
	Name                    string
	Description             *string
	LongDescription         *string
	BasePrice               float64
	Currency                string
	WeightKg                *float64
	LengthCm                *float64
	WidthCm                 *float64
	HeightCm                *float64
	BrandPublicID           uuid.UUID
	PrimaryCategoryPublicID uuid.UUID
	CategoryPublicIDs       []uuid.UUID
	CustomAttributes        []CustomAttributeInput
	Quantity                int
	LowStockThreshold       int
}

// Service handles product business logic
type Service struct {
	repo          domain.ProductRepository
	brandRepo     domain.BrandRepository
	categoryRepo  domain.CategoryRepository
	inventoryRepo domain.InventoryRepository
	cache         Cache
	publisher     EventPublisher
	skuGen        *catalog.SkuGenerator
	validate      *validator.Validate
	logger        *logger.Logger
}

// NewService creates a new product service
func NewService(
	repo domain.ProductRepository,
	brandRepo domain.BrandRepository,
	categoryRepo domain.CategoryRepository,
	inventoryRepo domain.InventoryRepository,
	cache Cache,
	publisher EventPublisher,
	skuGen *catalog.SkuGenerator,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:          repo,
		brandRepo:     brandRepo,
		categoryRepo:  categoryRepo,
		inventoryRepo: inventoryRepo,
		cache:         cache,
		publisher:     publisher,
		skuGen:        skuGen,
		validate:      sharedvalidator.Get(),
		logger:        log,
	}
}

// Create creates a new product: resolves the brand and categories,
// generates the SKU from their slugs, persists the product with its
// custom attributes and inventory row, and publishes a created event.
func (s *Service) Create(ctx context.Context, input *CreateInput) (*domain.Product, error) {
	brand, err := s.brandRepo.GetByPublicID(ctx, input.BrandPublicID)
	if err != nil {
		s.logger.Error("Failed to resolve brand", err)
		return nil, err
	}

	primaryCategory, err := s.categoryRepo.GetByPublicID(ctx, input.PrimaryCategoryPublicID)
	if err != nil {
		s.logger.Error("Failed to resolve primary category", err)
		return nil, err
	}

	categories, err := s.categoryRepo.GetByPublicIDs(ctx, input.CategoryPublicIDs)
	if err != nil {
		s.logger.Error("Failed to resolve secondary categories", err)
		return nil, err
	}

	sku, err := s.skuGen.Generate(ctx, primaryCategory.Slug, brand.Slug)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidSlug) {
			return nil, domain.ErrInvalidInput
		}
		s.logger.Error("Failed to generate SKU", err)
		return nil, err
	}

	product := &domain.Product{
		PublicID:          uuid.New(),
		SKU:               sku,
		Name:              input.Name,
		Description:       input.Description,
		LongDescription:   input.LongDescription,
		BasePrice:         input.BasePrice,
		Currency:          input.Currency,
		WeightKg:          input.WeightKg,
		LengthCm:          input.LengthCm,
		WidthCm:           input.WidthCm,
		HeightCm:          input.HeightCm,
		IsActive:          true,
		IsAvailable:       true,
		BrandID:           brand.ID,
		PrimaryCategoryID: primaryCategory.ID,
	}

	if err := s.validate.Struct(product); err != nil {
		s.logger.Error("Product validation failed", err)
		return nil, domain.ErrInvalidInput
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", err)
		return nil, err
	}

	categoryIDs := make([]int64, len(categories))
	for i, c := range categories {
		categoryIDs[i] = c.ID
	}
	if err := s.repo.AddCategories(ctx, product.ID, categoryIDs); err != nil {
		s.logger.Error("Failed to link secondary categories", err)
		return nil, err
	}

	customAttrs := make([]*domain.CustomAttribute, len(input.CustomAttributes))
	for i, attr := range input.CustomAttributes {
		customAttrs[i] = &domain.CustomAttribute{Name: attr.Name, Value: attr.Value}
	}
	if err := s.repo.AddCustomAttributes(ctx, product.ID, customAttrs); err != nil {
		s.logger.Error("Failed to attach custom attributes", err)
		return nil, err
	}

	inventory := &domain.Inventory{
		ProductID:         product.ID,
		Quantity:          input.Quantity,
		LowStockThreshold: input.LowStockThreshold,
	}
	if err := s.inventoryRepo.Upsert(ctx, inventory); err != nil {
		s.logger.Error("Failed to create inventory", err)
		return nil, err
	}

	s.publishEvent(ctx, "product.created", product.ID)

	s.logger.WithFields(map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
		"name":       product.Name,
	}).Info("Product created successfully")

	return product, nil
}

// GetByID retrieves a product by ID with read-through caching
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if product, err := s.cache.GetProduct(ctx, id); err == nil {
		s.logger.Debugf("Cache hit for product %d", id)
		return product, nil
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Product not found: %d", id)
		} else {
			s.logger.Error("Failed to get product", err)
		}
		return nil, err
	}

	if err := s.cache.SetProduct(ctx, product); err != nil {
		s.logger.Warnf("Failed to cache product %d: %v", id, err)
	}

	return product, nil
}

// GetByPublicID retrieves a product by its public UUID
func (s *Service) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Product, error) {
	product, err := s.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Product not found: %s", publicID)
		} else {
			s.logger.Error("Failed to get product", err)
		}
		return nil, err
	}

	return product, nil
}

// GetBySku retrieves a product by SKU
func (s *Service) GetBySku(ctx context.Context, sku string) (*domain.Product, error) {
	product, err := s.repo.GetBySku(ctx, sku)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Product not found by sku: %s", sku)
		} else {
			s.logger.Error("Failed to get product by sku", err)
		}
		return nil, err
	}

	return product, nil
}

// List retrieves a paginated list of products
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domain.Product, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list products", err)
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count products", err)
		return nil, 0, err
	}

	return products, total, nil
}

// Update updates an existing product. The SKU is immutable and never
// touched here.
func (s *Service) Update(ctx context.Context, product *domain.Product) error {
	if err := s.validate.Struct(product); err != nil {
		s.logger.Error("Product validation failed", err)
		return domain.ErrInvalidInput
	}

	if err := s.repo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", err)
		return err
	}

	if err := s.cache.InvalidateProduct(ctx, product.ID); err != nil {
		s.logger.Warnf("Failed to invalidate cache for product %d: %v", product.ID, err)
	}

	s.publishEvent(ctx, "product.updated", product.ID)

	s.logger.WithFields(map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("Product updated successfully")

	return nil
}

// Delete soft-deletes a product
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete product", err)
		return err
	}

	if err := s.cache.InvalidateAllProductCache(ctx, id); err != nil {
		s.logger.Warnf("Failed to invalidate cache for product %d: %v", id, err)
	}

	s.publishEvent(ctx, "product.deleted", id)

	s.logger.WithFields(map[string]interface{}{
		"product_id": id,
	}).Info("Product deleted successfully")

	return nil
}

// UpdateInventory replaces the inventory snapshot for a product
func (s *Service) UpdateInventory(ctx context.Context, productID int64, quantity, lowStockThreshold int) (*domain.Inventory, error) {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	inventory := &domain.Inventory{
		ProductID:         productID,
		Quantity:          quantity,
		LowStockThreshold: lowStockThreshold,
	}

	if err := s.validate.Struct(inventory); err != nil {
		s.logger.Error("Inventory validation failed", err)
		return nil, domain.ErrInvalidInput
	}

	if err := s.inventoryRepo.Upsert(ctx, inventory); err != nil {
		s.logger.Error("Failed to update inventory", err)
		return nil, err
	}

	s.publishEvent(ctx, "product.updated", productID)

	return inventory, nil
}

// AttachAttributeValues links attribute values to a product
func (s *Service) AttachAttributeValues(ctx context.Context, productID int64, valueIDs []int64) error {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return err
	}

	if err := s.repo.AddAttributeValues(ctx, productID, valueIDs); err != nil {
		s.logger.Error("Failed to attach attribute values", err)
		return err
	}

	s.publishEvent(ctx, "product.updated", productID)

	return nil
}

// publishEvent publishes a catalog event, logging but not failing on error
func (s *Service) publishEvent(ctx context.Context, eventType string, productID int64) {
	event := CatalogEvent{
		EventType: eventType,
		Timestamp: time.Now(),
		ProductID: productID,
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal catalog event", err)
		return
	}

	if err := s.publisher.Publish(ctx, Subject, data); err != nil {
		s.logger.Warnf("Failed to publish %s event for product %d: %v", eventType, productID, err)
	}
}
