package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog product
type Product struct {
	ID                int64      `json:"id" db:"id"`
	PublicID          uuid.UUID  `json:"public_id" db:"public_id"`
	SKU               string     `json:"sku" db:"sku"`
	Name              string     `json:"name" db:"name" validate:"required,min=1,max=255"`
	Description       *string    `json:"description,omitempty" db:"description"`
	LongDescription   *string    `json:"long_description,omitempty" db:"long_description"`
	BasePrice         float64    `json:"base_price" db:"base_price" validate:"gte=0"`
	Currency          string     `json:"currency" db:"currency" validate:"required,len=3"`
	WeightKg          *float64   `json:"weight_kg,omitempty" db:"weight_kg"`
	LengthCm          *float64   `json:"length_cm,omitempty" db:"length_cm"`
	WidthCm           *float64   `json:"width_cm,omitempty" db:"width_cm"`
	HeightCm          *float64   `json:"height_cm,omitempty" db:"height_cm"`
	Rating            float64    `json:"rating" db:"rating"`
	RatingCount       int64      `json:"rating_count" db:"rating_count"`
	IsActive          bool       `json:"is_active" db:"is_active"`
	IsAvailable       bool       `json:"is_available" db:"is_available"`
	BrandID           int64      `json:"brand_id" db:"brand_id"`
	PrimaryCategoryID int64      `json:"primary_category_id" db:"primary_category_id"`
	Version           int        `json:"version" db:"version"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// CustomAttribute is a free-form name/value pair attached to a product
type CustomAttribute struct {
	ID        int64  `json:"id" db:"id"`
	ProductID int64  `json:"product_id" db:"product_id"`
	Name      string `json:"name" db:"name" validate:"required,min=1,max=100"`
	Value     string `json:"value" db:"value" validate:"required,min=1,max=255"`
}

// ProductAttributeValue is a denormalized (attribute, attribute value) pair
// as joined for a product. Attribute-level and value-level fields are kept
// flat so a single SQL join row maps onto it.
type ProductAttributeValue struct {
	AttributeID       int64     `json:"attribute_id" db:"attribute_id"`
	AttributePublicID uuid.UUID `json:"attribute_public_id" db:"attribute_public_id"`
	AttributeName     string    `json:"attribute_name" db:"attribute_name"`
	AttributeSlug     string    `json:"attribute_slug" db:"attribute_slug"`
	Filterable        bool      `json:"filterable" db:"filterable"`
	AttributeActive   bool      `json:"attribute_active" db:"attribute_active"`
	ValueID           int64     `json:"value_id" db:"value_id"`
	ValuePublicID     uuid.UUID `json:"value_public_id" db:"value_public_id"`
	Value             string    `json:"value" db:"value"`
	ValueSlug         string    `json:"value_slug" db:"value_slug"`
}

// ProductAggregate bundles a product with its loaded relations.
// The primary category carries its full parent chain so the search
// document builder can walk it without touching the database.
type ProductAggregate struct {
	Product          *Product
	Brand            *Brand
	PrimaryCategory  *Category
	Categories       []*Category
	AttributeValues  []*ProductAttributeValue
	CustomAttributes []*CustomAttribute
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *Product) error

	// GetByID retrieves a product by ID (excludes soft-deleted)
	GetByID(ctx context.Context, id int64) (*Product, error)

	// GetByPublicID retrieves a product by its public UUID
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*Product, error)

	// GetBySku retrieves a product by SKU
	GetBySku(ctx context.Context, sku string) (*Product, error)

	// List retrieves a paginated list of products (excludes soft-deleted)
	List(ctx context.Context, limit, offset int) ([]*Product, error)

	// Count returns the total number of products (excludes soft-deleted)
	Count(ctx context.Context) (int, error)

	// Update updates an existing product with optimistic version check
	Update(ctx context.Context, product *Product) error

	// Delete soft-deletes a product
	Delete(ctx context.Context, id int64) error

	// ApplyRating folds a new grade into the product's running average
	// and increments rating_count, returning the resulting rating. The
	// fold must happen atomically in storage so concurrent submissions
	// from any number of instances cannot lose a grade.
	ApplyRating(ctx context.Context, id int64, grade int) (float64, error)

	// AddCategories links secondary categories to a product
	AddCategories(ctx context.Context, productID int64, categoryIDs []int64) error

	// AddCustomAttributes attaches free-form name/value pairs to a product
	AddCustomAttributes(ctx context.Context, productID int64, attrs []*CustomAttribute) error

	// AddAttributeValues links attribute values to a product
	AddAttributeValues(ctx context.Context, productID int64, valueIDs []int64) error

	// GetAggregate loads the product with brand, category chain,
	// secondary categories, attribute values and custom attributes
	GetAggregate(ctx context.Context, id int64) (*ProductAggregate, error)
}
