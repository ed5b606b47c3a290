package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Brand represents a product brand
type Brand struct {
	ID        int64      `json:"id" db:"id"`
	PublicID  uuid.UUID  `json:"public_id" db:"public_id"`
	Name      string     `json:"name" db:"name" validate:"required,min=1,max=255"`
	Slug      string     `json:"slug" db:"slug"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// BrandRepository defines the interface for brand data access
type BrandRepository interface {
	// Create creates a new brand
	Create(ctx context.Context, brand *Brand) error

	// GetByID retrieves a brand by ID (excludes soft-deleted)
	GetByID(ctx context.Context, id int64) (*Brand, error)

	// GetByPublicID retrieves a brand by its public UUID
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*Brand, error)

	// GetBySlug retrieves a brand by slug
	GetBySlug(ctx context.Context, slug string) (*Brand, error)

	// List retrieves a paginated list of brands (excludes soft-deleted)
	List(ctx context.Context, limit, offset int) ([]*Brand, error)

	// Count returns the total number of brands (excludes soft-deleted)
	Count(ctx context.Context) (int, error)
}
