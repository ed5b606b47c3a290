package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Category represents a node in the category tree. Parent is only
// populated when the chain is loaded explicitly (see GetChain).
type Category struct {
	ID        int64      `json:"id" db:"id"`
	PublicID  uuid.UUID  `json:"public_id" db:"public_id"`
	Name      string     `json:"name" db:"name" validate:"required,min=1,max=255"`
	Slug      string     `json:"slug" db:"slug"`
	ParentID  *int64     `json:"parent_id,omitempty" db:"parent_id"`
	Parent    *Category  `json:"-" db:"-"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// Create creates a new category
	Create(ctx context.Context, category *Category) error

	// GetByID retrieves a category by ID (excludes soft-deleted)
	GetByID(ctx context.Context, id int64) (*Category, error)

	// GetByPublicID retrieves a category by its public UUID
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*Category, error)

	// GetByPublicIDs retrieves categories for a set of public UUIDs
	GetByPublicIDs(ctx context.Context, publicIDs []uuid.UUID) ([]*Category, error)

	// GetChain retrieves a category with its parent chain populated
	// up to the root
	GetChain(ctx context.Context, id int64) (*Category, error)

	// List retrieves a paginated list of categories (excludes soft-deleted)
	List(ctx context.Context, limit, offset int) ([]*Category, error)

	// Count returns the total number of categories (excludes soft-deleted)
	Count(ctx context.Context) (int, error)
}
