package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Feedback represents a user's rating of a product. A user can leave
// at most one feedback per product.
type Feedback struct {
	ID           int64      `json:"id" db:"id"`
	PublicID     uuid.UUID  `json:"public_id" db:"public_id"`
	ProductID    int64      `json:"product_id" db:"product_id" validate:"required"`
	UserPublicID uuid.UUID  `json:"user_public_id" db:"user_public_id" validate:"required"`
	Estimation   int        `json:"estimation" db:"estimation" validate:"required,min=1,max=5"`
	Comment      *string    `json:"comment,omitempty" db:"comment"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// FeedbackRepository defines the interface for feedback data access
type FeedbackRepository interface {
	// Create creates a new feedback entry
	Create(ctx context.Context, feedback *Feedback) error

	// GetByPublicID retrieves a feedback entry by its public UUID
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*Feedback, error)

	// ExistsByProductAndUser reports whether the user already left
	// feedback for the product
	ExistsByProductAndUser(ctx context.Context, productID int64, userPublicID uuid.UUID) (bool, error)

	// ListByProduct retrieves feedback for a product with pagination
	ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*Feedback, error)

	// CountByProduct returns the total number of feedback entries for a product
	CountByProduct(ctx context.Context, productID int64) (int, error)
}
