package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/product_catalog/internal/domain"
)

// FeedbackRepository implements domain.FeedbackRepository for PostgreSQL
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository creates a new PostgreSQL feedback repository
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

const feedbackColumns = `id, public_id, product_id, user_public_id, estimation, comment, created_at, updated_at, deleted_at`

// Create creates a new feedback entry
func (r *FeedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	// Return domain.ErrNotFound instead of a cryptic foreign key violation
	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND deleted_at IS NULL)`
	err := r.db.GetContext(ctx, &exists, checkQuery, feedback.ProductID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}

	query := `
		INSERT INTO feedback (public_id, product_id, user_public_id, estimation, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRowxContext(
		ctx,
		query,
		feedback.PublicID,
		feedback.ProductID,
		feedback.UserPublicID,
		feedback.Estimation,
		feedback.Comment,
	).Scan(&feedback.ID, &feedback.CreatedAt, &feedback.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}

	return nil
}

// GetByPublicID retrieves a feedback entry by its public UUID
func (r *FeedbackRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE public_id = $1 AND deleted_at IS NULL`

	var feedback domain.Feedback
	err := r.db.GetContext(ctx, &feedback, query, publicID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &feedback, nil
}

// ExistsByProductAndUser reports whether the user already left feedback
// for the product
func (r *FeedbackRepository) ExistsByProductAndUser(ctx context.Context, productID int64, userPublicID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM feedback
			WHERE product_id = $1 AND user_public_id = $2 AND deleted_at IS NULL
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, productID, userPublicID)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// ListByProduct retrieves feedback for a product with pagination
func (r *FeedbackRepository) ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*domain.Feedback, error) {
	query := `
		SELECT ` + feedbackColumns + `
		FROM feedback
		WHERE product_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var entries []*domain.Feedback
	err := r.db.SelectContext(ctx, &entries, query, productID, limit, offset)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// CountByProduct returns the total number of feedback entries for a product
func (r *FeedbackRepository) CountByProduct(ctx context.Context, productID int64) (int, error) {
	query := `SELECT COUNT(*) FROM feedback WHERE product_id = $1 AND deleted_at IS NULL`

	var count int
	err := r.db.GetContext(ctx, &count, query, productID)
	if err != nil {
		return 0, err
	}

	return count, nil
}
