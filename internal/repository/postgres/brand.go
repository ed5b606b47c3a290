package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/product_catalog/internal/domain"
)

// BrandRepository implements domain.BrandRepository for PostgreSQL
type BrandRepository struct {
	db *sqlx.DB
}

// NewBrandRepository creates a new PostgreSQL brand repository
func NewBrandRepository(db *sqlx.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

const brandColumns = `id, public_id, name, slug, is_active, created_at, updated_at, deleted_at`

// Create creates a new brand
func (r *BrandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	query := `
		INSERT INTO brands (public_id, name, slug, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()
	brand.CreatedAt = now
	brand.UpdatedAt = now

	err := r.db.QueryRowxContext(
		ctx,
		query,
		brand.PublicID,
		brand.Name,
		brand.Slug,
		brand.IsActive,
		brand.CreatedAt,
		brand.UpdatedAt,
	).Scan(&brand.ID, &brand.CreatedAt, &brand.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}

	return nil
}

// GetByID retrieves a brand by ID
func (r *BrandRepository) GetByID(ctx context.Context, id int64) (*domain.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands WHERE id = $1 AND deleted_at IS NULL`

	var brand domain.Brand
	err := r.db.GetContext(ctx, &brand, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &brand, nil
}

// GetByPublicID retrieves a brand by its public UUID
func (r *BrandRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands WHERE public_id = $1 AND deleted_at IS NULL`

	var brand domain.Brand
	err := r.db.GetContext(ctx, &brand, query, publicID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &brand, nil
}

// GetBySlug retrieves a brand by slug
func (r *BrandRepository) GetBySlug(ctx context.Context, slug string) (*domain.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands WHERE slug = $1 AND deleted_at IS NULL`

	var brand domain.Brand
	err := r.db.GetContext(ctx, &brand, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &brand, nil
}

// List retrieves a paginated list of brands
func (r *BrandRepository) List(ctx context.Context, limit, offset int) ([]*domain.Brand, error) {
	query := `
		SELECT ` + brandColumns + `
		FROM brands
		WHERE deleted_at IS NULL
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	var brands []*domain.Brand
	err := r.db.SelectContext(ctx, &brands, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return brands, nil
}

// Count returns the total number of brands
func (r *BrandRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM brands WHERE deleted_at IS NULL`

	var count int
	err := r.db.GetContext(ctx, &count, query)
	if err != nil {
		return 0, err
	}

	return count, nil
}
