package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Pesokrava/product_catalog/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository for PostgreSQL
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new PostgreSQL category repository
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, public_id, name, slug, parent_id, created_at, updated_at, deleted_at`

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (public_id, name, slug, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	err := r.db.QueryRowxContext(
		ctx,
		query,
		category.PublicID,
		category.Name,
		category.Slug,
		category.ParentID,
		category.CreatedAt,
		category.UpdatedAt,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}

	return nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND deleted_at IS NULL`

	var category domain.Category
	err := r.db.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &category, nil
}

// GetByPublicID retrieves a category by its public UUID
func (r *CategoryRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE public_id = $1 AND deleted_at IS NULL`

	var category domain.Category
	err := r.db.GetContext(ctx, &category, query, publicID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &category, nil
}

// GetByPublicIDs retrieves categories for a set of public UUIDs.
// Returns domain.ErrNotFound when any requested category is missing.
func (r *CategoryRepository) GetByPublicIDs(ctx context.Context, publicIDs []uuid.UUID) ([]*domain.Category, error) {
	if len(publicIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(publicIDs))
	for i, id := range publicIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE public_id = ANY($1) AND deleted_at IS NULL
		ORDER BY id
	`

	var categories []*domain.Category
	err := r.db.SelectContext(ctx, &categories, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	if len(categories) != len(publicIDs) {
		return nil, domain.ErrNotFound
	}

	return categories, nil
}

// GetChain retrieves a category with its parent chain populated up to the root
func (r *CategoryRepository) GetChain(ctx context.Context, id int64) (*domain.Category, error) {
	query := `
		WITH RECURSIVE chain AS (
			SELECT id, public_id, name, slug, parent_id, created_at, updated_at, deleted_at, 0 AS depth
			FROM categories
			WHERE id = $1 AND deleted_at IS NULL
			UNION ALL
			SELECT c.id, c.public_id, c.name, c.slug, c.parent_id, c.created_at, c.updated_at, c.deleted_at, chain.depth + 1
			FROM categories c
			JOIN chain ON c.id = chain.parent_id
			WHERE chain.depth < 32
		)
		SELECT id, public_id, name, slug, parent_id, created_at, updated_at, deleted_at
		FROM chain
		ORDER BY depth
	`

	var rows []*domain.Category
	if err := r.db.SelectContext(ctx, &rows, query, id); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}

	for i := 0; i < len(rows)-1; i++ {
		rows[i].Parent = rows[i+1]
	}

	return rows[0], nil
}

// List retrieves a paginated list of categories
func (r *CategoryRepository) List(ctx context.Context, limit, offset int) ([]*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE deleted_at IS NULL
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	var categories []*domain.Category
	err := r.db.SelectContext(ctx, &categories, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// Count returns the total number of categories
func (r *CategoryRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM categories WHERE deleted_at IS NULL`

	var count int
	err := r.db.GetContext(ctx, &count, query)
	if err != nil {
		return 0, err
	}

	return count, nil
}
