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

// ProductRepository implements domain.ProductRepository for PostgreSQL
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new PostgreSQL product repository
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `
	id, public_id, sku, name, description, long_description, base_price, currency,
	weight_kg, length_cm, width_cm, height_cm, rating, rating_count,
	is_active, is_available, brand_id, primary_category_id, version,
	created_at, updated_at, deleted_at
`

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (
			public_id, sku, name, description, long_description, base_price, currency,
			weight_kg, length_cm, width_cm, height_cm, is_active, is_available,
			brand_id, primary_category_id, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, rating, rating_count, version, created_at, updated_at
	`

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	err := r.db.QueryRowxContext(
		ctx,
		query,
		product.PublicID,
		product.SKU,
		product.Name,
		product.Description,
		product.LongDescription,
		product.BasePrice,
		product.Currency,
		product.WeightKg,
		product.LengthCm,
		product.WidthCm,
		product.HeightCm,
		product.IsActive,
		product.IsAvailable,
		product.BrandID,
		product.PrimaryCategoryID,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(
		&product.ID,
		&product.Rating,
		&product.RatingCount,
		&product.Version,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}

	return nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL`

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &product, nil
}

// GetByPublicID retrieves a product by its public UUID
func (r *ProductRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE public_id = $1 AND deleted_at IS NULL`

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, publicID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &product, nil
}

// GetBySku retrieves a product by SKU
func (r *ProductRepository) GetBySku(ctx context.Context, sku string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1 AND deleted_at IS NULL`

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &product, nil
}

// List retrieves a paginated list of products
func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	var products []*domain.Product
	err := r.db.SelectContext(ctx, &products, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return products, nil
}

// Count returns the total number of products
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM products WHERE deleted_at IS NULL`

	var count int
	err := r.db.GetContext(ctx, &count, query)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Update updates an existing product with optimistic version check
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, long_description = $3, base_price = $4,
			currency = $5, weight_kg = $6, length_cm = $7, width_cm = $8, height_cm = $9,
			is_active = $10, is_available = $11, updated_at = $12, version = version + 1
		WHERE id = $13 AND deleted_at IS NULL AND version = $14
		RETURNING version, updated_at
	`

	product.UpdatedAt = time.Now()
	oldVersion := product.Version

	err := r.db.QueryRowxContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.LongDescription,
		product.BasePrice,
		product.Currency,
		product.WeightKg,
		product.LengthCm,
		product.WidthCm,
		product.HeightCm,
		product.IsActive,
		product.IsAvailable,
		product.UpdatedAt,
		product.ID,
		oldVersion,
	).Scan(&product.Version, &product.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrConflict
		}
		return err
	}

	return nil
}

// Delete soft-deletes a product
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	query := `
		UPDATE products
		SET deleted_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// ApplyRating folds a new grade into the running average and increments
// rating_count in one statement. Computing the average inside the
// UPDATE makes concurrent submissions serialize on the row lock, so no
// grade is ever lost even across service instances. The rounding
// expression must stay in sync with catalog.UpdateRating.
func (r *ProductRepository) ApplyRating(ctx context.Context, id int64, grade int) (float64, error) {
	query := `
		UPDATE products
		SET rating = round(((rating * rating_count + $1) / (rating_count + 1))::numeric, 2),
		    rating_count = rating_count + 1,
		    updated_at = $2,
		    version = version + 1
		WHERE id = $3 AND deleted_at IS NULL
		RETURNING rating
	`

	var rating float64
	err := r.db.GetContext(ctx, &rating, query, grade, time.Now(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}

	return rating, nil
}

// AddCategories links secondary categories to a product
func (r *ProductRepository) AddCategories(ctx context.Context, productID int64, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO product_categories (product_id, category_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, categoryID := range categoryIDs {
		if _, err := tx.ExecContext(ctx, query, productID, categoryID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// AddCustomAttributes attaches free-form name/value pairs to a product
func (r *ProductRepository) AddCustomAttributes(ctx context.Context, productID int64, attrs []*domain.CustomAttribute) error {
	if len(attrs) == 0 {
		return nil
	}

	query := `
		INSERT INTO custom_attributes (product_id, name, value)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, attr := range attrs {
		attr.ProductID = productID
		if err := tx.QueryRowxContext(ctx, query, productID, attr.Name, attr.Value).Scan(&attr.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// AddAttributeValues links attribute values to a product
func (r *ProductRepository) AddAttributeValues(ctx context.Context, productID int64, valueIDs []int64) error {
	if len(valueIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO product_attribute_values (product_id, attribute_value_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, valueID := range valueIDs {
		if _, err := tx.ExecContext(ctx, query, productID, valueID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetAggregate loads a product with all relations needed to build a
// search document: brand, primary category chain, secondary categories,
// attribute values and custom attributes.
func (r *ProductRepository) GetAggregate(ctx context.Context, id int64) (*domain.ProductAggregate, error) {
	product, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var brand domain.Brand
	brandQuery := `
		SELECT id, public_id, name, slug, is_active, created_at, updated_at, deleted_at
		FROM brands WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &brand, brandQuery, product.BrandID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	primary, err := r.loadCategoryChain(ctx, product.PrimaryCategoryID)
	if err != nil {
		return nil, err
	}

	var categories []*domain.Category
	categoriesQuery := `
		SELECT c.id, c.public_id, c.name, c.slug, c.parent_id, c.created_at, c.updated_at, c.deleted_at
		FROM categories c
		JOIN product_categories pc ON pc.category_id = c.id
		WHERE pc.product_id = $1 AND c.deleted_at IS NULL
		ORDER BY c.id
	`
	if err := r.db.SelectContext(ctx, &categories, categoriesQuery, id); err != nil {
		return nil, err
	}

	var attributeValues []*domain.ProductAttributeValue
	attributesQuery := `
		SELECT
			a.id AS attribute_id,
			a.public_id AS attribute_public_id,
			a.name AS attribute_name,
			a.slug AS attribute_slug,
			a.filterable,
			a.is_active AS attribute_active,
			av.id AS value_id,
			av.public_id AS value_public_id,
			av.value,
			av.slug AS value_slug
		FROM product_attribute_values pav
		JOIN attribute_values av ON av.id = pav.attribute_value_id
		JOIN attributes a ON a.id = av.attribute_id
		WHERE pav.product_id = $1
		ORDER BY pav.id
	`
	if err := r.db.SelectContext(ctx, &attributeValues, attributesQuery, id); err != nil {
		return nil, err
	}

	var customAttributes []*domain.CustomAttribute
	customQuery := `
		SELECT id, product_id, name, value
		FROM custom_attributes
		WHERE product_id = $1
		ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &customAttributes, customQuery, id); err != nil {
		return nil, err
	}

	return &domain.ProductAggregate{
		Product:          product,
		Brand:            &brand,
		PrimaryCategory:  primary,
		Categories:       categories,
		AttributeValues:  attributeValues,
		CustomAttributes: customAttributes,
	}, nil
}

// loadCategoryChain fetches a category and its ancestors in one
// recursive query and links them leaf to root in memory.
func (r *ProductRepository) loadCategoryChain(ctx context.Context, id int64) (*domain.Category, error) {
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
