package catalog

import (
	"strings"

	"github.com/Pesokrava/product_catalog/internal/domain"
)

// maxCategoryDepth bounds the ancestor walk. The category tree invariant
// forbids cycles, but a data bug must fail the build, not loop forever.
const maxCategoryDepth = 32

// SearchDocument is the flattened, denormalized projection of a product
// aggregate for the search index. It is produced fresh on every rebuild
// and has no lifecycle of its own.
type SearchDocument struct {
	ID               int64                 `json:"id"`
	Version          int                   `json:"version"`
	PublicID         string                `json:"public_id"`
	SKU              string                `json:"sku"`
	Name             string                `json:"name"`
	Description      *string               `json:"description,omitempty"`
	LongDescription  *string               `json:"long_description,omitempty"`
	Brand            BrandDoc              `json:"brand"`
	PrimaryCategory  PrimaryCategoryDoc    `json:"primary_category"`
	Categories       []CategoryDoc         `json:"categories"`
	Attributes       []ProductAttributeDoc `json:"attributes"`
	CustomAttributes []CustomAttributeDoc  `json:"custom_attributes"`
	Rating           float64               `json:"rating"`
	BasePrice        float64               `json:"base_price"`
	Currency         string                `json:"currency"`
	RatingCount      int64                 `json:"rating_count"`
	IsActive         bool                  `json:"is_active"`
	IsAvailable      bool                  `json:"is_available"`
	Inventory        *InventoryDoc         `json:"inventory,omitempty"`
	Suggest          SuggestDoc            `json:"suggest"`
	SearchText       string                `json:"search_text"`
}

// BrandDoc is the brand sub-document
type BrandDoc struct {
	ID       int64  `json:"id"`
	PublicID string `json:"public_id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	IsActive bool   `json:"is_active"`
}

// PrimaryCategoryDoc carries the product's primary category together
// with its ancestor path ordered root to leaf
type PrimaryCategoryDoc struct {
	ID        int64    `json:"id"`
	PublicID  string   `json:"public_id"`
	Name      string   `json:"name"`
	PathIDs   []int64  `json:"path_ids"`
	PathSlugs []string `json:"path_slugs"`
}

// CategoryDoc is a flat secondary-category sub-document
type CategoryDoc struct {
	ID       int64  `json:"id"`
	PublicID string `json:"public_id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// ProductAttributeDoc flattens an (attribute, value) pair
type ProductAttributeDoc struct {
	AttributeID       int64  `json:"attribute_id"`
	AttributePublicID string `json:"attribute_public_id"`
	AttributeName     string `json:"attribute_name"`
	AttributeSlug     string `json:"attribute_slug"`
	ValueID           int64  `json:"value_id"`
	ValuePublicID     string `json:"value_public_id"`
	Value             string `json:"value"`
	ValueSlug         string `json:"value_slug"`
	Filterable        bool   `json:"filterable"`
	IsActive          bool   `json:"is_active"`
}

// CustomAttributeDoc is a verbatim name/value pair
type CustomAttributeDoc struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// InventoryDoc is the derived stock state
type InventoryDoc struct {
	Quantity int  `json:"quantity"`
	InStock  bool `json:"in_stock"`
	LowStock bool `json:"low_stock"`
}

// SuggestDoc holds auto-suggest completion inputs
type SuggestDoc struct {
	Name  []string `json:"name"`
	Brand []string `json:"brand"`
}

// BuildDocument assembles a search document from a product aggregate and
// an optional inventory snapshot. Pure transform, no I/O: the same
// aggregate always yields an identical document. Returns
// ErrIncompleteAggregate if the brand or primary category is missing and
// ErrCategoryDepth if the category parent chain exceeds maxCategoryDepth.
func BuildDocument(agg *domain.ProductAggregate, inv *domain.Inventory) (*SearchDocument, error) {
	if agg == nil || agg.Product == nil || agg.Brand == nil || agg.PrimaryCategory == nil {
		return nil, ErrIncompleteAggregate
	}

	product := agg.Product

	primary, err := toPrimaryCategoryDoc(agg.PrimaryCategory)
	if err != nil {
		return nil, err
	}

	categories := make([]CategoryDoc, 0, len(agg.Categories))
	for _, c := range agg.Categories {
		categories = append(categories, toCategoryDoc(c))
	}

	attributes := make([]ProductAttributeDoc, 0, len(agg.AttributeValues))
	for _, pav := range agg.AttributeValues {
		attributes = append(attributes, toAttributeDoc(pav))
	}

	customAttributes := make([]CustomAttributeDoc, 0, len(agg.CustomAttributes))
	for _, custom := range agg.CustomAttributes {
		customAttributes = append(customAttributes, CustomAttributeDoc{
			Name:  custom.Name,
			Value: custom.Value,
		})
	}

	var inventory *InventoryDoc
	if inv != nil {
		inventory = &InventoryDoc{
			Quantity: inv.Quantity,
			InStock:  inv.InStock(),
			LowStock: inv.LowStock(),
		}
	}

	return &SearchDocument{
		ID:               product.ID,
		Version:          product.Version,
		PublicID:         product.PublicID.String(),
		SKU:              product.SKU,
		Name:             product.Name,
		Description:      product.Description,
		LongDescription:  product.LongDescription,
		Brand:            toBrandDoc(agg.Brand),
		PrimaryCategory:  primary,
		Categories:       categories,
		Attributes:       attributes,
		CustomAttributes: customAttributes,
		Rating:           product.Rating,
		BasePrice:        product.BasePrice,
		Currency:         product.Currency,
		RatingCount:      product.RatingCount,
		IsActive:         product.IsActive,
		IsAvailable:      product.IsAvailable,
		Inventory:        inventory,
		Suggest: SuggestDoc{
			Name:  []string{product.Name},
			Brand: []string{agg.Brand.Name},
		},
		SearchText: buildSearchText(product, agg.Brand, agg.PrimaryCategory, categories, attributes),
	}, nil
}

func toBrandDoc(b *domain.Brand) BrandDoc {
	return BrandDoc{
		ID:       b.ID,
		PublicID: b.PublicID.String(),
		Name:     b.Name,
		Slug:     b.Slug,
		IsActive: b.IsActive,
	}
}

// toPrimaryCategoryDoc walks parent pointers upward collecting ids and
// slugs, then reverses both lists so the path reads root to leaf.
func toPrimaryCategoryDoc(c *domain.Category) (PrimaryCategoryDoc, error) {
	var pathIDs []int64
	var pathSlugs []string

	depth := 0
	for cur := c; cur != nil; cur = cur.Parent {
		depth++
		if depth > maxCategoryDepth {
			return PrimaryCategoryDoc{}, ErrCategoryDepth
		}
		pathIDs = append(pathIDs, cur.ID)
		if cur.Slug != "" {
			pathSlugs = append(pathSlugs, cur.Slug)
		}
	}

	reverse(pathIDs)
	reverse(pathSlugs)

	return PrimaryCategoryDoc{
		ID:        c.ID,
		PublicID:  c.PublicID.String(),
		Name:      c.Name,
		PathIDs:   pathIDs,
		PathSlugs: pathSlugs,
	}, nil
}

func toCategoryDoc(c *domain.Category) CategoryDoc {
	return CategoryDoc{
		ID:       c.ID,
		PublicID: c.PublicID.String(),
		Name:     c.Name,
		Slug:     c.Slug,
		ParentID: c.ParentID,
	}
}

func toAttributeDoc(pav *domain.ProductAttributeValue) ProductAttributeDoc {
	return ProductAttributeDoc{
		AttributeID:       pav.AttributeID,
		AttributePublicID: pav.AttributePublicID.String(),
		AttributeName:     pav.AttributeName,
		AttributeSlug:     pav.AttributeSlug,
		ValueID:           pav.ValueID,
		ValuePublicID:     pav.ValuePublicID.String(),
		Value:             pav.Value,
		ValueSlug:         pav.ValueSlug,
		Filterable:        pav.Filterable,
		IsActive:          pav.AttributeActive,
	}
}

// buildSearchText joins the searchable text fields in a fixed order:
// product name, descriptions, brand name, primary category name,
// secondary category names, then attribute names. Nil fields are skipped.
func buildSearchText(product *domain.Product, brand *domain.Brand, primary *domain.Category, categories []CategoryDoc, attributes []ProductAttributeDoc) string {
	parts := []string{product.Name}
	if product.Description != nil {
		parts = append(parts, *product.Description)
	}
	if product.LongDescription != nil {
		parts = append(parts, *product.LongDescription)
	}
	parts = append(parts, brand.Name, primary.Name)
	for _, c := range categories {
		parts = append(parts, c.Name)
	}
	for _, a := range attributes {
		parts = append(parts, a.AttributeName)
	}
	return strings.Join(parts, " ")
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
