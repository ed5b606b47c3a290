package catalog

import "errors"

var (
	// ErrInvalidSlug is returned when a slug passed to SKU generation
	// is shorter than the 3 characters needed for a code prefix
	ErrInvalidSlug = errors.New("slug must be at least 3 characters")

	// ErrIncompleteAggregate is returned when a product aggregate is
	// missing its brand or primary category
	ErrIncompleteAggregate = errors.New("product aggregate missing brand or primary category")

	// ErrCategoryDepth is returned when the category parent chain
	// exceeds the maximum depth, which indicates a cycle in the data
	ErrCategoryDepth = errors.New("category parent chain exceeds maximum depth")
)
