package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SkuSequence implements catalog.Sequence on top of a PostgreSQL
// sequence, so SKU numbering survives process restarts and never reuses
// a number across instances.
type SkuSequence struct {
	db *sqlx.DB
}

// NewSkuSequence creates a database-backed SKU sequence
func NewSkuSequence(db *sqlx.DB) *SkuSequence {
	return &SkuSequence{db: db}
}

// Next returns the next value of the sku_seq sequence
func (s *SkuSequence) Next(ctx context.Context) (int64, error) {
	var next int64
	err := s.db.GetContext(ctx, &next, `SELECT nextval('sku_seq')`)
	if err != nil {
		return 0, fmt.Errorf("failed to advance sku sequence: %w", err)
	}
	return next, nil
}
