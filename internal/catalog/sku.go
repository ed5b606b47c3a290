package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
)

// Sequence supplies monotonically increasing numbers for SKU codes.
// Implementations must never return the same value twice.
type Sequence interface {
	Next(ctx context.Context) (int64, error)
}

// memorySequence is a process-local atomic counter. Numbering restarts
// when the process restarts, so production wiring should use a
// database-backed Sequence instead.
type memorySequence struct {
	counter atomic.Int64
}

// NewMemorySequence creates an in-memory sequence starting at start
func NewMemorySequence(start int64) Sequence {
	seq := &memorySequence{}
	seq.counter.Store(start)
	return seq
}

func (s *memorySequence) Next(_ context.Context) (int64, error) {
	return s.counter.Add(1) - 1, nil
}

// SkuGenerator produces unique stock-keeping-unit codes of the form
// CAT-BRA-1000: the first three characters of the category and brand
// slugs uppercased, plus a zero-padded sequence number.
type SkuGenerator struct {
	seq Sequence
}

// NewSkuGenerator creates a SKU generator backed by the given sequence
func NewSkuGenerator(seq Sequence) *SkuGenerator {
	return &SkuGenerator{seq: seq}
}

// DefaultSkuStart is the first number issued by a fresh in-memory sequence
const DefaultSkuStart = 1000

// NewDefaultSkuGenerator creates a SKU generator with a process-local
// counter starting at DefaultSkuStart
func NewDefaultSkuGenerator() *SkuGenerator {
	return NewSkuGenerator(NewMemorySequence(DefaultSkuStart))
}

// Generate returns a new SKU for the given category and brand slugs.
// Both slugs must be at least 3 characters long. Prefixes are cut at
// character boundaries, so non-ASCII slugs never produce a broken code.
func (g *SkuGenerator) Generate(ctx context.Context, categorySlug, brandSlug string) (string, error) {
	catRunes := []rune(categorySlug)
	brandRunes := []rune(brandSlug)
	if len(catRunes) < 3 || len(brandRunes) < 3 {
		return "", fmt.Errorf("%w: category %q, brand %q", ErrInvalidSlug, categorySlug, brandSlug)
	}

	num, err := g.seq.Next(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to advance sku sequence: %w", err)
	}

	catCode := strings.ToUpper(string(catRunes[:3]))
	brandCode := strings.ToUpper(string(brandRunes[:3]))

	return fmt.Sprintf("%s-%s-%04d", catCode, brandCode, num), nil
}
