package searchindex

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Pesokrava/product_catalog/internal/catalog"
	"github.com/Pesokrava/product_catalog/internal/domain"
)

// Store is the sink for search documents. The indexer worker writes a
// fresh document on every rebuild; an Elasticsearch-backed
// implementation can replace the Redis one without touching the
// document contract.
type Store interface {
	// Index stores the search document for a product
	Index(ctx context.Context, doc *catalog.SearchDocument) error

	// Get retrieves the stored document for a product
	Get(ctx context.Context, productID int64) (*catalog.SearchDocument, error)

	// Delete removes a product's document from the index
	Delete(ctx context.Context, productID int64) error
}

const indexedSetKey = "search:products"

// RedisStore implements Store on Redis: one JSON document per product
// plus a set of indexed product ids.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed search document store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) documentKey(productID int64) string {
	return fmt.Sprintf("search:product:%d", productID)
}

// Index stores the serialized document and registers the product id
func (s *RedisStore) Index(ctx context.Context, doc *catalog.SearchDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal search document: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.documentKey(doc.ID), data, 0)
	pipe.SAdd(ctx, indexedSetKey, doc.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}

	return nil
}

// Get retrieves the stored document for a product
func (s *RedisStore) Get(ctx context.Context, productID int64) (*catalog.SearchDocument, error) {
	val, err := s.client.Get(ctx, s.documentKey(productID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var doc catalog.SearchDocument
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Delete removes a product's document and its id from the indexed set
func (s *RedisStore) Delete(ctx context.Context, productID int64) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.documentKey(productID))
	pipe.SRem(ctx, indexedSetKey, productID)
	_, err := pipe.Exec(ctx)
	return err
}
