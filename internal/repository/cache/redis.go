package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Pesokrava/product_catalog/internal/domain"
)

// RedisCache implements caching for products and feedback lists
type RedisCache struct {
	client          *redis.Client
	productTTL      time.Duration
	feedbackListTTL time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(client *redis.Client, productTTL, feedbackListTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:          client,
		productTTL:      productTTL,
		feedbackListTTL: feedbackListTTL,
	}
}

// Product cache keys and methods

func (c *RedisCache) productKey(productID int64) string {
	return fmt.Sprintf("product:%d", productID)
}

// GetProduct retrieves a cached product
func (c *RedisCache) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	key := c.productKey(productID)
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var product domain.Product
	if err := json.Unmarshal([]byte(val), &product); err != nil {
		return nil, err
	}

	return &product, nil
}

// SetProduct stores a product in cache
func (c *RedisCache) SetProduct(ctx context.Context, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.productKey(product.ID), data, c.productTTL).Err()
}

// InvalidateProduct removes a product from cache
func (c *RedisCache) InvalidateProduct(ctx context.Context, productID int64) error {
	return c.client.Del(ctx, c.productKey(productID)).Err()
}

// Feedback list cache keys and methods

func (c *RedisCache) feedbackListKey(productID int64, limit, offset int) string {
	return fmt.Sprintf("product:%d:feedback:limit:%d:offset:%d", productID, limit, offset)
}

func (c *RedisCache) productCacheKeysSet(productID int64) string {
	return fmt.Sprintf("product:%d:cache_keys", productID)
}

// GetFeedbackList retrieves a cached feedback page for a product
func (c *RedisCache) GetFeedbackList(ctx context.Context, productID int64, limit, offset int) ([]*domain.Feedback, error) {
	key := c.feedbackListKey(productID, limit, offset)
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var entries []*domain.Feedback
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// SetFeedbackList stores a feedback page in cache and tracks the key in a SET
func (c *RedisCache) SetFeedbackList(ctx context.Context, productID int64, limit, offset int, entries []*domain.Feedback) error {
	key := c.feedbackListKey(productID, limit, offset)
	trackingKey := c.productCacheKeysSet(productID)

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, c.feedbackListTTL)
	pipe.SAdd(ctx, trackingKey, key)
	pipe.Expire(ctx, trackingKey, c.feedbackListTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateFeedbackList removes all cached feedback pages for a product
// using SET-based key tracking
func (c *RedisCache) InvalidateFeedbackList(ctx context.Context, productID int64) error {
	trackingKey := c.productCacheKeysSet(productID)

	keys, err := c.client.SMembers(ctx, trackingKey).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	if len(keys) > 0 {
		keys = append(keys, trackingKey)
		return c.client.Unlink(ctx, keys...).Err()
	}

	return nil
}

// InvalidateAllProductCache invalidates all cache entries for a product
func (c *RedisCache) InvalidateAllProductCache(ctx context.Context, productID int64) error {
	if err := c.InvalidateProduct(ctx, productID); err != nil && err != redis.Nil {
		return err
	}

	if err := c.InvalidateFeedbackList(ctx, productID); err != nil && err != redis.Nil {
		return err
	}

	return nil
}
