package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"storefront/internal/catalog/domain"
	apperrors "storefront/pkg/errors"
)

const productKeyPrefix = "catalog:product:"

// RedisProductCache implements ProductCache on Redis. Entries are JSON
// encoded and expire after the configured TTL; a cache failure is reported
// to the caller, never turned into a request failure.
type RedisProductCache struct {
	client *redis.Client
}

// NewRedisProductCache creates a new Redis product cache
func NewRedisProductCache(client *redis.Client) *RedisProductCache {
	return &RedisProductCache{client: client}
}

// Get returns the cached product, or (nil, nil) on a miss
func (c *RedisProductCache) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	payload, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.NewInternal("failed to read product cache", err)
	}

	var product domain.Product
	if err := json.Unmarshal(payload, &product); err != nil {
		return nil, apperrors.NewInternal("failed to decode cached product", err)
	}
	return &product, nil
}

// Set stores the product with the given TTL
func (c *RedisProductCache) Set(ctx context.Context, product *domain.Product, ttl time.Duration) error {
	payload, err := json.Marshal(product)
	if err != nil {
		return apperrors.NewInternal("failed to encode product for cache", err)
	}

	if err := c.client.Set(ctx, productKey(product.ID), payload, ttl).Err(); err != nil {
		return apperrors.NewInternal("failed to write product cache", err)
	}
	return nil
}

// Invalidate removes the product's cache entry
func (c *RedisProductCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		return apperrors.NewInternal("failed to invalidate product cache", err)
	}
	return nil
}

func productKey(id uuid.UUID) string {
	return productKeyPrefix + id.String()
}
