package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/catalogkit/products/domain"
	"github.com/catalogkit/products/repository"
)

// cacheKey is the single fixed key for the "all active products" read model.
const cacheKey = "products:all"

type productCache struct {
	client *redislib.Client
	ttl    time.Duration
}

// NewProductCache creates a Redis-backed list cache. The entry is never
// patched in place; invalidation evicts it wholesale.
func NewProductCache(client *redislib.Client, ttl time.Duration) repository.ProductCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &productCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *productCache) GetAll(ctx context.Context) ([]domain.Product, bool, error) {
	result, err := c.client.Get(ctx, cacheKey).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, false, nil
		}
		return nil, false, domain.WrapError(domain.ErrCodeStorage, "cache read failed", err)
	}

	var products []domain.Product
	if err := json.Unmarshal([]byte(result), &products); err != nil {
		return nil, false, domain.WrapError(domain.ErrCodeStorage, "cache entry corrupted", err)
	}
	return products, true, nil
}

func (c *productCache) SetAll(ctx context.Context, products []domain.Product) error {
	payload, err := json.Marshal(products)
	if err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "cache entry marshal failed", err)
	}
	if err := c.client.Set(ctx, cacheKey, payload, c.ttl).Err(); err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "cache write failed", err)
	}
	return nil
}

func (c *productCache) EvictAll(ctx context.Context) error {
	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "cache eviction failed", err)
	}
	return nil
}
