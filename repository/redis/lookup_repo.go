package redis

import (
	"context"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/catalogkit/products/domain"
	"github.com/catalogkit/products/repository"
)

type lookupRepository struct {
	client *redislib.Client
	prefix string
}

// NewLookupRepository creates a Redis-backed name-uniqueness projection.
// Entries map a product name to its id and are written by the created-event
// reactor, so the index lags the aggregate store by design.
func NewLookupRepository(client *redislib.Client) repository.LookupRepository {
	return &lookupRepository{
		client: client,
		prefix: "product:name:",
	}
}

func (r *lookupRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	count, err := r.client.Exists(ctx, r.key(name)).Result()
	if err != nil {
		return false, domain.WrapError(domain.ErrCodeStorage, "lookup index check failed", err)
	}
	return count > 0, nil
}

func (r *lookupRepository) Save(ctx context.Context, productID, name string) error {
	if productID == "" || name == "" {
		return domain.ErrInvalidPayload
	}
	if err := r.client.Set(ctx, r.key(name), productID, 0).Err(); err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "lookup index write failed", err)
	}
	return nil
}

func (r *lookupRepository) key(name string) string {
	return fmt.Sprintf("%s%s", r.prefix, name)
}
