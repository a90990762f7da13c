package product

import (
	"context"

	"go.uber.org/zap"

	"github.com/catalogkit/products/domain"
	"github.com/catalogkit/products/repository"
)

// Query serves the cached list-all read path. Its only coupling to the write
// side is the cache entry the created-event reactor evicts.
type Query struct {
	products repository.ProductRepository
	cache    repository.ProductCache
	logger   *zap.Logger
}

func NewQuery(products repository.ProductRepository, cache repository.ProductCache, logger *zap.Logger) *Query {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Query{
		products: products,
		cache:    cache,
		logger:   logger,
	}
}

// ListActive returns all active products, serving from the cache when warm
// and repopulating it from the authoritative store on a miss.
func (q *Query) ListActive(ctx context.Context) ([]domain.Product, error) {
	if q.cache != nil {
		cached, ok, err := q.cache.GetAll(ctx)
		if err != nil {
			q.logger.Warn("cache read failed, falling back to store", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	q.logger.Info("fetching products from store (cache miss)")
	products, err := q.products.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if q.cache != nil {
		if err := q.cache.SetAll(ctx, products); err != nil {
			q.logger.Warn("cache write failed", zap.Error(err))
		}
	}
	return products, nil
}
