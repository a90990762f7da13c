package product

import (
	"context"

	"go.uber.org/zap"

	"github.com/catalogkit/products/domain"
	"github.com/catalogkit/products/repository"
	"github.com/catalogkit/products/usecase"
)

// LookupWriter populates the name-uniqueness projection from created events.
// It runs after the aggregate has committed, so the index lags the store by a
// short window.
type LookupWriter struct {
	lookup repository.LookupRepository
	logger *zap.Logger
}

func NewLookupWriter(lookup repository.LookupRepository, logger *zap.Logger) *LookupWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupWriter{
		lookup: lookup,
		logger: logger,
	}
}

func (w *LookupWriter) On(ctx context.Context, event domain.DomainEvent) error {
	created, ok := event.(domain.ProductCreatedEvent)
	if !ok {
		return nil
	}
	w.logger.Info("persisting product lookup", zap.String("name", created.Name))
	return w.lookup.Save(ctx, created.ProductID, created.Name)
}

// CacheInvalidator evicts the list cache whenever a created event is
// observed. The entry is never patched; the next read repopulates it.
type CacheInvalidator struct {
	cache  repository.ProductCache
	logger *zap.Logger
}

func NewCacheInvalidator(cache repository.ProductCache, logger *zap.Logger) *CacheInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheInvalidator{
		cache:  cache,
		logger: logger,
	}
}

func (c *CacheInvalidator) On(ctx context.Context, event domain.DomainEvent) error {
	if event.Kind() != domain.EventKindProductCreated {
		return nil
	}
	if err := c.cache.EvictAll(ctx); err != nil {
		return err
	}
	c.logger.Info("product cache invalidated", zap.String("aggregate_id", event.AggregateID()))
	return nil
}

var (
	_ usecase.EventReactor = (*LookupWriter)(nil)
	_ usecase.EventReactor = (*CacheInvalidator)(nil)
)
