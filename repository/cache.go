package repository

import (
	"context"

	"github.com/catalogkit/products/domain"
)

// ProductCache holds the materialized "all active products" read model under
// a single fixed key. It is only ever evicted wholesale; the next read
// repopulates it from the authoritative store.
type ProductCache interface {
	GetAll(ctx context.Context) ([]domain.Product, bool, error)
	SetAll(ctx context.Context, products []domain.Product) error
	EvictAll(ctx context.Context) error
}
