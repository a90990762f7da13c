package repository

import (
	"context"

	"github.com/catalogkit/products/domain"
)

// ProductRepository persists the product aggregate. Create assigns the ID and
// leaves the version at 0; Update is a compare-and-swap against the version
// the caller loaded, failing with domain.ErrVersionConflict when another
// writer got there first.
type ProductRepository interface {
	GetActive(ctx context.Context, id string) (*domain.Product, error)
	ListActive(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product, expectedVersion int64) error
}
