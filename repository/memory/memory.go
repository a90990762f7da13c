// Package memory implements the repository ports with in-memory storage,
// useful for testing and development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/catalogkit/products/domain"
	"github.com/catalogkit/products/repository"
)

// ProductRepository implements repository.ProductRepository over a map.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[string]domain.Product),
	}
}

func (r *ProductRepository) GetActive(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists || !product.Active {
		return nil, domain.ErrProductNotFound
	}
	copied := product
	return &copied, nil
}

func (r *ProductRepository) ListActive(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var products []domain.Product
	for _, product := range r.products {
		if product.Active {
			products = append(products, product)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})
	return products, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = uuid.NewString()
	product.Version = 0
	r.products[product.ID] = *product
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product, expectedVersion int64) error {
	if product == nil || product.ID == "" {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.products[product.ID]
	if !exists {
		return domain.ErrProductNotFound
	}
	if current.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	product.Version = expectedVersion + 1
	r.products[product.ID] = *product
	return nil
}

// LookupRepository implements the name-uniqueness projection in memory.
type LookupRepository struct {
	mu    sync.RWMutex
	names map[string]string
}

func NewLookupRepository() *LookupRepository {
	return &LookupRepository{
		names: make(map[string]string),
	}
}

func (r *LookupRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.names[name]
	return exists, nil
}

func (r *LookupRepository) Save(ctx context.Context, productID, name string) error {
	if productID == "" || name == "" {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[name] = productID
	return nil
}

// ProductCache implements the single-entry list cache in memory.
type ProductCache struct {
	mu       sync.RWMutex
	products []domain.Product
	filled   bool
}

func NewProductCache() *ProductCache {
	return &ProductCache{}
}

func (c *ProductCache) GetAll(ctx context.Context) ([]domain.Product, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.filled {
		return nil, false, nil
	}
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out, true, nil
}

func (c *ProductCache) SetAll(ctx context.Context, products []domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = make([]domain.Product, len(products))
	copy(c.products, products)
	c.filled = true
	return nil
}

func (c *ProductCache) EvictAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = nil
	c.filled = false
	return nil
}

var (
	_ repository.ProductRepository = (*ProductRepository)(nil)
	_ repository.LookupRepository  = (*LookupRepository)(nil)
	_ repository.ProductCache      = (*ProductCache)(nil)
)
