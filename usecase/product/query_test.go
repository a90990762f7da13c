package product_test

import (
	"context"
	"testing"

	"github.com/catalogkit/products/repository/memory"
	productUC "github.com/catalogkit/products/usecase/product"
)

func TestQuery_ListActive_CacheMissPopulates(t *testing.T) {
	repo := memory.NewProductRepository()
	cache := memory.NewProductCache()
	seedProduct(t, repo)

	query := productUC.NewQuery(repo, cache, nil)
	ctx := context.Background()

	products, err := query.ListActive(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}

	// The miss repopulated the cache.
	cached, ok, err := cache.GetAll(ctx)
	if err != nil {
		t.Fatalf("cache read failed: %v", err)
	}
	if !ok || len(cached) != 1 {
		t.Errorf("cache should hold the listing, ok=%v len=%d", ok, len(cached))
	}
}

func TestQuery_ListActive_ServesFromCache(t *testing.T) {
	repo := memory.NewProductRepository()
	cache := memory.NewProductCache()
	seeded := seedProduct(t, repo)

	query := productUC.NewQuery(repo, cache, nil)
	ctx := context.Background()

	if _, err := query.ListActive(ctx); err != nil {
		t.Fatalf("warm-up list failed: %v", err)
	}

	// Change the store behind the cache; a warm cache keeps serving the stale
	// listing until an eviction.
	another, err := repo.GetActive(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := another.Deactivate(); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if err := repo.Update(ctx, another, seeded.Version); err != nil {
		t.Fatalf("store update failed: %v", err)
	}

	products, err := query.ListActive(ctx)
	if err != nil {
		t.Fatalf("cached list failed: %v", err)
	}
	if len(products) != 1 {
		t.Errorf("warm cache should still serve 1 product, got %d", len(products))
	}

	// After an eviction the next read reflects the store.
	if err := cache.EvictAll(ctx); err != nil {
		t.Fatalf("evict failed: %v", err)
	}
	products, err = query.ListActive(ctx)
	if err != nil {
		t.Fatalf("post-eviction list failed: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("expected empty listing after deactivation, got %d", len(products))
	}
}

func TestQuery_ListActive_NilCache(t *testing.T) {
	repo := memory.NewProductRepository()
	seedProduct(t, repo)

	query := productUC.NewQuery(repo, nil, nil)

	products, err := query.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list without cache failed: %v", err)
	}
	if len(products) != 1 {
		t.Errorf("expected 1 product, got %d", len(products))
	}
}
