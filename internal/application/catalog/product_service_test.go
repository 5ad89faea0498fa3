package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spicedepot/backend/internal/domain/catalog"
	"github.com/spicedepot/backend/internal/domain/inventory"
	"github.com/spicedepot/backend/internal/domain/shared"
	"github.com/spicedepot/backend/internal/domain/shared/valueobject"
)

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindByName(_ context.Context, name string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	all, _ := r.FindAll(ctx, filter)
	out := make([]catalog.Product, 0, len(all))
	for _, p := range all {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

type fakeBatchRepo struct {
	batches []inventory.InventoryBatch
}

func (r *fakeBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryBatch, error) {
	for i := range r.batches {
		if r.batches[i].ID == id {
			return &r.batches[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBatchRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]inventory.InventoryBatch, error) {
	var out []inventory.InventoryBatch
	for _, b := range r.batches {
		if b.ProductID == productID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) FindEligibleByProduct(_ context.Context, productID uuid.UUID) ([]inventory.InventoryBatch, error) {
	var out []inventory.InventoryBatch
	for _, b := range r.batches {
		if b.ProductID == productID && b.IsEligible() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) Save(_ context.Context, batch *inventory.InventoryBatch) error {
	for i := range r.batches {
		if r.batches[i].ID == batch.ID {
			r.batches[i] = *batch
			return nil
		}
	}
	r.batches = append(r.batches, *batch)
	return nil
}

func (r *fakeBatchRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

// fakePriceCache records lookups so tests can tell a hit from a recompute
type fakePriceCache struct {
	mu     sync.Mutex
	values map[string]decimal.Decimal
	sets   int
	getErr error
}

func newFakePriceCache() *fakePriceCache {
	return &fakePriceCache{values: make(map[string]decimal.Decimal)}
}

func (c *fakePriceCache) Get(_ context.Context, productName string) (decimal.Decimal, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return decimal.Zero, false, c.getErr
	}
	v, ok := c.values[productName]
	return v, ok, nil
}

func (c *fakePriceCache) Set(_ context.Context, productName string, price decimal.Decimal, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[productName] = price
	c.sets++
	return nil
}

func (c *fakePriceCache) Invalidate(_ context.Context, productName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, productName)
	return nil
}

func newTestService(t *testing.T) (*ProductService, *fakeProductRepo, *fakeBatchRepo, *fakePriceCache) {
	t.Helper()
	products := newFakeProductRepo()
	batches := &fakeBatchRepo{}
	cache := newFakePriceCache()
	service := NewProductService(products, batches, cache, zap.NewNop())
	return service, products, batches, cache
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active product", func(t *testing.T) {
		service, _, _, _ := newTestService(t)
		resp, err := service.Create(ctx, CreateProductRequest{
			Name:          "Turmeric",
			Category:      "ground",
			Unit:          "kg",
			RatePerKg:     decimal.NewFromInt(200),
			GSTPercentage: decimal.NewFromInt(5),
		})
		require.NoError(t, err)
		assert.Equal(t, "Turmeric", resp.Name)
		assert.Equal(t, "active", resp.Status)
	})

	t.Run("product names are unique", func(t *testing.T) {
		service, _, _, _ := newTestService(t)
		req := CreateProductRequest{Name: "Turmeric", Unit: "kg", RatePerKg: decimal.NewFromInt(200)}
		_, err := service.Create(ctx, req)
		require.NoError(t, err)

		_, err = service.Create(ctx, req)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "DUPLICATE_PRODUCT", derr.Code)
	})

	t.Run("rejects unknown units", func(t *testing.T) {
		service, _, _, _ := newTestService(t)
		_, err := service.Create(ctx, CreateProductRequest{Name: "Turmeric", Unit: "bags", RatePerKg: decimal.NewFromInt(200)})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_UNIT", derr.Code)
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	service, _, _, _ := newTestService(t)

	created, err := service.Create(ctx, CreateProductRequest{
		Name: "Turmeric", Unit: "kg", RatePerKg: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	t.Run("nil fields stay unchanged", func(t *testing.T) {
		rate := decimal.NewFromInt(250)
		resp, err := service.Update(ctx, created.ID, UpdateProductRequest{RatePerKg: &rate})
		require.NoError(t, err)
		assert.True(t, resp.RatePerKg.Equal(rate))
		assert.Equal(t, "Turmeric", resp.Name)
	})

	t.Run("status transitions through update", func(t *testing.T) {
		inactive := "inactive"
		resp, err := service.Update(ctx, created.ID, UpdateProductRequest{Status: &inactive})
		require.NoError(t, err)
		assert.Equal(t, "inactive", resp.Status)

		bogus := "archived"
		_, err = service.Update(ctx, created.ID, UpdateProductRequest{Status: &bogus})
		assert.Error(t, err)
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		_, err := service.Update(ctx, uuid.New(), UpdateProductRequest{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGetAveragePrice(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, service *ProductService, batches *fakeBatchRepo) *ProductResponse {
		t.Helper()
		created, err := service.Create(ctx, CreateProductRequest{
			Name: "Turmeric", Unit: "kg", RatePerKg: decimal.NewFromInt(200),
		})
		require.NoError(t, err)

		expiry := time.Now().AddDate(1, 0, 0)
		b1, err := inventory.NewInventoryBatch(created.ID, "B-001", decimal.NewFromInt(3), valueobject.UnitKG, decimal.NewFromInt(100), &expiry)
		require.NoError(t, err)
		b2, err := inventory.NewInventoryBatch(created.ID, "B-002", decimal.NewFromInt(1), valueobject.UnitKG, decimal.NewFromInt(500), &expiry)
		require.NoError(t, err)
		require.NoError(t, batches.Save(ctx, b1))
		require.NoError(t, batches.Save(ctx, b2))
		return created
	}

	t.Run("computes the weighted average and caches it", func(t *testing.T) {
		service, _, batches, cache := newTestService(t)
		seed(t, service, batches)

		resp, err := service.GetAveragePrice(ctx, "Turmeric")
		require.NoError(t, err)
		// (3*100 + 1*500) / 4
		assert.True(t, resp.AveragePrice.Equal(decimal.NewFromInt(200)), "got %s", resp.AveragePrice)
		assert.Equal(t, 2, resp.BatchCount)
		assert.False(t, resp.FromCache)
		assert.Equal(t, 1, cache.sets)

		again, err := service.GetAveragePrice(ctx, "Turmeric")
		require.NoError(t, err)
		assert.True(t, again.FromCache)
		assert.True(t, again.AveragePrice.Equal(resp.AveragePrice))
		assert.Equal(t, 1, cache.sets, "cache hit must not recompute")
	})

	t.Run("a cache failure falls through to computation", func(t *testing.T) {
		service, _, batches, cache := newTestService(t)
		seed(t, service, batches)
		cache.getErr = assert.AnError

		resp, err := service.GetAveragePrice(ctx, "Turmeric")
		require.NoError(t, err)
		assert.False(t, resp.FromCache)
		assert.True(t, resp.AveragePrice.Equal(decimal.NewFromInt(200)))
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		service, _, _, _ := newTestService(t)
		_, err := service.GetAveragePrice(ctx, "Nonexistent")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestDeactivateProduct(t *testing.T) {
	ctx := context.Background()
	service, repo, _, _ := newTestService(t)

	created, err := service.Create(ctx, CreateProductRequest{
		Name: "Turmeric", Unit: "kg", RatePerKg: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(ctx, created.ID))

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive())
	// the record survives so historical bills keep resolving
	assert.Equal(t, int64(1), mustCount(t, repo))
}

func mustCount(t *testing.T, repo *fakeProductRepo) int64 {
	t.Helper()
	n, err := repo.Count(context.Background(), shared.DefaultFilter())
	require.NoError(t, err)
	return n
}
