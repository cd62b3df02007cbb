package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_CreateRequiresAdmin(t *testing.T) {
	m := newStubManager()
	s := NewProductService(m, logging.Nop())
	ctx := context.Background()
	req := CreateProductRequest{Name: "Lamp", Price: decimal.NewFromInt(20), Category: "home"}

	_, err := s.Create(ctx, alice, req)
	assert.ErrorIs(t, err, common.ErrForbidden)

	p, err := s.Create(ctx, admin, req)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, models.DefaultProductImage, p.Image)
	assert.True(t, p.IsActive)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", got.Name)
}

func TestProductService_CreateValidation(t *testing.T) {
	s := NewProductService(newStubManager(), logging.Nop())
	ctx := context.Background()
	inactive := false

	tests := []struct {
		name string
		req  CreateProductRequest
	}{
		{"no name", CreateProductRequest{Name: "  ", Price: decimal.NewFromInt(1), Category: "c"}},
		{"no category", CreateProductRequest{Name: "n", Price: decimal.NewFromInt(1)}},
		{"zero price", CreateProductRequest{Name: "n", Category: "c"}},
		{"negative stock", CreateProductRequest{Name: "n", Price: decimal.NewFromInt(1), Category: "c", Stock: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, admin, tt.req)
			assert.ErrorIs(t, err, common.ErrInvalidProduct)
		})
	}

	p, err := s.Create(ctx, admin, CreateProductRequest{
		Name: "n", Price: decimal.NewFromInt(1), Category: "c", Image: "x.png", IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, p.IsActive)
	assert.Equal(t, "x.png", p.Image)
}

func TestProductService_Delete(t *testing.T) {
	m := newStubManager()
	addProduct(t, m, "p1", "5", true)
	s := NewProductService(m, logging.Nop())
	ctx := context.Background()

	assert.ErrorIs(t, s.Delete(ctx, alice, "p1"), common.ErrForbidden)
	require.NoError(t, s.Delete(ctx, admin, "p1"))
	assert.ErrorIs(t, s.Delete(ctx, admin, "p1"), common.ErrProductNotFound)

	_, err := s.Get(ctx, "p1")
	assert.ErrorIs(t, err, common.ErrProductNotFound)
}

func TestProductService_ListServesStaleSnapshot(t *testing.T) {
	m := newStubManager()
	addProduct(t, m, "p1", "5", true)
	s := NewProductService(m, logging.Nop())
	ctx := context.Background()

	fresh, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 1)

	m.products = &failingProducts{Repository: m.products, err: errBoom}
	stale, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, stale)
}

func TestProductService_ListFailsWithoutSnapshot(t *testing.T) {
	m := newStubManager()
	m.products = &failingProducts{Repository: m.products, err: errBoom}
	s := NewProductService(m, logging.Nop())

	_, err := s.List(context.Background())
	assert.ErrorIs(t, err, errBoom)
}

func TestProductService_Seed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	data := `[
		{"name": "Mug", "price": 9.99, "category": "kitchen", "stock": 10},
		{"name": "Desk", "price": "120.00", "category": "office"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	m := newStubManager()
	s := NewProductService(m, logging.Nop())
	ctx := context.Background()

	n, err := s.Seed(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "9.99", list[0].Price.String())

	// second run leaves the catalog alone
	n, err = s.Seed(ctx, path)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProductService_SeedErrors(t *testing.T) {
	dir := t.TempDir()
	s := NewProductService(newStubManager(), logging.Nop())
	ctx := context.Background()

	_, err := s.Seed(ctx, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"not": "an array"}`), 0o600))
	_, err = s.Seed(ctx, bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`[{"name": "x", "price": 0, "category": "c"}]`), 0o600))
	_, err = s.Seed(ctx, invalid)
	assert.ErrorIs(t, err, common.ErrInvalidProduct)
}
