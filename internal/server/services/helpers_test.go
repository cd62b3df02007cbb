package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/carts"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/orders"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/products"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/users"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errBoom = errors.New("boom")

// stubManager lets a test swap any single repository for a failing one.
type stubManager struct {
	users    users.Repository
	carts    carts.Repository
	orders   orders.Repository
	products products.Repository
}

func (m *stubManager) Users() users.Repository         { return m.users }
func (m *stubManager) Carts() carts.Repository         { return m.carts }
func (m *stubManager) Orders() orders.Repository       { return m.orders }
func (m *stubManager) Products() products.Repository   { return m.products }
func (m *stubManager) Close(ctx context.Context) error { return nil }

func newStubManager() *stubManager {
	return &stubManager{
		users:    users.NewMemoryRepository(),
		carts:    carts.NewMemoryRepository(),
		orders:   orders.NewMemoryRepository(),
		products: products.NewMemoryRepository(),
	}
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
		BcryptCost:            bcrypt.MinCost,
		HashWorkers:           2,
	}
}

func newTestUserService(t *testing.T, m *stubManager) *UserService {
	t.Helper()
	s, err := NewUserService(m, testConfig(), logging.Nop())
	require.NoError(t, err)
	return s
}

func addProduct(t *testing.T, m *stubManager, id, price string, active bool) {
	t.Helper()
	_, err := m.products.Create(context.Background(), &models.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.RequireFromString(price),
		Category: "misc",
		IsActive: active,
	})
	require.NoError(t, err)
}

type failingUsers struct {
	users.Repository
	err error
}

func (f *failingUsers) GetByEmail(context.Context, string) (*models.User, error) { return nil, f.err }
func (f *failingUsers) GetByID(context.Context, string) (*models.User, error)    { return nil, f.err }

type failingOrders struct {
	orders.Repository
	err error
}

func (f *failingOrders) Create(context.Context, *models.Order) (*models.Order, error) {
	return nil, f.err
}
func (f *failingOrders) ListAll(context.Context) ([]*models.Order, error) { return nil, f.err }

type failingCartClear struct {
	carts.Repository
	err error
}

func (f *failingCartClear) Clear(context.Context, string) error { return f.err }

type failingProducts struct {
	products.Repository
	err error
}

func (f *failingProducts) List(context.Context) ([]*models.Product, error) { return nil, f.err }
func (f *failingProducts) Get(context.Context, string) (*models.Product, error) {
	return nil, f.err
}

type cancelAfterCreate struct {
	orders.Repository
	cancel context.CancelFunc
}

func (c *cancelAfterCreate) Create(ctx context.Context, o *models.Order) (*models.Order, error) {
	o, err := c.Repository.Create(ctx, o)
	c.cancel()
	return o, err
}
