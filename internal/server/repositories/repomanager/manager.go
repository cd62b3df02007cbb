// Package repomanager opens the storage backends selected by configuration
// and vends the repositories built on them. A backend whose address is empty
// falls back to its in-memory implementation.
package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/carts"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/orders"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/products"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/users"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type RepositoryManager interface {
	Users() users.Repository
	Carts() carts.Repository
	Orders() orders.Repository
	Products() products.Repository
	Close(ctx context.Context) error
}

// Manager owns the backend connections behind its repositories.
type Manager struct {
	users    users.Repository
	carts    carts.Repository
	orders   orders.Repository
	products products.Repository

	db    *sql.DB
	mongo *mongo.Client
	redis *redis.Client
}

var _ RepositoryManager = (*Manager)(nil)

func (m *Manager) Users() users.Repository       { return m.users }
func (m *Manager) Carts() carts.Repository       { return m.carts }
func (m *Manager) Orders() orders.Repository     { return m.orders }
func (m *Manager) Products() products.Repository { return m.products }

// NewRepositoryManager connects to every configured backend. On failure the
// connections opened so far are closed.
func NewRepositoryManager(ctx context.Context, cfg *config.Config, logger logging.Logger) (_ *Manager, err error) {
	log := logger.With("module", "repomanager")
	m := NewInMemoryRepositoryManager()

	defer func() {
		if err != nil {
			_ = m.Close(context.Background())
		}
	}()

	if cfg.DatabaseDSN != "" {
		if m.db, err = openPostgres(ctx, cfg.DatabaseDSN); err != nil {
			return nil, fmt.Errorf("postgres init error: %w", err)
		}
		if err = m.RunMigrations(ctx, m.db); err != nil {
			return nil, fmt.Errorf("migrations error: %w", err)
		}
		m.users = users.NewPostgresRepository(m.db)
		log.Info(ctx, "credential store", "backend", "postgres")
	} else {
		log.Warn(ctx, "credential store", "backend", "memory")
	}

	if cfg.MongoURI != "" {
		var db *mongo.Database
		if m.mongo, db, err = openMongo(ctx, cfg.MongoURI, cfg.MongoDatabase); err != nil {
			return nil, fmt.Errorf("mongo init error: %w", err)
		}
		m.orders = orders.NewMongoRepository(db.Collection(orders.CollectionName))
		m.products = products.NewMongoRepository(db.Collection(products.CollectionName))
		log.Info(ctx, "order and catalog store", "backend", "mongo", "database", cfg.MongoDatabase)
	} else {
		log.Warn(ctx, "order and catalog store", "backend", "memory")
	}

	if cfg.RedisURL != "" {
		if m.redis, err = openRedis(ctx, cfg.RedisURL); err != nil {
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		m.carts = carts.NewRedisRepository(m.redis, cfg.CartTTL)
		log.Info(ctx, "cart store", "backend", "redis")
	} else {
		log.Warn(ctx, "cart store", "backend", "memory")
	}

	return m, nil
}

// NewInMemoryRepositoryManager returns a manager backed only by process memory.
func NewInMemoryRepositoryManager() *Manager {
	return &Manager{
		users:    users.NewMemoryRepository(),
		carts:    carts.NewMemoryRepository(),
		orders:   orders.NewMemoryRepository(),
		products: products.NewMemoryRepository(),
	}
}

// Close releases every open connection and reports all failures.
func (m *Manager) Close(ctx context.Context) error {
	var errs []error
	if m.db != nil {
		errs = append(errs, m.db.Close())
		m.db = nil
	}
	if m.mongo != nil {
		errs = append(errs, m.mongo.Disconnect(ctx))
		m.mongo = nil
	}
	if m.redis != nil {
		errs = append(errs, m.redis.Close())
		m.redis = nil
	}
	return errors.Join(errs...)
}
