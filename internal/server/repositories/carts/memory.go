package carts

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type memoryCart struct {
	mu    sync.Mutex
	lines []models.CartLine
	refs  int // guarded by MemoryRepository.mu
}

// MemoryRepository keeps carts in process memory. Writers to one cart are
// serialized by that cart's mutex; different carts never contend. An entry
// lives only while it has lines or a caller holding it.
type MemoryRepository struct {
	mu    sync.Mutex
	carts map[string]*memoryCart
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string]*memoryCart)}
}

var _ Repository = (*MemoryRepository)(nil)

func (r *MemoryRepository) acquire(cartID string) *memoryCart {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[cartID]
	if !ok {
		c = &memoryCart{}
		r.carts[cartID] = c
	}
	c.refs++
	return c
}

// lookup is acquire without creating the entry.
func (r *MemoryRepository) lookup(cartID string) (*memoryCart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[cartID]
	if ok {
		c.refs++
	}
	return c, ok
}

// release drops the entry once the last holder leaves an empty cart.
// With refs at zero nobody else can reach c.lines.
func (r *MemoryRepository) release(cartID string, c *memoryCart) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.refs--
	if c.refs == 0 && len(c.lines) == 0 {
		delete(r.carts, cartID)
	}
}

func (r *MemoryRepository) Read(ctx context.Context, cartID string) ([]models.CartLine, error) {
	c, ok := r.lookup(cartID)
	if !ok {
		return []models.CartLine{}, nil
	}
	defer r.release(cartID, c)

	c.mu.Lock()
	defer c.mu.Unlock()

	return cloneLines(c.lines), nil
}

func (r *MemoryRepository) Mutate(ctx context.Context, cartID string, fn MutateFunc) ([]models.CartLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := r.acquire(cartID)
	defer r.release(cartID, c)

	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fn(cloneLines(c.lines))
	if err != nil {
		return nil, err
	}
	c.lines = cloneLines(next)

	return cloneLines(c.lines), nil
}

func (r *MemoryRepository) Clear(ctx context.Context, cartID string) error {
	c, ok := r.lookup(cartID)
	if !ok {
		return nil
	}
	defer r.release(cartID, c)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	return nil
}
