package orders

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/google/uuid"
)

type storedOrder struct {
	seq   int64
	order models.Order
}

// MemoryRepository keeps orders in process memory for development and tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders []storedOrder
	seq    int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

var _ Repository = (*MemoryRepository)(nil)

func (r *MemoryRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	order.ID = uuid.NewString()

	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	r.orders = append(r.orders, storedOrder{seq: r.seq, order: stored})
	return order, nil
}

func (r *MemoryRepository) ListByOwnerEmail(ctx context.Context, email string) ([]*models.Order, error) {
	return r.list(func(o *models.Order) bool { return o.OwnerEmail == email }), nil
}

func (r *MemoryRepository) ListAll(ctx context.Context) ([]*models.Order, error) {
	return r.list(func(*models.Order) bool { return true }), nil
}

func (r *MemoryRepository) list(keep func(*models.Order) bool) []*models.Order {
	r.mu.RLock()
	matched := make([]storedOrder, 0, len(r.orders))
	for _, s := range r.orders {
		if keep(&s.order) {
			matched = append(matched, s)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.order.CreatedAt.Equal(b.order.CreatedAt) {
			return a.order.CreatedAt.After(b.order.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]*models.Order, 0, len(matched))
	for i := range matched {
		o := matched[i].order
		o.Items = append([]models.OrderItem(nil), o.Items...)
		out = append(out, &o)
	}
	return out
}
