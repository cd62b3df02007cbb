package orders

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_ListsNewestFirstPerOwner(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mk := func(email string, at time.Time) *models.Order {
		o, err := repo.Create(ctx, &models.Order{OwnerEmail: email, CreatedAt: at})
		require.NoError(t, err)
		require.NotEmpty(t, o.ID)
		return o
	}

	a1 := mk("a@example.com", base)
	b1 := mk("b@example.com", base.Add(time.Minute))
	a2 := mk("a@example.com", base.Add(2*time.Minute))
	a3 := mk("a@example.com", base.Add(2*time.Minute))

	mine, err := repo.ListByOwnerEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, []string{a3.ID, a2.ID, a1.ID}, []string{mine[0].ID, mine[1].ID, mine[2].ID})

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, b1.ID, all[2].ID)

	none, err := repo.ListByOwnerEmail(ctx, "c@example.com")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryRepository_StoredOrderIsIsolated(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	o := &models.Order{OwnerEmail: "a@example.com", Items: []models.OrderItem{{ProductID: "p1", Quantity: 1}}}
	_, err := repo.Create(ctx, o)
	require.NoError(t, err)

	o.Items[0].Quantity = 99

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, all[0].Items[0].Quantity)
}
