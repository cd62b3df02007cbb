// Package orders persists committed orders. Listings are newest first.
package orders

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type Repository interface {
	// Create stores order and fills in its generated ID.
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	ListByOwnerEmail(ctx context.Context, email string) ([]*models.Order, error)
	ListAll(ctx context.Context) ([]*models.Order, error)
}
