// Package carts stores shopping carts keyed by cart id. Every change goes
// through Mutate so that concurrent writers to the same cart never lose
// updates.
package carts

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

// MutateFunc receives a private copy of the current lines and returns the
// lines to store. Returning an error leaves the cart unchanged.
type MutateFunc func(lines []models.CartLine) ([]models.CartLine, error)

type Repository interface {
	Read(ctx context.Context, cartID string) ([]models.CartLine, error)
	Mutate(ctx context.Context, cartID string, fn MutateFunc) ([]models.CartLine, error)
	Clear(ctx context.Context, cartID string) error
}

func cloneLines(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, len(lines))
	copy(out, lines)
	return out
}
