package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/carts"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
)

// MaxLineQuantity bounds the quantity of a single cart or order line.
const MaxLineQuantity = 9999

// CartService applies cart edits. Every edit is a single atomic
// read-modify-write of one cart.
type CartService struct {
	repomanager repomanager.RepositoryManager
}

func NewCartService(m repomanager.RepositoryManager) *CartService {
	return &CartService{repomanager: m}
}

func (s *CartService) Read(ctx context.Context, cartID string) ([]models.CartLine, error) {
	lines, err := s.repomanager.Carts().Read(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("error reading cart: %w", err)
	}
	return lines, nil
}

// Upsert adds delta to the line for productID, creating it when absent.
// A line whose quantity drops below 1 is removed.
func (s *CartService) Upsert(ctx context.Context, cartID, productID string, delta int) ([]models.CartLine, error) {
	if productID == "" {
		return nil, common.ErrInvalidProductID
	}
	if delta > MaxLineQuantity || delta < -MaxLineQuantity {
		return nil, common.ErrQuantityTooLarge
	}

	return s.mutate(ctx, cartID, func(lines []models.CartLine) ([]models.CartLine, error) {
		if i := indexOf(lines, productID); i >= 0 {
			q := lines[i].Quantity + delta
			if q > MaxLineQuantity {
				return nil, common.ErrQuantityTooLarge
			}
			lines[i].Quantity = q
			if q < 1 {
				return removeAt(lines, i), nil
			}
			return lines, nil
		}
		if delta < 1 {
			return nil, common.ErrInvalidQuantity
		}
		return append(lines, models.CartLine{ProductID: productID, Quantity: delta}), nil
	})
}

// SetQuantity replaces the quantity of the line at index.
func (s *CartService) SetQuantity(ctx context.Context, cartID string, index, quantity int) ([]models.CartLine, error) {
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}

	return s.mutate(ctx, cartID, func(lines []models.CartLine) ([]models.CartLine, error) {
		if index < 0 || index >= len(lines) {
			return nil, common.ErrCartLineNotFound
		}
		lines[index].Quantity = quantity
		return lines, nil
	})
}

func (s *CartService) Remove(ctx context.Context, cartID string, index int) ([]models.CartLine, error) {
	return s.mutate(ctx, cartID, func(lines []models.CartLine) ([]models.CartLine, error) {
		if index < 0 || index >= len(lines) {
			return nil, common.ErrCartLineNotFound
		}
		return removeAt(lines, index), nil
	})
}

// SetProductQuantity is SetQuantity addressed by product id, which stays
// stable while other lines are added or removed.
func (s *CartService) SetProductQuantity(ctx context.Context, cartID, productID string, quantity int) ([]models.CartLine, error) {
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}

	return s.mutate(ctx, cartID, func(lines []models.CartLine) ([]models.CartLine, error) {
		i := indexOf(lines, productID)
		if i < 0 {
			return nil, common.ErrCartLineNotFound
		}
		lines[i].Quantity = quantity
		return lines, nil
	})
}

func (s *CartService) RemoveProduct(ctx context.Context, cartID, productID string) ([]models.CartLine, error) {
	return s.mutate(ctx, cartID, func(lines []models.CartLine) ([]models.CartLine, error) {
		i := indexOf(lines, productID)
		if i < 0 {
			return nil, common.ErrCartLineNotFound
		}
		return removeAt(lines, i), nil
	})
}

func (s *CartService) Clear(ctx context.Context, cartID string) error {
	if err := s.repomanager.Carts().Clear(ctx, cartID); err != nil {
		return fmt.Errorf("error clearing cart: %w", err)
	}
	return nil
}

func (s *CartService) mutate(ctx context.Context, cartID string, fn carts.MutateFunc) ([]models.CartLine, error) {
	lines, err := s.repomanager.Carts().Mutate(ctx, cartID, fn)
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func checkQuantity(quantity int) error {
	if quantity < 1 {
		return common.ErrInvalidQuantity
	}
	if quantity > MaxLineQuantity {
		return common.ErrQuantityTooLarge
	}
	return nil
}

func indexOf(lines []models.CartLine, productID string) int {
	for i := range lines {
		if lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func removeAt(lines []models.CartLine, i int) []models.CartLine {
	return append(lines[:i], lines[i+1:]...)
}
