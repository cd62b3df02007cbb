package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultProductImage = "https://via.placeholder.com/400x300"

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description,omitempty"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Priced reports whether the product can be ordered.
func (p *Product) Priced() bool {
	return p.IsActive && p.Price.IsPositive()
}
