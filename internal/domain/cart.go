package domain

import "github.com/shopspring/decimal"

// CartLine is one distinct product held in a cart. Descriptive fields and
// the unit price are captured when the product is added and never re-synced.
type CartLine struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Image        string          `json:"image,omitempty"`
	Platform     string          `json:"platform,omitempty"`
	Type         string          `json:"type,omitempty"`
	Category     string          `json:"category,omitempty"`
	StockCeiling int             `json:"stock"`
	Quantity     int             `json:"quantity"`
}

// Subtotal is the line's quantity times its captured unit price.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
