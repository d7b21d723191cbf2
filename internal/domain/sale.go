package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "PENDING"
	SaleStatusPaid      SaleStatus = "PAID"
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

// ParseSaleStatus accepts any casing and reports whether the status is known.
func ParseSaleStatus(v string) (SaleStatus, bool) {
	switch s := SaleStatus(strings.ToUpper(strings.TrimSpace(v))); s {
	case SaleStatusPending, SaleStatusPaid, SaleStatusCancelled:
		return s, true
	default:
		return "", false
	}
}

type SaleItem struct {
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Sale is an order as recorded by the backend. Total is computed server-side.
type Sale struct {
	ID        string          `json:"id"`
	Customer  Customer        `json:"customer"`
	Items     []SaleItem      `json:"items"`
	Metadata  OrderMetadata   `json:"metadata"`
	Total     decimal.Decimal `json:"total"`
	Status    SaleStatus      `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}
