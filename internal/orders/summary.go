package orders

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// Summary is the admin dashboard roll-up of a sales listing.
type Summary struct {
	Count        int                       `json:"count"`
	PaidTotal    decimal.Decimal           `json:"paidTotal"`
	PendingTotal decimal.Decimal           `json:"pendingTotal"`
	ByStatus     map[domain.SaleStatus]int `json:"byStatus"`
}

func Summarize(sales []domain.Sale) Summary {
	sum := Summary{
		Count:        len(sales),
		PaidTotal:    decimal.Zero,
		PendingTotal: decimal.Zero,
		ByStatus:     map[domain.SaleStatus]int{},
	}
	for _, s := range sales {
		sum.ByStatus[s.Status]++
		switch s.Status {
		case domain.SaleStatusPaid:
			sum.PaidTotal = sum.PaidTotal.Add(s.Total)
		case domain.SaleStatusPending:
			sum.PendingTotal = sum.PendingTotal.Add(s.Total)
		}
	}
	return sum
}
