package orders

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// saleWire tolerates the legacy `_id` key and sale items whose product is
// either an id string or an embedded product object.
type saleWire struct {
	ID        string               `json:"id"`
	LegacyID  string               `json:"_id"`
	Customer  domain.Customer      `json:"customer"`
	Items     []saleItemWire       `json:"items"`
	Metadata  domain.OrderMetadata `json:"metadata"`
	Total     decimal.Decimal      `json:"total"`
	Status    string               `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
}

type saleItemWire struct {
	Product   json.RawMessage `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

func (w saleWire) toDomain() domain.Sale {
	id := strings.TrimSpace(w.ID)
	if id == "" {
		id = strings.TrimSpace(w.LegacyID)
	}
	status, ok := domain.ParseSaleStatus(w.Status)
	if !ok {
		status = domain.SaleStatus(strings.TrimSpace(w.Status))
	}
	items := make([]domain.SaleItem, 0, len(w.Items))
	for _, it := range w.Items {
		items = append(items, domain.SaleItem{
			Product:   productRef(it.Product),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return domain.Sale{
		ID:        id,
		Customer:  w.Customer,
		Items:     items,
		Metadata:  w.Metadata,
		Total:     w.Total,
		Status:    status,
		CreatedAt: w.CreatedAt,
	}
}

// productRef extracts the product id from a string or an object carrying
// id, _id or $oid.
func productRef(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		ID       string `json:"id"`
		LegacyID string `json:"_id"`
		OID      string `json:"$oid"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	for _, v := range []string{obj.LegacyID, obj.OID, obj.ID} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
