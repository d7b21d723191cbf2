package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// productWire is the tolerant inbound shape of a product. Every field is
// optional; defaults are applied once in toDomain.
type productWire struct {
	ID          string                 `json:"id"`
	LegacyID    string                 `json:"_id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Type        string                 `json:"type"`
	Platform    string                 `json:"platform"`
	Category    string                 `json:"category"`
	Price       decimal.Decimal        `json:"price"`
	Stock       json.RawMessage        `json:"stock"`
	Images      []string               `json:"images"`
	Cover       string                 `json:"cover"`
	Metadata    map[string]interface{} `json:"metadata"`
	CreatedAt   time.Time              `json:"createdAt"`
}

func (w productWire) toDomain() domain.Product {
	id := strings.TrimSpace(w.ID)
	if id == "" {
		id = strings.TrimSpace(w.LegacyID)
	}
	images := make([]string, 0, len(w.Images))
	for _, u := range w.Images {
		if u = strings.TrimSpace(u); u != "" {
			images = append(images, u)
		}
	}
	if len(images) == 0 && strings.TrimSpace(w.Cover) != "" {
		images = append(images, strings.TrimSpace(w.Cover))
	}
	return domain.Product{
		ID:          id,
		Name:        w.Name,
		Description: w.Description,
		Type:        w.Type,
		Platform:    w.Platform,
		Category:    strings.TrimSpace(w.Category),
		Price:       w.Price,
		Stock:       parseStock(w.Stock),
		Images:      images,
		Metadata:    w.Metadata,
		CreatedAt:   w.CreatedAt,
	}
}

// parseStock accepts a JSON number or a numeric string. Anything else,
// including null, means the product reports no stock figure.
func parseStock(raw json.RawMessage) *int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		n = json.Number(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return nil
	}
	return domain.IntPtr(int(f))
}
