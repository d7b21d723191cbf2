package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers on the REST contract.
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultStockCeiling applies when a product reports no stock figure.
const DefaultStockCeiling = 99

type Product struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Type        string                 `json:"type"`
	Platform    string                 `json:"platform"`
	Category    string                 `json:"category,omitempty"`
	Price       decimal.Decimal        `json:"price"`
	Stock       *int                   `json:"stock,omitempty"`
	Images      []string               `json:"images,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// Cover returns the first image, which is the product's cover by convention.
func (p Product) Cover() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// StockCeiling is the largest quantity of p a cart may hold.
func (p Product) StockCeiling() int {
	if p.Stock == nil {
		return DefaultStockCeiling
	}
	return *p.Stock
}

// InStock reports whether p has sellable units.
func (p Product) InStock() bool {
	return p.Stock != nil && *p.Stock > 0
}

// Product types and platforms the catalog knows about.
var (
	ProductTypes = []string{"PHYSICAL_GAME", "DIGITAL_KEY", "CONSOLE", "ACCESSORY", "COLLECTIBLE"}
	Platforms    = []string{"XBOX", "PLAYSTATION", "NINTENDO", "PC", "STEAM", "EPIC", "VALORANT", "MULTI"}
)

func IsProductType(v string) bool { return contains(ProductTypes, v) }

func IsPlatform(v string) bool { return contains(Platforms, v) }

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func IntPtr(v int) *int {
	return &v
}
