package catalog

import (
	"net/url"
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"storefront/internal/domain"
)

type Sort string

const (
	SortRecent    Sort = "recent"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
	SortName      Sort = "name"
)

func parseSort(v string) (Sort, bool) {
	switch s := Sort(strings.TrimSpace(v)); s {
	case SortRecent, SortPriceAsc, SortPriceDesc, SortName:
		return s, true
	default:
		return "", false
	}
}

// Filter narrows and orders a product listing. Zero values disable each clause.
type Filter struct {
	Query    string
	Type     string
	Platform string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	InStock  bool
	Sort     Sort
}

// ParseFilter reads q, type, platform, category, min, max, stock and sort.
// Unknown types, platforms and sorts, and non-numeric prices, are ignored.
func ParseFilter(v url.Values) Filter {
	f := Filter{
		Query:    strings.TrimSpace(v.Get("q")),
		Category: strings.TrimSpace(v.Get("category")),
	}
	if t := strings.ToUpper(strings.TrimSpace(v.Get("type"))); domain.IsProductType(t) {
		f.Type = t
	}
	if p := strings.ToUpper(strings.TrimSpace(v.Get("platform"))); domain.IsPlatform(p) {
		f.Platform = p
	}
	f.MinPrice = parsePrice(v.Get("min"))
	f.MaxPrice = parsePrice(v.Get("max"))
	switch strings.ToLower(strings.TrimSpace(v.Get("stock"))) {
	case "1", "true":
		f.InStock = true
	}
	if s, ok := parseSort(v.Get("sort")); ok {
		f.Sort = s
	}
	return f
}

func parsePrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

// Values renders f as query parameters, the inverse of ParseFilter.
func (f Filter) Values() map[string]any {
	q := map[string]any{
		"q":        f.Query,
		"type":     f.Type,
		"platform": f.Platform,
		"category": f.Category,
		"sort":     string(f.Sort),
	}
	if f.MinPrice != nil {
		q["min"] = f.MinPrice.String()
	}
	if f.MaxPrice != nil {
		q["max"] = f.MaxPrice.String()
	}
	if f.InStock {
		q["stock"] = "1"
	}
	return q
}

// Apply returns the products matching f in f's sort order. The input slice
// is not modified.
func (f Filter) Apply(products []domain.Product) []domain.Product {
	needle := fold(f.Query)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if needle != "" && !strings.Contains(fold(p.Name), needle) && !strings.Contains(fold(p.Category), needle) {
			continue
		}
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.Platform != "" && p.Platform != f.Platform {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		if f.InStock && !p.InStock() {
			continue
		}
		out = append(out, p)
	}
	sortProducts(out, f.Sort)
	return out
}

func sortProducts(products []domain.Product, by Sort) {
	switch by {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price.LessThan(products[j].Price) })
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price.GreaterThan(products[j].Price) })
	case SortName:
		col := newCollator()
		sort.SliceStable(products, func(i, j int) bool {
			return col.CompareString(products[i].Name, products[j].Name) < 0
		})
	default:
		sort.SliceStable(products, func(i, j int) bool { return products[i].CreatedAt.After(products[j].CreatedAt) })
	}
}

// Categories returns the distinct non-empty categories in collation order.
func Categories(products []domain.Product) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range products {
		c := strings.TrimSpace(p.Category)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	col := newCollator()
	sort.SliceStable(out, func(i, j int) bool { return col.CompareString(out[i], out[j]) < 0 })
	return out
}

func newCollator() *collate.Collator {
	return collate.New(language.Spanish, collate.Loose)
}

// fold lower-cases s and strips diacritics so "Pokémon" matches "pokemon".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
