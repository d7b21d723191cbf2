// Package money formats decimal amounts for display.
package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency is the storefront's selling currency.
const DefaultCurrency = "COP"

var printer = message.NewPrinter(language.English)

// Format renders amount with its ISO code and the currency's standard number
// of fraction digits, e.g. "USD 1,250,000.00". The amount is rounded in
// decimal; only the integer digits pass through the grouping printer.
func Format(amount decimal.Decimal, code string) string {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		unit = currency.MustParseISO(DefaultCurrency)
	}
	scale, _ := currency.Standard.Rounding(unit)
	rounded := amount.Round(int32(scale))

	whole, frac, _ := strings.Cut(rounded.Abs().StringFixed(int32(scale)), ".")
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = printer.Sprintf("%v", number.Decimal(n))
	}

	var b strings.Builder
	b.WriteString(unit.String())
	b.WriteByte(' ')
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(whole)
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
