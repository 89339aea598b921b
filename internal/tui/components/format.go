package components

import (
	"github.com/mmcdole/coinboard/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	printer = message.NewPrinter(language.English)
	one     = decimal.NewFromInt(1)
)

// FormatUSD formats a price with thousands grouping. Sub-dollar prices keep six decimals.
func FormatUSD(d decimal.Decimal) string {
	digits := 2
	if abs := d.Abs(); !abs.IsZero() && abs.LessThan(one) {
		digits = 6
	}
	f, _ := d.Round(int32(digits)).Float64()
	return "$" + printer.Sprint(number.Decimal(f,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
	))
}

// FormatMarketCap formats a market cap in whole dollars with grouping
func FormatMarketCap(d decimal.Decimal) string {
	f, _ := d.Round(0).Float64()
	return "$" + printer.Sprint(number.Decimal(f, number.MaxFractionDigits(0)))
}

// FormatChange formats a 24h percentage change with an explicit sign
func FormatChange(change decimal.NullDecimal) string {
	if !change.Valid {
		return "n/a"
	}
	s := change.Decimal.StringFixed(2)
	if change.Decimal.Round(2).IsPositive() {
		s = "+" + s
	}
	return s + "%"
}

// changeIsUp reports the direction of the 24h change and whether it is known
func changeIsUp(c domain.Coin) (up bool, known bool) {
	if !c.PriceChange24h.Valid {
		return false, false
	}
	return !c.PriceChange24h.Decimal.IsNegative(), true
}
