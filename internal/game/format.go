package game

import (
	"math"

	"github.com/dustin/go-humanize"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "£"

// FormatCurrency renders v as "£1,234.56", with a leading minus for debts.
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return CurrencySymbol + "0.00"
	}
	s := CurrencySymbol + humanize.FormatFloat("#,###.##", math.Abs(v))
	if v < 0 && s != CurrencySymbol+"0.00" {
		return "-" + s
	}
	return s
}

// FormatPercent renders v as a percentage with two decimals.
func FormatPercent(v float64) string {
	return humanize.FormatFloat("#,###.##", v) + "%"
}
