package tools

import "github.com/shopspring/decimal"

// FormatPercent renders v as a fixed-place percentage string, rounding
// half away from zero.
func FormatPercent(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places) + "%"
}

// FormatDecimal renders v with a fixed number of decimal places and no
// unit suffix.
func FormatDecimal(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}
