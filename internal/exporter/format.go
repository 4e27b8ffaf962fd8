package exporter

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// formatFloat formats a float64 with as many decimals as it needs
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatMoney formats a currency value with exactly 2 decimal places
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// cellString renders a row value for text formats.
func cellString(v interface{}) string {
	switch x := v.(type) {
	case int:
		return formatInt(x)
	case float64:
		return formatFloat(x)
	case decimal.Decimal:
		return formatMoney(x)
	case string:
		return x
	default:
		return ""
	}
}
