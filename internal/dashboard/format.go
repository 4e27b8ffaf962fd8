package dashboard

import (
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer   = message.NewPrinter(language.BritishEnglish)
	poundHalf = decimal.NewFromFloat(0.5)
)

// FormatNumber groups thousands the en-GB way: 11184 becomes "11,184".
func FormatNumber(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatPercent renders p with the given number of decimals and a percent
// sign. Halves round away from zero.
func FormatPercent(p float64, decimals int) string {
	return strconv.FormatFloat(roundAway(p, decimals), 'f', decimals, 64) + "%"
}

// FormatPounds renders a money value rounded to whole pounds, without
// grouping: 3163.22 becomes "£3163". Halves round up, so -2.5 becomes "£-2".
func FormatPounds(v decimal.Decimal) string {
	return "£" + v.Add(poundHalf).Floor().String()
}

// FormatTimestamp renders t as en-GB local date and time.
func FormatTimestamp(t time.Time) string {
	return t.Format("02/01/2006, 15:04:05")
}

func roundAway(x float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(x*scale) / scale
}
