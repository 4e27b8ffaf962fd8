package dataprocessing

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Kind selects how a raw cell is coerced to a number.
type Kind int

const (
	// KindInt reads the leading integer of the cell: "12.7" -> 12, "3 units" -> 3.
	KindInt Kind = iota
	// KindRoundedDecimal reads a decimal and rounds it half-up to an integer.
	KindRoundedDecimal
	// KindPercent reads a fraction and scales it to a percentage.
	KindPercent
	// KindDecimal reads a decimal as-is.
	KindDecimal
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindRoundedDecimal:
		return "rounded_decimal"
	case KindPercent:
		return "percent"
	case KindDecimal:
		return "decimal"
	}
	return "unknown"
}

var (
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)([eE][+-]?\d+)?`)

	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)

	maxInt = decimal.NewFromInt(math.MaxInt)
	minInt = decimal.NewFromInt(math.MinInt)
)

// coerce parses the numeric prefix of raw according to kind. Leading
// whitespace is skipped; trailing garbage is ignored. ok is false when no
// number can be read, or when an integer kind does not fit in an int.
func coerce(raw string, kind Kind) (decimal.Decimal, bool) {
	raw = strings.TrimLeftFunc(raw, unicode.IsSpace)

	if kind == KindInt {
		m := intPrefix.FindString(raw)
		if m == "" {
			return decimal.Zero, false
		}
		v, err := decimal.NewFromString(strings.TrimPrefix(m, "+"))
		if err != nil || !fitsInt(v) {
			return decimal.Zero, false
		}
		return v, true
	}

	m := floatPrefix.FindString(raw)
	if m == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(normalizeDecimal(m))
	if err != nil {
		return decimal.Zero, false
	}

	switch kind {
	case KindRoundedDecimal:
		v = v.Add(half).Floor()
		return v, fitsInt(v)
	case KindPercent:
		return v.Mul(hundred), true
	default:
		return v, true
	}
}

func fitsInt(v decimal.Decimal) bool {
	return v.Cmp(minInt) >= 0 && v.Cmp(maxInt) <= 0
}

// normalizeDecimal drops a leading plus and restores the zero in ".5".
func normalizeDecimal(s string) string {
	s = strings.TrimPrefix(s, "+")
	if strings.HasPrefix(s, "-.") {
		return "-0" + s[1:]
	}
	if strings.HasPrefix(s, ".") {
		return "0" + s
	}
	return s
}
