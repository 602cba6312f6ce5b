// Package format renders portfolio figures for display.
package format

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// finite reports whether v is neither NaN nor an infinity.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// nonFinite renders NaN as "NaN" and infinities as "∞" or "-∞".
func nonFinite(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case v > 0:
		return "∞"
	default:
		return "-∞"
	}
}

// Round rounds v half away from zero to places decimal places. NaN and
// infinities are returned unchanged.
func Round(v float64, places int32) float64 {
	if !finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Money renders amount in currency, rounded to the currency's minor unit,
// e.g. "$1,234.50" or "-₹70.00". Unknown currency codes, and amounts too
// large to count in minor units, render as "1234.50 XYZ".
func Money(amount float64, currency string) string {
	if !finite(amount) {
		return nonFinite(amount)
	}

	cur := money.GetCurrency(currency)
	if cur == nil {
		return decimal.NewFromFloat(amount).StringFixed(2) + " " + currency
	}

	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return decimal.NewFromFloat(amount).StringFixed(int32(cur.Fraction)) + " " + cur.Code
	}
	return money.New(minor.IntPart(), cur.Code).Display()
}

// SignedMoney is Money with a leading "+" for positive amounts.
func SignedMoney(amount float64, currency string) string {
	s := Money(amount, currency)
	if math.IsInf(amount, 1) || (finite(amount) && decimal.NewFromFloat(amount).Round(2).IsPositive()) {
		return "+" + s
	}
	return s
}

// Percent renders p with precision decimals and a sign, e.g. "+25.00%".
func Percent(p float64, precision int) string {
	if !finite(p) {
		if math.IsInf(p, 1) {
			return "+∞%"
		}
		return nonFinite(p) + "%"
	}
	return fmt.Sprintf("%+.*f%%", precision, Round(p, int32(precision)))
}
