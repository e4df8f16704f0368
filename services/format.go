package services

import (
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// RoundMoney rounds an amount to whole cents, half away from zero.
// Calculations keep full precision; round only when presenting figures.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatAUD formats an amount in Australian dollar notation with
// thousands separators and exactly 2 decimal places (e.g. $4,948.02).
func FormatAUD(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	rounded := RoundMoney(amount.Abs())

	parts := strings.SplitN(rounded.StringFixed(2), ".", 2)

	result := "$" + humanize.Comma(rounded.IntPart()) + "." + parts[1]
	if negative && !rounded.IsZero() {
		result = "-" + result
	}
	return result
}

// FormatTonnage renders tonnes to 2 decimal places, e.g. "39.06 tonnes".
func FormatTonnage(tonnes decimal.Decimal) string {
	return tonnes.StringFixed(2) + " tonnes"
}

// FormatQty renders a measured quantity to 2 decimal places, with thousands
// separators, dropping a trailing ".00".
func FormatQty(d decimal.Decimal) string {
	return humanize.CommafWithDigits(d.Round(2).InexactFloat64(), 2)
}

// Slugify lowercases s and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
