// Package pricing contains the pure cart arithmetic: extracting numeric
// values from localized price strings, applying the fixed promo discount and
// rendering totals back as Persian currency strings.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/chiiloo/saffron-store-api/internal/model"
)

// DiscountRate is the flat reduction unlocked by the single valid promo code.
const DiscountRate = 0.05

const currencySuffix = " تومان"

var persianDigits = [10]rune{'۰', '۱', '۲', '۳', '۴', '۵', '۶', '۷', '۸', '۹'}

// NormalizeDigits maps Persian (U+06F0..U+06F9) and Arabic (U+0660..U+0669)
// digit glyphs to their ASCII equivalents, leaving every other rune alone.
func NormalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		}
		return r
	}, s)
}

// ParseAmount extracts the integer value from a localized price string:
// digits are normalized to ASCII, every non-digit rune (separators, currency
// words) is dropped and the remainder parsed. An empty or digit-free string
// yields 0, matching the storefront's lenient handling of malformed prices.
func ParseAmount(price string) int64 {
	var n int64
	seen := false
	for _, r := range NormalizeDigits(price) {
		if r < '0' || r > '9' {
			continue
		}
		seen = true
		n = n*10 + int64(r-'0')
	}
	if !seen {
		return 0
	}
	return n
}

// FormatAmount renders an integer toman value the way the storefront displays
// prices: Persian digits, comma thousand separators and the currency word.
func FormatAmount(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}

	ascii := []byte(decimal.NewFromInt(n).String())
	var b strings.Builder
	for i, c := range ascii {
		if i > 0 && (len(ascii)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(persianDigits[c-'0'])
	}

	out := b.String()
	if neg {
		out = "-" + out
	}
	return out + currencySuffix
}

// Total sums price × quantity over the cart, in integer toman.
func Total(items []model.CartItem) int64 {
	var total int64
	for _, item := range items {
		total += ParseAmount(item.Price) * int64(item.Quantity)
	}
	return total
}

// TotalItems is the sum of item quantities.
func TotalItems(items []model.CartItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// DiscountAmount returns round(total * 5%) when the code, after trimming and
// case folding, equals the configured secret, else 0. The promo mechanism is
// a single fixed code, not a promotion system.
func DiscountAmount(total int64, code, secret string) int64 {
	if secret == "" || !strings.EqualFold(strings.TrimSpace(code), secret) {
		return 0
	}
	return decimal.NewFromInt(total).
		Mul(decimal.NewFromFloat(DiscountRate)).
		Round(0).
		IntPart()
}

// FinalAmount is the base total minus the discount for the given code.
func FinalAmount(total int64, code, secret string) int64 {
	return total - DiscountAmount(total, code, secret)
}
