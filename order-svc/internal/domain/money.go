package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPrice renders an amount the way it is shown to customers and stored
// in the order log, e.g. "$5.50".
func FormatPrice(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

func ParsePrice(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "$")
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price %q: %w", s, err)
	}
	return amount.Round(2), nil
}
