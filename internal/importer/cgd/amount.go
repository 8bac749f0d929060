package cgd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads a Portuguese-formatted amount such as "1.234,56" or
// "-588,74".
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	clean = strings.Replace(clean, ",", ".", 1)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: %w", s, err)
	}

	return d, nil
}
