// Package amount parses user-entered amounts and renders them in a currency.
package amount

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrNotPositive     = errors.New("amount must be greater than zero")
)

// Formatter renders decimal amounts with a currency's symbol and separators.
type Formatter struct {
	currency *money.Currency
}

func NewFormatter(code string) (*Formatter, error) {
	cur := money.GetCurrency(strings.ToUpper(code))
	if cur == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}

	return &Formatter{currency: cur}, nil
}

func (f *Formatter) Code() string {
	return f.currency.Code
}

// Format rounds d to the currency's minor unit.
func (f *Formatter) Format(d decimal.Decimal) string {
	minor := d.Shift(int32(f.currency.Fraction)).Round(0).IntPart()
	return f.currency.Formatter().Format(minor)
}

// Signed prefixes income with "+" and expenses with "-".
func (f *Formatter) Signed(d decimal.Decimal, income bool) string {
	if income {
		return "+" + f.Format(d)
	}

	return "-" + f.Format(d)
}

// Parse reads a positive amount typed by a user. Either "." or "," is
// accepted as the decimal separator; thousands separators are not.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrNotPositive
	}

	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	if !d.IsPositive() {
		return decimal.Zero, ErrNotPositive
	}

	return d.Round(2), nil
}
