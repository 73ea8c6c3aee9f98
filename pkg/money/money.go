package money

import (
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/shopspring/decimal"
)

// Formatter renders minor-unit amounts for display, e.g. "NT$ 3,008".
type Formatter struct {
	code     string
	symbol   string
	exponent int32
}

func NewFormatter(cfg config.CurrencyConfig) Formatter {
	exp := cfg.Exponent
	if exp < 0 {
		exp = 0
	}
	return Formatter{code: cfg.Code, symbol: cfg.Symbol, exponent: exp}
}

// Code returns the ISO currency code.
func (f Formatter) Code() string {
	return f.code
}

// Decimal converts minor units into a major-unit decimal.
func (f Formatter) Decimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -f.exponent)
}

// Format renders minor units with the currency symbol and thousands separators.
func (f Formatter) Format(minor int64) string {
	fixed := f.Decimal(minor).StringFixed(f.exponent)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	whole, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	if f.symbol != "" {
		b.WriteString(f.symbol)
		b.WriteByte(' ')
	}
	b.WriteString(groupThousands(whole))
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
