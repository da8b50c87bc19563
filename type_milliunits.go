package ynamazon

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Milliunits is an exact amount of money expressed in thousandths of the
// currency unit: 12.34 is 12340.
//
// It is the representation used by YNAB, and the only one used for comparisons
// and storage once an amount has been fetched.
type Milliunits int64

// DefaultCurrency is used by String.
const DefaultCurrency = "USD"

var thousand = decimal.NewFromInt(1000)

// EncodeMilliunits converts a currency amount to Milliunits.
//
// When negate is true the sign is flipped first, then the amount is multiplied
// by 1000 and truncated toward zero. Debits (negative in the source feed) are
// encoded with negate set, so that they read as positive charges.
func EncodeMilliunits(amount decimal.Decimal, negate bool) Milliunits {
	if negate {
		amount = amount.Neg()
	}
	return Milliunits(amount.Mul(thousand).IntPart())
}

// Decimal returns the exact currency amount.
func (m Milliunits) Decimal() decimal.Decimal { return decimal.New(int64(m), -3) }

// Neg returns -m.
func (m Milliunits) Neg() Milliunits { return -m }

// String formats m in the DefaultCurrency, e.g. "$12.34".
func (m Milliunits) String() string { return m.Format(DefaultCurrency) }

// Format formats m in the given currency, rounded to the currency's minor unit
// (half away from zero).
func (m Milliunits) Format(currency string) string {
	// to get a never nil currency I need to call the Money constructor
	cur := *money.New(0, currency).Currency()
	minor := m.Decimal().Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}
