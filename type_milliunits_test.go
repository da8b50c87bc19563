package ynamazon

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEncodeMilliunits(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		negate bool
		want   Milliunits
	}{
		{name: "debit is flipped", amount: "-12.34", negate: true, want: 12340},
		{name: "credit as is", amount: "56.78", want: 56780},
		{name: "zero", amount: "0", want: 0},
		{name: "thousandth boundary", amount: "0.001", want: 1},
		{name: "negative thousandth boundary", amount: "-0.001", negate: true, want: 1},
		{name: "sub thousandth truncated", amount: "1.2349", want: 1234},
		{name: "negative sub thousandth truncated toward zero", amount: "-1.2349", want: -1234},
		{name: "flip then truncate", amount: "1.2349", negate: true, want: -1234},
		{name: "large amount", amount: "123456789.125", want: 123456789125},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeMilliunits(decimal.RequireFromString(tt.amount), tt.negate)
			if got != tt.want {
				t.Errorf("EncodeMilliunits(%s, %v) = %d, want %d", tt.amount, tt.negate, got, tt.want)
			}
		})
	}
}

func TestMilliunits_RoundTrip(t *testing.T) {
	// every amount with three fractional digits must survive encode/decode.
	for _, s := range []string{"0.001", "0.1", "0.999", "-0.999", "19.99", "-20.00", "1000.005", "-98765.432"} {
		d := decimal.RequireFromString(s)
		m := EncodeMilliunits(d, false)
		if !m.Decimal().Equal(d) {
			t.Errorf("decode(encode(%s)) = %s", s, m.Decimal())
		}
		if again := EncodeMilliunits(m.Decimal(), false); again != m {
			t.Errorf("encode(decode(%d)) = %d", m, again)
		}
	}
}

func TestMilliunits_Format(t *testing.T) {
	tests := []struct {
		m    Milliunits
		cur  string
		want string
	}{
		{20000, "USD", "$20.00"},
		{12340, "USD", "$12.34"},
		{12345, "USD", "$12.35"},
		{12344, "USD", "$12.34"},
		{0, "USD", "$0.00"},
		{-5000, "USD", "-$5.00"},
		{1234567, "USD", "$1,234.57"},
	}
	for _, tt := range tests {
		if got := tt.m.Format(tt.cur); got != tt.want {
			t.Errorf("Milliunits(%d).Format(%q) = %q, want %q", tt.m, tt.cur, got, tt.want)
		}
	}
}
