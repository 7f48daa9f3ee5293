package cli

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "₹0.00"},
		{10, "₹10.00"},
		{10.5, "₹10.50"},
		{999, "₹999.00"},
		{1000, "₹1,000.00"},
		{1234567.5, "₹1,234,567.50"},
		{-50, "-₹50.00"},
	}

	for i, tc := range cases {
		if got := formatCurrency(decimal.NewFromFloat(tc.in)); got != tc.want {
			t.Fatalf("case %d (%v): got %q, want %q", i, tc.in, got, tc.want)
		}
	}
}
