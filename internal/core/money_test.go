package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{" 2.50 ", "2.5", true},
		{"0.005", "0.01", true},
		{"1.234", "1.23", true},
		{"1,235", "1.24", true},
		{"19.999", "20", true},
		{"0.004", "", false},
		{"0.0001", "", false},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1e3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseStoredAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"", "0", true},
		{"150.00", "150", true},
		{"-50.00", "-50", true},
		{"50.00€", "50", true},
		{"€12.30", "12.3", true},
		{" 0.00€ ", "0", true},
		{"12,30", "", false},
		{"n/a", "", false},
	}
	for _, tc := range cases {
		got, err := ParseStoredAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := FormatCurrency(decimal.NewFromInt(50)); got != "50.00€" {
		t.Fatalf("got %q", got)
	}
	if got := FormatAmount(decimal.RequireFromString("-0.5")); got != "-0.50" {
		t.Fatalf("got %q", got)
	}
}
