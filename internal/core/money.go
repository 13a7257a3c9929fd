// Package core provides money parsing and handling utilities.
//
// Amounts are decimals. User input goes through ParseAmount, which only
// accepts positive values; stored cells go through ParseStoredAmount, which
// tolerates signs, empty cells and the currency symbol.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// CurrencySymbol is appended to register amounts.
	CurrencySymbol = "€"
	// CentPlaces is the number of decimals stored for every amount.
	CentPlaces = 2
)

// ParseAmount parses a positive amount typed by a user and rounds it
// half-up to whole cents, the precision every ledger table stores.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted.
// Signs, anything that rounds to zero and anything that is not a plain
// decimal are rejected.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,5")  -> 12.5, nil
//	ParseAmount("0.005") -> 0.01, nil
//	ParseAmount("0.004") -> 0, ErrInvalidAmount
//	ParseAmount("-3")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(CentPlaces)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseStoredAmount parses an amount cell from a ledger table. Empty cells
// are zero; a leading or trailing currency symbol is ignored.
func ParseStoredAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(s, CurrencySymbol), CurrencySymbol))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders d with two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(CentPlaces)
}

// FormatCurrency renders d with two decimal places and the currency suffix.
func FormatCurrency(d decimal.Decimal) string {
	return FormatAmount(d) + CurrencySymbol
}
