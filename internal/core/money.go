// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from user input
// and formatting them for display in the configured base currency.
package core

import (
	"strings"
	"unicode"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no base currency has been configured.
const DefaultCurrency = "USD"

// ParseAmount converts a decimal string to a positive amount rounded to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place.
// Returns an error for invalid formats, negative values, or zero amounts.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// IsKnownCurrency reports whether code is an ISO 4217 code known to the formatter.
func IsKnownCurrency(code string) bool {
	return money.GetCurrency(strings.ToUpper(code)) != nil
}

// FormatCurrency renders amount in the given currency using its symbol,
// separators and minor-unit precision, e.g. "$1,234.50" or "-€3,00".
// Magnitudes are never converted between currencies.
func FormatCurrency(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}

// RoundCents rounds to two decimal places.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
