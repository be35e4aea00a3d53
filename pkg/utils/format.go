// Package utils provides the field extraction and display formatting used to
// turn raw provider payloads into dashboard lines.
package utils

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NA is the sentinel rendered in place of missing or malformed data.
const NA = "N/A"

// groupedMaxFraction matches the default fraction limit of toLocaleString.
const groupedMaxFraction = 3

var enPrinter = message.NewPrinter(language.English)

// FormatPercent formats a percentage change with two decimals and a sign.
// e.g., 2.456 → "+2.46%", -1.2 → "-1.20%", 0 → "0.00%", "abc" → "N/A"
func FormatPercent(x any) string {
	v, ok := toFloat(x)
	if !ok {
		return NA
	}
	if v == 0 {
		v = 0 // drop negative zero
	}
	s := strconv.FormatFloat(v, 'f', 2, 64) + "%"
	if v > 0 {
		return "+" + s
	}
	return s
}

// FormatFixed formats a number with exactly places fractional digits.
// e.g., FormatFixed(1.08456, 4) → "1.0846"
func FormatFixed(x any, places int) string {
	v, ok := toFloat(x)
	if !ok {
		return NA
	}
	if places < 0 {
		places = 0
	}
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', places, 64)
}

// FormatGrouped formats a number with English thousands grouping and no fixed
// number of decimals.
// e.g., 42000 → "42,000", 5123.4567 → "5,123.457"
func FormatGrouped(x any) string {
	v, ok := toFloat(x)
	if !ok {
		return NA
	}
	if v == 0 {
		v = 0
	}
	return enPrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(groupedMaxFraction)))
}

// IsNumber reports whether x is a finite number the formatters would render.
func IsNumber(x any) bool {
	_, ok := toFloat(x)
	return ok
}
