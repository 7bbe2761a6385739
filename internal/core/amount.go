// Package core provides the customer/transaction domain types.
//
// This file contains the parsing rules for the amount search input and
// the display formatting of amounts.
package core

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// numericPrefix matches the longest leading number a browser's parseFloat accepts.
var numericPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// ParseAmountFilter interprets the amount search input.
//
// Leading whitespace is skipped and the longest numeric prefix is used, so
// "10abc" filters on 10 and "1e2" on 100. When no numeric prefix exists the
// second return value is false and no amount constraint applies.
//
// Examples:
//
//	ParseAmountFilter("10")     -> 10, true
//	ParseAmountFilter(" 7.5 ")  -> 7.5, true
//	ParseAmountFilter("abc")    -> 0, false
//	ParseAmountFilter("")       -> 0, false
func ParseAmountFilter(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	m := numericPrefix.FindString(s)
	if m == "" {
		return 0, false
	}
	switch strings.TrimLeft(m, "+-") {
	case "Infinity":
		if strings.HasPrefix(m, "-") {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// Out of range literals saturate the same way parseFloat does.
		if errors.Is(err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// FormatAmount renders an amount the way the dashboard shows it: shortest
// exact decimal form, no exponent, no forced fraction digits.
func FormatAmount(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return decimal.NewFromFloat(f).String()
}
