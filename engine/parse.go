package engine

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/width"
)

// ============================================================================
// PARSING — Lenient date and measurement parsing
// ============================================================================
// Dates are ISO-like strings. Measurements are free text: "4.5", "4,5",
// "４．５", "4.5 kg" all read as 4.5. Anything else is "unparsable".
// ============================================================================

// Reasons a visit contributes no point to a series.
var (
	ErrMissingDate      = errors.New("missing date")
	ErrInvalidDate      = errors.New("invalid date")
	ErrBeforeBirth      = errors.New("visit before birth")
	ErrMissingValue     = errors.New("missing measurement")
	ErrUnparsableValue  = errors.New("unparsable measurement")
	ErrNonPositiveValue = errors.New("non-positive measurement")
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
}

// ParseDate parses an ISO-like date string in UTC.
// Impossible calendar dates such as 2023-02-30 are rejected.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrMissingDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

var numericPrefix = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseMeasurement reads a positive decimal from free text.
// The leading number, exponent included, wins, so units typed after it are
// ignored.
func ParseMeasurement(s string) (float64, error) {
	s = strings.TrimSpace(width.Narrow.String(s))
	if s == "" {
		return 0, ErrMissingValue
	}

	match := numericPrefix.FindString(normalizeDecimalMark(s))
	if match == "" {
		return 0, ErrUnparsableValue
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(match, "+"))
	if err != nil {
		return 0, ErrUnparsableValue
	}
	if !d.IsPositive() {
		return 0, ErrNonPositiveValue
	}
	v := d.InexactFloat64()
	if math.IsInf(v, 0) {
		return 0, ErrUnparsableValue
	}
	return v, nil
}

// normalizeDecimalMark makes "4,5" and "1.234,5" read like "4.5" and "1234.5".
// When both marks appear the last one is the decimal separator.
func normalizeDecimalMark(s string) string {
	comma := strings.LastIndex(s, ",")
	if comma < 0 {
		return s
	}
	dot := strings.LastIndex(s, ".")
	if dot > comma {
		return strings.ReplaceAll(s, ",", "")
	}
	s = strings.ReplaceAll(s[:comma], ".", "") + "." + s[comma+1:]
	return strings.ReplaceAll(s, ",", "")
}

// RoundTo2 rounds half away from zero to 2 decimal places.
func RoundTo2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
