package schema

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"github.com/spektr-org/growthkit/engine"
)

// ============================================================================
// VISIT COLUMN DETECTION — Heuristic Classification
// ============================================================================
// Pipeline:
//   1. Header aliases (English and Italian) → field
//   2. Unclaimed columns → sample values → detect type (date, numeric, text)
//   3. First date column feeds the visit date
//   4. Numeric columns fill weight, height, head by plausible range
//   5. Everything else is reported as skipped
// ============================================================================

// Detection failures.
var (
	ErrNoDateColumn        = errors.New("schema: no visit date column")
	ErrNoMeasurementColumn = errors.New("schema: no measurement column")
)

var headerAliases = map[string]Field{
	"date":        FieldDate,
	"data":        FieldDate,
	"visit_date":  FieldDate,
	"data_visita": FieldDate,

	"weight":    FieldWeight,
	"weight_kg": FieldWeight,
	"peso":      FieldWeight,
	"peso_kg":   FieldWeight,

	"height":       FieldHeight,
	"height_cm":    FieldHeight,
	"length":       FieldHeight,
	"length_cm":    FieldHeight,
	"altezza":      FieldHeight,
	"altezza_cm":   FieldHeight,
	"lunghezza":    FieldHeight,
	"lunghezza_cm": FieldHeight,

	"head":                     FieldHead,
	"head_cm":                  FieldHead,
	"head_circumference":       FieldHead,
	"head_circumference_cm":    FieldHead,
	"circonferenza_cranica":    FieldHead,
	"circonferenza_cranica_cm": FieldHead,

	"kind":  FieldKind,
	"type":  FieldKind,
	"tipo":  FieldKind,
	"notes": FieldNotes,
	"note":  FieldNotes,
}

// Heaviest plausible weight (kg) for the charted age range. Larger values in
// an unlabeled numeric column are lengths.
const maxPlausibleWeight = 30

// Head circumference stays below this (cm) through age five.
const maxPlausibleHead = 56

// DetectVisitColumns maps CSV headers to visit fields, looking at rows when a
// header is not recognized. A date column and at least one measurement
// column are required.
func DetectVisitColumns(headers []string, rows [][]string) (VisitColumns, error) {
	var cols VisitColumns
	claimed := make(map[int]bool, len(headers))

	// 1. Header aliases
	for i, h := range headers {
		field, ok := headerAliases[toSnakeCase(h)]
		if !ok || cols.Has(field) {
			continue
		}
		cols.Matches = append(cols.Matches, ColumnMatch{Field: field, Column: h, Index: i, DetectedBy: ByHeader})
		claimed[i] = true
	}

	// 2. Content types of unclaimed columns
	type candidate struct {
		index  int
		median float64
	}
	var numeric []candidate
	for i, h := range headers {
		if claimed[i] {
			continue
		}
		values := columnValues(rows, i)
		if len(values) == 0 {
			cols.SkippedColumns = append(cols.SkippedColumns, SkippedColumn{Column: h, Reason: "All values are empty"})
			claimed[i] = true
			continue
		}
		switch detectType(values) {
		case typeDate:
			if !cols.Has(FieldDate) {
				cols.Matches = append(cols.Matches, ColumnMatch{Field: FieldDate, Column: h, Index: i, DetectedBy: ByContent})
				claimed[i] = true
			}
		case typeNumeric:
			if isCounter(values) {
				cols.SkippedColumns = append(cols.SkippedColumns, SkippedColumn{Column: h, Reason: "Consecutive integers, likely a row number"})
				claimed[i] = true
				continue
			}
			numeric = append(numeric, candidate{i, median(values)})
		}
	}

	// 3. Numeric columns by plausible range
	for _, c := range numeric {
		field, ok := numericField(cols, c.median)
		if !ok {
			continue
		}
		cols.Matches = append(cols.Matches, ColumnMatch{Field: field, Column: headers[c.index], Index: c.index, DetectedBy: ByContent})
		claimed[c.index] = true
	}

	for i, h := range headers {
		if !claimed[i] {
			cols.SkippedColumns = append(cols.SkippedColumns, SkippedColumn{Column: h, Reason: "Not a recognized visit field"})
		}
	}
	sort.SliceStable(cols.Matches, func(a, b int) bool { return fieldRank(cols.Matches[a].Field) < fieldRank(cols.Matches[b].Field) })

	if !cols.Has(FieldDate) {
		return cols, ErrNoDateColumn
	}
	if !cols.Has(FieldWeight) && !cols.Has(FieldHeight) && !cols.Has(FieldHead) {
		return cols, ErrNoMeasurementColumn
	}
	return cols, nil
}

func numericField(cols VisitColumns, median float64) (Field, bool) {
	switch {
	case median <= maxPlausibleWeight && !cols.Has(FieldWeight):
		return FieldWeight, true
	case median > maxPlausibleWeight && median < maxPlausibleHead && !cols.Has(FieldHead):
		return FieldHead, true
	case median > maxPlausibleWeight && !cols.Has(FieldHeight):
		return FieldHeight, true
	}
	return "", false
}

func fieldRank(f Field) int {
	for i, x := range Fields {
		if x == f {
			return i
		}
	}
	return len(Fields)
}

// ============================================================================
// TYPE DETECTION
// ============================================================================

type columnType int

const (
	typeString columnType = iota
	typeNumeric
	typeDate
)

// detectType requires 80%+ of non-empty values to match.
func detectType(values []string) columnType {
	dateCount, numCount := 0, 0
	for _, v := range values {
		switch {
		case isDate(v):
			dateCount++
		case isNumeric(v):
			numCount++
		}
	}
	threshold := int(float64(len(values)) * 0.8)
	if threshold == 0 {
		threshold = 1
	}
	switch {
	case dateCount >= threshold:
		return typeDate
	case numCount >= threshold:
		return typeNumeric
	}
	return typeString
}

func isDate(s string) bool {
	_, err := engine.ParseDate(s)
	return err == nil
}

// A measurement cell: a decimal with either mark and an optional unit.
var measurementCell = regexp.MustCompile(`^\d+(?:[.,]\d+)?\s*(?:kg|g|cm|mm)?$`)

func isNumeric(s string) bool {
	s = strings.ToLower(strings.TrimSpace(width.Narrow.String(s)))
	return measurementCell.MatchString(s)
}

func median(values []string) float64 {
	var nums []float64
	for _, v := range values {
		if f, err := engine.ParseMeasurement(v); err == nil {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return 0
	}
	sort.Float64s(nums)
	return nums[len(nums)/2]
}

// isCounter reports a 1, 2, 3... (or 0, 1, 2...) style column.
func isCounter(values []string) bool {
	if len(values) < 3 {
		return false
	}
	start, err := strconv.Atoi(values[0])
	if err != nil || start > 1 || start < 0 {
		return false
	}
	for i, v := range values {
		if v != strconv.Itoa(start+i) {
			return false
		}
	}
	return true
}

func columnValues(rows [][]string, index int) []string {
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if index >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[index])
		switch strings.ToLower(v) {
		case "", "null", "n/a", "-":
			continue
		}
		values = append(values, v)
	}
	return values
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Weight (kg)" or "circonferenzaCranica" → "weight_kg",
// "circonferenza_cranica".
func toSnakeCase(s string) string {
	var b strings.Builder
	var prev rune
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsUpper(r):
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
		prev = r
	}
	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return strings.Trim(out, "_")
}

// String renders a one-line summary such as "date←Data(header) weight←Peso(header)".
func (v VisitColumns) String() string {
	parts := make([]string, 0, len(v.Matches))
	for _, m := range v.Matches {
		parts = append(parts, fmt.Sprintf("%s←%s(%s)", m.Field, m.Column, m.DetectedBy))
	}
	return strings.Join(parts, " ")
}
