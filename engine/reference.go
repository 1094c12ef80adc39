package engine

import (
	"fmt"
)

// ============================================================================
// REFERENCE TABLES — Sparse age → {p3, p50, p97} anchors
// ============================================================================
// Demo curves approximating WHO boys 0–5 years: p3 ≈ −2SD, p50 = median,
// p97 ≈ +2SD. Not the LMS model; a real deployment would supply complete
// sex-specific tables through WithReferenceTable.
// ============================================================================

// ReferenceAnchor is one known row of a reference table.
type ReferenceAnchor struct {
	AgeMonths int     `json:"ageMonths"`
	P3        float64 `json:"p3"`
	P50       float64 `json:"p50"`
	P97       float64 `json:"p97"`
}

// Percentiles returns the anchor's triple.
func (a ReferenceAnchor) Percentiles() Percentiles {
	return Percentiles{P3: a.P3, P50: a.P50, P97: a.P97}
}

// ReferenceTable is an immutable, strictly age-ascending set of anchors.
// The zero value is an empty table.
type ReferenceTable struct {
	anchors []ReferenceAnchor
}

// NewReferenceTable validates anchors and returns a table holding a copy.
func NewReferenceTable(anchors ...ReferenceAnchor) (ReferenceTable, error) {
	for i, a := range anchors {
		if a.AgeMonths < 0 {
			return ReferenceTable{}, fmt.Errorf("anchor %d: negative age %d", i, a.AgeMonths)
		}
		if a.P3 > a.P50 || a.P50 > a.P97 {
			return ReferenceTable{}, fmt.Errorf("anchor %d (age %d): percentiles out of order", i, a.AgeMonths)
		}
		if i > 0 && a.AgeMonths <= anchors[i-1].AgeMonths {
			return ReferenceTable{}, fmt.Errorf("anchor %d: age %d not after %d", i, a.AgeMonths, anchors[i-1].AgeMonths)
		}
	}
	cp := make([]ReferenceAnchor, len(anchors))
	copy(cp, anchors)
	return ReferenceTable{anchors: cp}, nil
}

// MustReferenceTable is NewReferenceTable for static data; it panics on defects.
func MustReferenceTable(anchors ...ReferenceAnchor) ReferenceTable {
	t, err := NewReferenceTable(anchors...)
	if err != nil {
		panic("engine: invalid reference table: " + err.Error())
	}
	return t
}

// Len returns the number of anchors.
func (t ReferenceTable) Len() int { return len(t.anchors) }

// Anchor returns the i-th anchor in age order.
func (t ReferenceTable) Anchor(i int) ReferenceAnchor { return t.anchors[i] }

// Anchors returns a copy of the anchors.
func (t ReferenceTable) Anchors() []ReferenceAnchor {
	cp := make([]ReferenceAnchor, len(t.anchors))
	copy(cp, t.anchors)
	return cp
}

// ============================================================================
// BUILT-IN TABLES (boys, 0–60 months)
// ============================================================================

// WeightForAge is weight (kg) for age.
var WeightForAge = MustReferenceTable(
	ReferenceAnchor{0, 2.5, 3.3, 4.4},
	ReferenceAnchor{1, 3.4, 4.5, 5.8},
	ReferenceAnchor{2, 4.3, 5.6, 7.1},
	ReferenceAnchor{3, 5.0, 6.4, 8.0},
	ReferenceAnchor{4, 5.6, 7.0, 8.7},
	ReferenceAnchor{5, 6.0, 7.5, 9.3},
	ReferenceAnchor{6, 6.4, 7.9, 9.8},
	ReferenceAnchor{7, 6.7, 8.3, 10.3},
	ReferenceAnchor{8, 6.9, 8.6, 10.7},
	ReferenceAnchor{9, 7.1, 8.9, 11.0},
	ReferenceAnchor{10, 7.4, 9.2, 11.4},
	ReferenceAnchor{11, 7.6, 9.4, 11.7},
	ReferenceAnchor{12, 7.7, 9.6, 12.0},
	ReferenceAnchor{13, 7.9, 9.9, 12.3},
	ReferenceAnchor{14, 8.1, 10.1, 12.6},
	ReferenceAnchor{15, 8.3, 10.3, 12.8},
	ReferenceAnchor{16, 8.4, 10.5, 13.1},
	ReferenceAnchor{17, 8.6, 10.7, 13.4},
	ReferenceAnchor{18, 8.8, 10.9, 13.7},
	ReferenceAnchor{19, 8.9, 11.1, 13.9},
	ReferenceAnchor{20, 9.1, 11.3, 14.2},
	ReferenceAnchor{21, 9.2, 11.5, 14.5},
	ReferenceAnchor{22, 9.4, 11.8, 14.7},
	ReferenceAnchor{23, 9.5, 12.0, 15.0},
	ReferenceAnchor{24, 9.7, 12.2, 15.3},
	ReferenceAnchor{30, 10.5, 13.3, 16.9},
	ReferenceAnchor{36, 11.3, 14.3, 18.3},
	ReferenceAnchor{48, 12.7, 16.3, 21.2},
	ReferenceAnchor{60, 14.1, 18.3, 24.2},
)

// HeightForAge is length/height (cm) for age.
// The 5→56 month gap is bridged linearly by Interpolate.
var HeightForAge = MustReferenceTable(
	ReferenceAnchor{0, 46.1, 49.9, 53.7},
	ReferenceAnchor{1, 50.8, 54.7, 58.6},
	ReferenceAnchor{2, 54.4, 58.4, 62.4},
	ReferenceAnchor{3, 57.3, 61.4, 65.5},
	ReferenceAnchor{4, 59.7, 63.9, 68.0},
	ReferenceAnchor{5, 61.7, 65.9, 70.1},
	ReferenceAnchor{56, 98.8, 107.8, 116.7},
	ReferenceAnchor{60, 99.9, 109.4, 118.9},
)

// HeadForAge is head circumference (cm) for age.
var HeadForAge = MustReferenceTable(
	ReferenceAnchor{0, 32.1, 34.5, 36.9},
	ReferenceAnchor{1, 35.1, 37.3, 39.5},
	ReferenceAnchor{2, 36.9, 39.1, 41.3},
	ReferenceAnchor{3, 38.3, 40.5, 42.7},
	ReferenceAnchor{4, 39.4, 41.6, 43.9},
	ReferenceAnchor{5, 40.3, 42.6, 44.8},
	ReferenceAnchor{6, 41.0, 43.3, 45.6},
	ReferenceAnchor{9, 42.6, 45.0, 47.4},
	ReferenceAnchor{12, 43.5, 46.1, 48.6},
	ReferenceAnchor{18, 44.9, 47.4, 50.0},
	ReferenceAnchor{24, 45.8, 48.3, 50.9},
	ReferenceAnchor{36, 47.0, 49.5, 52.0},
	ReferenceAnchor{48, 47.7, 50.3, 52.8},
	ReferenceAnchor{60, 48.0, 50.7, 53.3},
)

// DefaultTable returns the built-in table for a measurement type.
func DefaultTable(mt MeasurementType) ReferenceTable {
	switch mt {
	case Weight:
		return WeightForAge
	case Height:
		return HeightForAge
	case HeadCircumference:
		return HeadForAge
	default:
		return ReferenceTable{}
	}
}
