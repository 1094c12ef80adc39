package engine

import (
	"math"
	"sort"
)

// Interpolate returns the reference percentiles at ageMonths.
//
// Ages at or outside the table's range clamp to the nearest end anchor and an
// exact anchor age returns that anchor untouched; anything in between is a
// per-percentile linear blend of the two bracketing anchors.
// ok is false for NaN ages and empty tables.
func Interpolate(table ReferenceTable, ageMonths float64) (Percentiles, bool) {
	n := table.Len()
	if n == 0 || math.IsNaN(ageMonths) {
		return Percentiles{}, false
	}

	first, last := table.anchors[0], table.anchors[n-1]
	if ageMonths <= float64(first.AgeMonths) {
		return first.Percentiles(), true
	}
	if ageMonths >= float64(last.AgeMonths) {
		return last.Percentiles(), true
	}

	// First anchor at or after the query; 0 < hi < n by the clamps above.
	hi := sort.Search(n, func(i int) bool {
		return float64(table.anchors[i].AgeMonths) >= ageMonths
	})
	upper := table.anchors[hi]
	if float64(upper.AgeMonths) == ageMonths {
		return upper.Percentiles(), true
	}
	lower := table.anchors[hi-1]

	t := (ageMonths - float64(lower.AgeMonths)) / float64(upper.AgeMonths-lower.AgeMonths)
	return Percentiles{
		P3:  lerp(lower.P3, upper.P3, t),
		P50: lerp(lower.P50, upper.P50, t),
		P97: lerp(lower.P97, upper.P97, t),
	}, true
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
