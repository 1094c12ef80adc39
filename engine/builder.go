package engine

import (
	"math"
	"sort"
)

// ============================================================================
// GROWTH SERIES BUILDER
// ============================================================================
// Pipeline per measurement type:
//   1. Visit → fractional age (skip missing/invalid/negative)
//   2. Visit → measurement value (skip unparsable/non-positive)
//   3. Sort measured points by age
//   4. Band domain: min(60, max(12, ceil(maxAge)+6))
//   5. Reference bands, one interpolation per integer month
//   6. Linear projection from the last two measurements
//
// Pure: same snapshot in, same series out. No logging, no I/O.
// ============================================================================

// CollectPoints turns a child's visits into measurement points for mt.
// Every visit that yields no point is reported once in excluded.
func CollectPoints(child Child, mt MeasurementType) (points []MeasurementPoint, excluded []Exclusion) {
	return CollectPointsView(child.BirthDate, NewSliceView(child.Visits), mt)
}

// CollectPointsView is CollectPoints over any VisitView.
// Points are sorted by age; visits with equal ages keep their log order.
func CollectPointsView(birthDate string, view VisitView, mt MeasurementType) ([]MeasurementPoint, []Exclusion) {
	points := make([]MeasurementPoint, 0, view.Len())
	var excluded []Exclusion

	birth, birthErr := ParseDate(birthDate)
	for i := 0; i < view.Len(); i++ {
		if birthErr != nil {
			excluded = append(excluded, Exclusion{Visit: i, Reason: birthErr})
			continue
		}
		date, err := ParseDate(view.Date(i))
		if err != nil {
			excluded = append(excluded, Exclusion{Visit: i, Reason: err})
			continue
		}
		age := monthsBetween(birth, date)
		if age < 0 {
			excluded = append(excluded, Exclusion{Visit: i, Reason: ErrBeforeBirth})
			continue
		}
		value, err := ParseMeasurement(view.Measurement(i, mt))
		if err != nil {
			excluded = append(excluded, Exclusion{Visit: i, Reason: err})
			continue
		}
		points = append(points, MeasurementPoint{
			AgeMonths: RoundTo2(age),
			Value:     value,
			Visit:     i,
		})
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].AgeMonths < points[j].AgeMonths })
	return points, excluded
}

// BuildSeries builds the growth series of one measurement type for a child.
// A child with no usable measurement of mt gets an empty series.
func BuildSeries(child Child, mt MeasurementType, opts ...Option) GrowthSeries {
	return BuildSeriesView(child.BirthDate, NewSliceView(child.Visits), mt, opts...)
}

// BuildSeriesView is BuildSeries over any VisitView.
func BuildSeriesView(birthDate string, view VisitView, mt MeasurementType, opts ...Option) GrowthSeries {
	cfg := applyOptions(opts)
	points, _ := CollectPointsView(birthDate, view, mt)
	if len(points) == 0 {
		return emptySeries()
	}
	return assemble(points, cfg.table(mt), cfg.bandDomain(maxAge(points)), cfg)
}

// BuildAll builds every measurement type over one shared band domain, so the
// charts of a child line up on the same age axis.
func BuildAll(child Child, opts ...Option) map[MeasurementType]GrowthSeries {
	cfg := applyOptions(opts)
	view := NewSliceView(child.Visits)

	collected := make(map[MeasurementType][]MeasurementPoint, len(MeasurementTypes))
	oldest := math.Inf(-1)
	for _, mt := range MeasurementTypes {
		points, _ := CollectPointsView(child.BirthDate, view, mt)
		collected[mt] = points
		if len(points) > 0 {
			oldest = math.Max(oldest, maxAge(points))
		}
	}

	out := make(map[MeasurementType]GrowthSeries, len(MeasurementTypes))
	for _, mt := range MeasurementTypes {
		points := collected[mt]
		if len(points) == 0 {
			out[mt] = emptySeries()
			continue
		}
		out[mt] = assemble(points, cfg.table(mt), cfg.bandDomain(oldest), cfg)
	}
	return out
}

func assemble(points []MeasurementPoint, table ReferenceTable, domain int, cfg *config) GrowthSeries {
	series := emptySeries()
	series.Measured = make([]Point, 0, len(points))
	for _, p := range points {
		series.Measured = append(series.Measured, p.Point())
	}
	series.ReferenceP3, series.ReferenceP50, series.ReferenceP97 = buildBands(table, domain)
	if cfg.ProjectionMonths > 0 {
		series.Projected = Project(series.Measured, cfg.ProjectionMonths)
	}
	return series
}

// buildBands interpolates the table at every integer month 0..domain.
// Months without a reference value are left out of all three bands.
func buildBands(table ReferenceTable, domain int) (p3, p50, p97 []Point) {
	p3 = make([]Point, 0, domain+1)
	p50 = make([]Point, 0, domain+1)
	p97 = make([]Point, 0, domain+1)
	for m := 0; m <= domain; m++ {
		ref, ok := Interpolate(table, float64(m))
		if !ok {
			continue
		}
		x := float64(m)
		p3 = append(p3, Point{X: x, Y: RoundTo2(ref.P3)})
		p50 = append(p50, Point{X: x, Y: RoundTo2(ref.P50)})
		p97 = append(p97, Point{X: x, Y: RoundTo2(ref.P97)})
	}
	return p3, p50, p97
}

// bandDomain is min(max, max(min, ceil(oldest)+lead)).
func (c *config) bandDomain(oldest float64) int {
	domain := int(math.Ceil(oldest)) + c.LeadMonths
	if domain < c.MinAgeDomain {
		domain = c.MinAgeDomain
	}
	if domain > c.MaxAgeDomain {
		domain = c.MaxAgeDomain
	}
	return domain
}

// maxAge returns the age of the last point; points are sorted.
func maxAge(points []MeasurementPoint) float64 {
	return points[len(points)-1].AgeMonths
}
