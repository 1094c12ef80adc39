package engine

// ============================================================================
// TEXT BUILDER — Latest measurement summary
// ============================================================================

// BuildText summarizes the latest of the sorted points against table.
func BuildText(points []MeasurementPoint, table ReferenceTable, mt MeasurementType, lang string) *TextData {
	p := Printer(lang)
	if len(points) == 0 {
		return &TextData{
			Value: "-",
			Unit:  mt.Unit(),
		}
	}

	latest := points[len(points)-1]
	text := &TextData{
		Value:     p.Sprintf("%.2f %s", latest.Value, mt.Unit()),
		RawValue:  latest.Value,
		Unit:      mt.Unit(),
		AgeMonths: latest.AgeMonths,
		Count:     len(points),
		Growth:    BuildGrowth(points),
	}
	if ref, ok := Interpolate(table, latest.AgeMonths); ok {
		text.Position = PercentilePosition(latest.Value, ref)
	}
	return text
}

// PercentilePosition places a value relative to the reference triple.
// Values exactly on a curve belong to the band above it.
func PercentilePosition(value float64, ref Percentiles) string {
	switch {
	case value < ref.P3:
		return "below_p3"
	case value < ref.P50:
		return "p3_p50"
	case value <= ref.P97:
		return "p50_p97"
	default:
		return "above_p97"
	}
}

// BuildGrowth compares the last two of the sorted points.
func BuildGrowth(points []MeasurementPoint) *GrowthData {
	if len(points) < 2 {
		g := &GrowthData{Direction: "insufficient data"}
		if len(points) == 1 {
			g.EarliestValue, g.LatestValue = points[0].Value, points[0].Value
			g.EarliestAge, g.LatestAge = points[0].AgeMonths, points[0].AgeMonths
		}
		return g
	}

	prev, last := points[len(points)-2], points[len(points)-1]
	change := RoundTo2(last.Value - prev.Value)
	g := &GrowthData{
		EarliestValue: prev.Value,
		LatestValue:   last.Value,
		EarliestAge:   prev.AgeMonths,
		LatestAge:     last.AgeMonths,
		ChangeAmount:  change,
	}
	if dx := last.AgeMonths - prev.AgeMonths; dx > 0 {
		g.MonthlyRate = RoundTo2((last.Value - prev.Value) / dx)
	}

	switch {
	case change > 0:
		g.Direction = "increased"
	case change < 0:
		g.Direction = "decreased"
	default:
		g.Direction = "unchanged"
	}
	return g
}
