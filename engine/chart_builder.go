package engine

// ============================================================================
// CHART BUILDER — Produces ChartConfig from a GrowthSeries
// ============================================================================
// Dataset order is fixed: p3, p50, p97, measured, projected. Bands are drawn
// thin and kept out of the legend; the projection is dashed.
// ============================================================================

// Default color per dataset role.
var defaultColors = map[string]string{
	"p3":        "#F59E0B",
	"p50":       "#10B981",
	"p97":       "#EF4444",
	"measured":  "#4F46E5",
	"projected": "#8B5CF6",
}

// BuildChart produces a line ChartConfig for one measurement type.
// It returns nil when there is nothing measured to plot.
func BuildChart(series GrowthSeries, mt MeasurementType, lang string) *ChartConfig {
	if series.IsEmpty() {
		return nil
	}
	p := Printer(lang)
	key := string(mt)

	return &ChartConfig{
		ChartType:  "line",
		Title:      p.Sprintf("title." + key),
		XAxis:      p.Sprintf("axis.age"),
		YAxis:      p.Sprintf("axis." + key),
		ShowLegend: true,
		ShowGrid:   true,
		Datasets: []ChartDataset{
			bandDataset(p.Sprintf("series.p3"), "p3", series.ReferenceP3, 1),
			bandDataset(p.Sprintf("series.p50"), "p50", series.ReferenceP50, 1.5),
			bandDataset(p.Sprintf("series.p97"), "p97", series.ReferenceP97, 1),
			{
				Name:        p.Sprintf("series." + key),
				Role:        "measured",
				Data:        series.Measured,
				Color:       defaultColors["measured"],
				BorderWidth: 2,
				ShowPoints:  true,
			},
			{
				Name:        p.Sprintf("series.projected"),
				Role:        "projected",
				Data:        series.Projected,
				Color:       defaultColors["projected"],
				BorderWidth: 1.5,
				Dashed:      true,
			},
		},
	}
}

func bandDataset(name, role string, data []Point, width float64) ChartDataset {
	return ChartDataset{
		Name:           name,
		Role:           role,
		Data:           data,
		Color:          defaultColors[role],
		BorderWidth:    width,
		HideFromLegend: true,
	}
}
