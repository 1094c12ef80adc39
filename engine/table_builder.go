package engine

import (
	"sort"
	"strings"

	"golang.org/x/text/message"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from a GrowthSeries
// ============================================================================
// One row per distinct age across all five arrays, ascending. Cells with no
// value at that age stay empty.
// ============================================================================

// BuildTable lays a GrowthSeries out as age-ordered rows.
func BuildTable(series GrowthSeries, mt MeasurementType, lang string) *TableData {
	p := Printer(lang)
	key := string(mt)

	columns := []Column{
		{Key: "age", Label: p.Sprintf("column.age"), Type: "number", Align: "right"},
		{Key: "p3", Label: "P3", Type: "number", Align: "right"},
		{Key: "p50", Label: "P50", Type: "number", Align: "right"},
		{Key: "p97", Label: "P97", Type: "number", Align: "right"},
		{Key: "measured", Label: p.Sprintf("column.measured"), Type: "number", Align: "right"},
		{Key: "projected", Label: p.Sprintf("column.projected"), Type: "number", Align: "right"},
	}

	table := &TableData{
		Title:   p.Sprintf("title." + key),
		Columns: columns,
		Rows:    [][]string{},
	}
	if series.IsEmpty() {
		return table
	}

	cells := make(map[float64][]string)
	place := func(col int, points []Point) {
		for _, pt := range points {
			row, ok := cells[pt.X]
			if !ok {
				row = make([]string, len(columns))
				row[0] = formatNumber(p, pt.X)
				cells[pt.X] = row
			}
			v := formatNumber(p, pt.Y)
			if row[col] != "" {
				// Two visits on the same day.
				v = row[col] + "; " + v
			}
			row[col] = v
		}
	}
	place(1, series.ReferenceP3)
	place(2, series.ReferenceP50)
	place(3, series.ReferenceP97)
	place(4, series.Measured)
	place(5, series.Projected)

	ages := make([]float64, 0, len(cells))
	for x := range cells {
		ages = append(ages, x)
	}
	sort.Float64s(ages)
	for _, x := range ages {
		table.Rows = append(table.Rows, cells[x])
	}
	return table
}

func formatNumber(p *message.Printer, v float64) string {
	return strings.TrimSpace(p.Sprintf("%.2f", v))
}
