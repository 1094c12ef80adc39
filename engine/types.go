package engine

import "encoding/json"

// ============================================================================
// GROWTHKIT ENGINE TYPES
// ============================================================================
// Input contract:  Child snapshot (birth date + free-text visit log)
// Output contract: GrowthSeries per measurement type, x = age in months
//
// The engine never owns consumer data and never performs I/O.
// ============================================================================

// ============================================================================
// INPUT — Child snapshot supplied by the record layer
// ============================================================================

// Child is a read-only snapshot of one child's booklet.
// BirthDate and every Visit field are kept as the user typed them.
type Child struct {
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	BirthDate string  `json:"birthDate"`
	Visits    []Visit `json:"visits"`
}

// Visit is one entry of the visit log.
type Visit struct {
	Date              string `json:"date"`
	Kind              string `json:"kind,omitempty"`
	Weight            string `json:"weight"`
	Height            string `json:"height"`
	HeadCircumference string `json:"headCircumference,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

// Field returns the raw text recorded for a measurement type.
func (v Visit) Field(mt MeasurementType) string {
	switch mt {
	case Weight:
		return v.Weight
	case Height:
		return v.Height
	case HeadCircumference:
		return v.HeadCircumference
	default:
		return ""
	}
}

// ============================================================================
// MEASUREMENT TYPES
// ============================================================================

// MeasurementType selects the visit field and the reference table.
type MeasurementType string

const (
	Weight            MeasurementType = "weight"
	Height            MeasurementType = "height"
	HeadCircumference MeasurementType = "head"
)

// MeasurementTypes lists every supported type in display order.
var MeasurementTypes = []MeasurementType{Weight, Height, HeadCircumference}

// Valid reports whether mt is a supported measurement type.
func (mt MeasurementType) Valid() bool {
	switch mt {
	case Weight, Height, HeadCircumference:
		return true
	}
	return false
}

// Unit returns the display unit for the measurement type.
func (mt MeasurementType) Unit() string {
	if mt == Weight {
		return "kg"
	}
	return "cm"
}

// ============================================================================
// SERIES — Render-ready output
// ============================================================================

// Point is a single chart coordinate: X is age in months.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MeasurementPoint is one usable measurement of a child.
type MeasurementPoint struct {
	AgeMonths float64 `json:"ageMonths"`
	Value     float64 `json:"value"`
	Visit     int     `json:"visit"` // index into the source visit list
}

// Point converts the measurement into a chart coordinate.
func (m MeasurementPoint) Point() Point {
	return Point{X: m.AgeMonths, Y: m.Value}
}

// GrowthSeries is everything a renderer needs for one measurement type.
// Every slice is non-nil and sorted by X.
type GrowthSeries struct {
	ReferenceP3  []Point `json:"referenceP3"`
	ReferenceP50 []Point `json:"referenceP50"`
	ReferenceP97 []Point `json:"referenceP97"`
	Measured     []Point `json:"measured"`
	Projected    []Point `json:"projected"`
}

// IsEmpty reports whether there is nothing to plot.
func (s GrowthSeries) IsEmpty() bool {
	return len(s.Measured) == 0
}

func emptySeries() GrowthSeries {
	return GrowthSeries{
		ReferenceP3:  []Point{},
		ReferenceP50: []Point{},
		ReferenceP97: []Point{},
		Measured:     []Point{},
		Projected:    []Point{},
	}
}

// Percentiles is one interpolated reference triple.
type Percentiles struct {
	P3  float64 `json:"p3"`
	P50 float64 `json:"p50"`
	P97 float64 `json:"p97"`
}

// Exclusion records why a visit contributed no point.
// Reason is one of the Err* sentinels.
type Exclusion struct {
	Visit  int
	Reason error
}

// MarshalJSON encodes the reason as its message.
func (e Exclusion) MarshalJSON() ([]byte, error) {
	reason := ""
	if e.Reason != nil {
		reason = e.Reason.Error()
	}
	return json.Marshal(struct {
		Visit  int    `json:"visit"`
		Reason string `json:"reason"`
	}{e.Visit, reason})
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig describes a line chart over age in months.
type ChartConfig struct {
	ChartType  string         `json:"chartType"`
	Title      string         `json:"title"`
	XAxis      string         `json:"xAxis"`
	YAxis      string         `json:"yAxis"`
	Datasets   []ChartDataset `json:"datasets"`
	ShowLegend bool           `json:"showLegend"`
	ShowGrid   bool           `json:"showGrid"`
}

// ChartDataset is one line of the chart.
type ChartDataset struct {
	Name           string  `json:"name"`
	Role           string  `json:"role"` // "p3", "p50", "p97", "measured", "projected"
	Data           []Point `json:"data"`
	Color          string  `json:"color"`
	BorderWidth    float64 `json:"borderWidth"`
	Dashed         bool    `json:"dashed,omitempty"`
	ShowPoints     bool    `json:"showPoints,omitempty"`
	HideFromLegend bool    `json:"hideFromLegend,omitempty"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}

// ============================================================================
// TEXT TYPES
// ============================================================================

// TextData summarizes the latest measurement of one type.
type TextData struct {
	Value     string      `json:"value"`
	RawValue  float64     `json:"rawValue"`
	Unit      string      `json:"unit"`
	AgeMonths float64     `json:"ageMonths"`
	Position  string      `json:"position,omitempty"` // "below_p3", "p3_p50", "p50_p97", "above_p97"
	Count     int         `json:"count"`
	Growth    *GrowthData `json:"growth,omitempty"`
}

// GrowthData describes the change between the last two measurements.
type GrowthData struct {
	EarliestValue float64 `json:"earliestValue"`
	LatestValue   float64 `json:"latestValue"`
	EarliestAge   float64 `json:"earliestAge"`
	LatestAge     float64 `json:"latestAge"`
	ChangeAmount  float64 `json:"changeAmount"`
	MonthlyRate   float64 `json:"monthlyRate"`
	Direction     string  `json:"direction"` // "increased", "decreased", "unchanged", "insufficient data"
}

// ============================================================================
// REQUEST / RESULT — Dispatcher contract
// ============================================================================

// Request asks Execute for one rendering of one measurement type.
type Request struct {
	Intent string          `json:"intent"` // "series", "chart", "table", "text"
	Type   MeasurementType `json:"type"`
	Lang   string          `json:"lang,omitempty"` // BCP 47, defaults to English
}

// Result is the engine's render-ready output.
// Exactly one of Series, ChartConfig, TableData, Data is populated.
type Result struct {
	Type        string          `json:"type"`
	Measurement MeasurementType `json:"measurement"`
	Reply       string          `json:"reply,omitempty"`
	Series      *GrowthSeries   `json:"series,omitempty"`
	ChartConfig *ChartConfig    `json:"chartConfig,omitempty"`
	TableData   *TableData      `json:"tableData,omitempty"`
	Data        *TextData       `json:"data,omitempty"`
	Excluded    []Exclusion     `json:"excluded,omitempty"`
}
