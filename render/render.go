// Package render draws engine chart configs as PNG or SVG images.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/growthkit/engine"
)

// Format is an image encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// Default image size in pixels.
const (
	DefaultWidth  = 1024
	DefaultHeight = 640
)

// ErrNothingToDraw is returned for a nil config or one without data points.
var ErrNothingToDraw = errors.New("render: nothing to draw")

// ParseFormat accepts "png" or "svg" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PNG, SVG:
		return f, nil
	}
	return "", fmt.Errorf("render: unknown format %q", s)
}

// Chart draws cfg to w. Non-positive sizes fall back to the defaults.
func Chart(w io.Writer, cfg *engine.ChartConfig, format Format, width, height int) error {
	if cfg == nil {
		return ErrNothingToDraw
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	var series, legendSeries []chart.Series
	for _, ds := range cfg.Datasets {
		// go-chart rejects series without points.
		if len(ds.Data) == 0 {
			continue
		}
		s := toSeries(ds)
		series = append(series, s)
		if !ds.HideFromLegend {
			legendSeries = append(legendSeries, s)
		}
	}
	if len(series) == 0 {
		return ErrNothingToDraw
	}

	grid := chart.Style{StrokeColor: chart.ColorAlternateGray, StrokeWidth: 0.5}
	ch := chart.Chart{
		Title:      cfg.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: cfg.XAxis},
		YAxis:      chart.YAxis{Name: cfg.YAxis},
		Series:     series,
	}
	if cfg.ShowGrid {
		ch.XAxis.GridMajorStyle = grid
		ch.YAxis.GridMajorStyle = grid
	}
	if cfg.ShowLegend && len(legendSeries) > 0 {
		// Legend reads labels from the chart it is given; bands stay off it.
		legend := ch
		legend.Series = legendSeries
		ch.Elements = []chart.Renderable{chart.Legend(&legend)}
	}

	var provider chart.RendererProvider
	switch format {
	case PNG:
		provider = chart.PNG
	case SVG:
		provider = chart.SVG
	default:
		return fmt.Errorf("render: unknown format %q", format)
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	return nil
}

func toSeries(ds engine.ChartDataset) chart.ContinuousSeries {
	xs := make([]float64, len(ds.Data))
	ys := make([]float64, len(ds.Data))
	for i, p := range ds.Data {
		xs[i], ys[i] = p.X, p.Y
	}

	color := colorFromHex(ds.Color)
	style := chart.Style{
		StrokeColor: color,
		StrokeWidth: ds.BorderWidth,
	}
	if ds.Dashed {
		style.StrokeDashArray = []float64{6, 4}
	}
	if ds.ShowPoints {
		style.DotColor = color
		style.DotWidth = 4
	}
	return chart.ContinuousSeries{Name: ds.Name, XValues: xs, YValues: ys, Style: style}
}

func colorFromHex(hex string) drawing.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(hex)
}
