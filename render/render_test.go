package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spektr-org/growthkit/engine"
)

func scenarioChart(t *testing.T) *engine.ChartConfig {
	t.Helper()
	child := engine.Child{
		BirthDate: "2023-01-01",
		Visits: []engine.Visit{
			{Date: "2023-02-01", Weight: "4.5"},
			{Date: "2023-04-01", Weight: "6.0"},
		},
	}
	cfg := engine.BuildChart(engine.BuildSeries(child, engine.Weight), engine.Weight, "en")
	if cfg == nil {
		t.Fatal("expected chart config")
	}
	return cfg
}

func TestChartPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := Chart(&buf, scenarioChart(t), PNG, 640, 400); err != nil {
		t.Fatalf("Chart: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Errorf("output is not a PNG")
	}
}

func TestChartSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := Chart(&buf, scenarioChart(t), SVG, 0, 0); err != nil {
		t.Fatalf("Chart: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Errorf("output is not an SVG")
	}
}

func TestChartSingleMeasurement(t *testing.T) {
	child := engine.Child{BirthDate: "2023-01-01", Visits: []engine.Visit{{Date: "2023-03-01", Height: "58"}}}
	cfg := engine.BuildChart(engine.BuildSeries(child, engine.Height), engine.Height, "it")
	var buf bytes.Buffer
	if err := Chart(&buf, cfg, PNG, 0, 0); err != nil {
		t.Fatalf("Chart: %v", err)
	}
}

func TestChartNothingToDraw(t *testing.T) {
	var buf bytes.Buffer
	if err := Chart(&buf, nil, PNG, 0, 0); !errors.Is(err, ErrNothingToDraw) {
		t.Errorf("nil config error = %v", err)
	}
	empty := &engine.ChartConfig{Datasets: []engine.ChartDataset{{Name: "x"}}}
	if err := Chart(&buf, empty, PNG, 0, 0); !errors.Is(err, ErrNothingToDraw) {
		t.Errorf("empty config error = %v", err)
	}
	if err := Chart(&buf, scenarioChart(t), Format("gif"), 0, 0); err == nil {
		t.Errorf("unknown format should fail")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"png": PNG, " SVG ": SVG} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("jpeg"); err == nil {
		t.Errorf("jpeg should be rejected")
	}
}

func TestColorFromHex(t *testing.T) {
	c := colorFromHex("#4F46E5")
	if c.R != 0x4F || c.G != 0x46 || c.B != 0xE5 {
		t.Errorf("color = %+v", c)
	}
	if colorFromHex("teal") != colorFromHex("#000000") {
		t.Errorf("bad hex should fall back to black")
	}
}
