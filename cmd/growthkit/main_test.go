package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spektr-org/growthkit/engine"
	"github.com/spektr-org/growthkit/record"
)

const bookletJSON = `{
  "children": [
    {
      "id": "child_a",
      "nome": "Luca",
      "cognome": "Rossi",
      "dataNascita": "2023-01-01",
      "visite": [
        {"data": "2023-02-01", "peso": "4,5", "altezza": "54"},
        {"data": "2023-04-01", "peso": "6.0", "altezza": "60"},
        {"data": "", "peso": "7"}
      ]
    }
  ],
  "notesVersion": 1
}`

var today = time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func mustParseFlags(t *testing.T, args ...string) cliOptions {
	t.Helper()
	defaults, err := parseEnv(map[string]string{})
	if err != nil {
		t.Fatal(err)
	}
	opts, err := parseFlags(args, defaults, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags(%v): %v", args, err)
	}
	return opts
}

// ============================================================================
// CONFIG
// ============================================================================

func TestParseEnvDefaults(t *testing.T) {
	cfg, err := parseEnv(map[string]string{})
	if err != nil {
		t.Fatal(err)
	}
	want := envConfig{ProjectionMonths: 6, Lang: "en", ChartWidth: 1024, ChartHeight: 640}
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	cfg, err := parseEnv(map[string]string{
		"GROWTHKIT_CACHE_PATH":        "/tmp/cache.db",
		"GROWTHKIT_PROJECTION_MONTHS": "0",
		"GROWTHKIT_LANG":              "it",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CachePath != "/tmp/cache.db" || cfg.ProjectionMonths != 0 || cfg.Lang != "it" {
		t.Errorf("cfg = %+v", cfg)
	}
	if _, err := parseEnv(map[string]string{"GROWTHKIT_CHART_WIDTH": "wide"}); err == nil {
		t.Errorf("non-numeric width should fail")
	}
}

func TestParseFlags(t *testing.T) {
	opts := mustParseFlags(t, "--file", "b.json", "--type", "all", "--format", "table", "--lang", "it")
	if len(opts.Types) != 3 || opts.Format != "table" || opts.Lang != "it" || opts.Width != 1024 {
		t.Errorf("opts = %+v", opts)
	}

	defaults := envConfig{Lang: "en"}
	bad := [][]string{
		{},
		{"--file", "b.json", "--type", "bmi"},
		{"--file", "b.json", "--format", "xml"},
		{"--nope"},
	}
	for _, args := range bad {
		if _, err := parseFlags(args, defaults, io.Discard); err == nil {
			t.Errorf("parseFlags(%v) should fail", args)
		}
	}
	if opts, err := parseFlags([]string{"--version"}, defaults, io.Discard); err != nil || !opts.Version {
		t.Errorf("--version = %+v, %v", opts, err)
	}
}

// ============================================================================
// RUN
// ============================================================================

func TestRunJSONReport(t *testing.T) {
	path := writeTemp(t, "booklet.json", bookletJSON)
	opts := mustParseFlags(t, "--file", path, "--type", "weight")

	var out bytes.Buffer
	if err := run(context.Background(), opts, &out, today); err != nil {
		t.Fatalf("run: %v", err)
	}
	// Exclusion reasons are sentinel errors, so the report is read back
	// without them.
	var rep struct {
		Child  childInfo
		Age    string
		Issues []record.Issue
		Charts []struct {
			Series  engine.GrowthSeries
			Summary *engine.TextData
		}
	}
	if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out.String())
	}
	if rep.Child.ID != "child_a" || rep.Child.Name != "Luca Rossi" {
		t.Errorf("child = %+v", rep.Child)
	}
	if rep.Age != "5 months, 14 days" {
		t.Errorf("age = %q", rep.Age)
	}
	if len(rep.Charts) != 1 {
		t.Fatalf("charts = %d", len(rep.Charts))
	}
	c := rep.Charts[0]
	if len(c.Series.Measured) != 2 || len(c.Series.ReferenceP50) != 13 || len(c.Series.Projected) != 5 {
		t.Errorf("series sizes = %d/%d/%d", len(c.Series.Measured), len(c.Series.ReferenceP50), len(c.Series.Projected))
	}
	if c.Summary == nil || c.Summary.Position != "p3_p50" {
		t.Errorf("summary = %+v", c.Summary)
	}
	if len(rep.Issues) != 1 {
		t.Errorf("issues = %+v", rep.Issues)
	}
	if !strings.Contains(out.String(), `"excluded":[{"visit":2,"reason":"missing date"}]`) {
		t.Errorf("exclusion missing from %s", out.String())
	}
}

func TestRunTextFromCSV(t *testing.T) {
	path := writeTemp(t, "luca.csv", "Data;Peso;Altezza\n2023-02-01;4,5;54\n2023-04-01;6,0;60\n")
	opts := mustParseFlags(t, "--file", path, "--birth", "2023-01-01", "--type", "all", "--format", "text")

	var out bytes.Buffer
	if err := run(context.Background(), opts, &out, today); err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "luca, 5 months, 14 days" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Latest weight: 6.00 kg") {
		t.Errorf("weight line = %q", lines[1])
	}
	if lines[3] != "No head circumference measurements to plot." {
		t.Errorf("head line = %q", lines[3])
	}
}

func TestRunCSVNeedsBirthDate(t *testing.T) {
	path := writeTemp(t, "visits.csv", "date,weight\n2023-02-01,4.5\n")
	opts := mustParseFlags(t, "--file", path)
	if err := run(context.Background(), opts, io.Discard, today); err == nil {
		t.Errorf("missing --birth should fail")
	}
	opts.Birth = "yesterday"
	if err := run(context.Background(), opts, io.Discard, today); err == nil {
		t.Errorf("bad --birth should fail")
	}
}

func TestRunTabularFormats(t *testing.T) {
	path := writeTemp(t, "booklet.json", bookletJSON)

	var csvOut bytes.Buffer
	if err := run(context.Background(), mustParseFlags(t, "--file", path, "--format", "csv"), &csvOut, today); err != nil {
		t.Fatalf("run csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(csvOut.String()), "\n")
	if lines[0] != "Age (months),P3,P50,P97,Measured,Projected" || len(lines) != 16 {
		t.Errorf("csv header=%q lines=%d", lines[0], len(lines))
	}

	var tableOut bytes.Buffer
	if err := run(context.Background(), mustParseFlags(t, "--file", path, "--format", "table", "--lang", "it"), &tableOut, today); err != nil {
		t.Fatalf("run table: %v", err)
	}
	if !strings.HasPrefix(tableOut.String(), "Peso per età") {
		t.Errorf("table = %q", tableOut.String())
	}
}

func TestRunImages(t *testing.T) {
	path := writeTemp(t, "booklet.json", bookletJSON)
	out := filepath.Join(t.TempDir(), "chart.png")
	opts := mustParseFlags(t, "--file", path, "--type", "all", "--format", "png", "--out", out)

	if err := run(context.Background(), opts, io.Discard, today); err != nil {
		t.Fatalf("run: %v", err)
	}
	dir := filepath.Dir(out)
	for _, name := range []string{"chart-weight.png", "chart-height.png"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if !bytes.HasPrefix(data, []byte("\x89PNG")) {
			t.Errorf("%s is not a PNG", name)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "chart-head.png")); !os.IsNotExist(err) {
		t.Errorf("head chart should not be written: %v", err)
	}

	opts.Out = ""
	if err := run(context.Background(), opts, io.Discard, today); err == nil {
		t.Errorf("several images without --out should fail")
	}
}

func TestRunWithCache(t *testing.T) {
	path := writeTemp(t, "booklet.json", bookletJSON)
	cachePath := filepath.Join(t.TempDir(), "cache.db")
	opts := mustParseFlags(t, "--file", path, "--cache", cachePath, "--type", "height")

	var first, second bytes.Buffer
	if err := run(context.Background(), opts, &first, today); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := run(context.Background(), opts, &second, today); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first.String() != second.String() {
		t.Errorf("cached run differs")
	}
	if _, err := os.Stat(cachePath); err != nil {
		t.Errorf("cache file: %v", err)
	}
}

func TestRunCacheFollowsProjectionSetting(t *testing.T) {
	path := writeTemp(t, "booklet.json", bookletJSON)
	cachePath := filepath.Join(t.TempDir(), "cache.db")

	projected := func(environment map[string]string) int {
		t.Helper()
		defaults, err := parseEnv(environment)
		if err != nil {
			t.Fatal(err)
		}
		opts, err := parseFlags([]string{"--file", path, "--cache", cachePath}, defaults, io.Discard)
		if err != nil {
			t.Fatal(err)
		}
		var out bytes.Buffer
		if err := run(context.Background(), opts, &out, today); err != nil {
			t.Fatalf("run: %v", err)
		}
		var rep struct {
			Charts []struct{ Series engine.GrowthSeries }
		}
		if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return len(rep.Charts[0].Series.Projected)
	}

	if n := projected(map[string]string{}); n != 5 {
		t.Errorf("default horizon projected %d points, want 5", n)
	}
	if n := projected(map[string]string{"GROWTHKIT_PROJECTION_MONTHS": "0"}); n != 0 {
		t.Errorf("disabled projection served %d cached points", n)
	}
}

func TestLoadChildSelectsByIndex(t *testing.T) {
	opts := cliOptions{Child: "0"}
	child, _, err := loadChild([]byte(bookletJSON), opts)
	if err != nil {
		t.Fatal(err)
	}
	if child.ID != "child_a" || len(child.Visits) != 3 {
		t.Errorf("child = %+v", child)
	}
	opts.Child = "7"
	if _, _, err := loadChild([]byte(bookletJSON), opts); err == nil {
		t.Errorf("missing child should fail")
	}
	if !isJSON([]byte("\xef\xbb\xbf  {\"children\":[]}")) || isJSON([]byte("date,weight")) {
		t.Errorf("isJSON misclassified input")
	}
}
