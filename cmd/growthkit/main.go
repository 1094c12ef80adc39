package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spektr-org/growthkit/cache"
	"github.com/spektr-org/growthkit/cache/sqlite"
	"github.com/spektr-org/growthkit/engine"
	"github.com/spektr-org/growthkit/helpers"
	"github.com/spektr-org/growthkit/record"
)

// ============================================================================
// GROWTHKIT CLI — Growth charts from a health booklet
// ============================================================================

const version = "0.3.0"

func main() {
	defaults, err := parseEnv(nil)
	if err != nil {
		fatalf("%v", err)
	}
	opts, err := parseFlags(os.Args[1:], defaults, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fatalf("%v", err)
	}
	if opts.Version {
		fmt.Printf("growthkit %s\n", version)
		return
	}
	if err := run(context.Background(), opts, os.Stdout, time.Now()); err != nil {
		fatalf("%v", err)
	}
}

// run executes one command line against stdout. today anchors the age line.
func run(ctx context.Context, opts cliOptions, stdout io.Writer, today time.Time) error {
	// ── Read data ─────────────────────────────────────────────────────────
	data, err := os.ReadFile(opts.File)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	child, issues, err := loadChild(data, opts)
	if err != nil {
		return err
	}
	log.Printf("👶 Loaded %s: %d visits, %d issues", childLabel(child), len(child.Visits), len(issues))
	for _, issue := range issues {
		log.Printf("⚠️ %s", issue)
	}

	// ── Series ────────────────────────────────────────────────────────────
	engineOpts := []engine.Option{engine.WithProjectionMonths(opts.ProjectionMonths)}
	source, closeSource, err := newSeriesSource(opts.Cache, engineOpts)
	if err != nil {
		return err
	}
	defer closeSource()

	charts := make([]chartReport, 0, len(opts.Types))
	for _, mt := range opts.Types {
		series, err := source(ctx, child, mt)
		if err != nil {
			return err
		}
		summary, err := engine.Execute(engine.Request{Intent: "text", Type: mt, Lang: opts.Lang}, child, engineOpts...)
		if err != nil {
			return err
		}
		charts = append(charts, chartReport{
			Type:     mt,
			Reply:    summary.Reply,
			Series:   series,
			Summary:  summary.Data,
			Excluded: summary.Excluded,
		})
	}

	rep := report{
		Child:  childInfo{ID: child.ID, Name: child.Name, BirthDate: child.BirthDate},
		Charts: charts,
		Issues: issues,
	}
	if age, ok := engine.AgeBreakdown(child.BirthDate, today); ok {
		rep.Age = age.Format(opts.Lang)
	}

	// ── Render output ─────────────────────────────────────────────────────
	if opts.Format == "png" || opts.Format == "svg" {
		return writeImages(rep, opts, stdout)
	}

	w := stdout
	if opts.Out != "" {
		f, err := os.Create(opts.Out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch opts.Format {
	case "csv":
		err = writeCSV(w, rep, opts.Lang)
	case "text":
		err = writeText(w, rep)
	case "table":
		err = writeTable(w, rep, opts.Lang)
	default:
		err = writeJSON(w, rep, opts.Format)
	}
	if err != nil {
		return err
	}
	if opts.Out != "" {
		log.Printf("📄 %s written to %s", strings.ToUpper(opts.Format), opts.Out)
	}
	return nil
}

// loadChild reads a booklet, or a visits CSV when the data is not JSON.
func loadChild(data []byte, opts cliOptions) (engine.Child, []record.Issue, error) {
	if isJSON(data) {
		booklet, err := record.DecodeBytes(data)
		if err != nil {
			return engine.Child{}, nil, err
		}
		child, err := booklet.Find(opts.Child)
		if err != nil {
			return engine.Child{}, nil, err
		}
		var issues []record.Issue
		for _, issue := range booklet.Validate() {
			if booklet.Children[issue.Child].ID == child.ID {
				issues = append(issues, issue)
			}
		}
		return child, issues, nil
	}

	if opts.Birth == "" {
		return engine.Child{}, nil, fmt.Errorf("--birth is required for CSV input")
	}
	if _, err := engine.ParseDate(opts.Birth); err != nil {
		return engine.Child{}, nil, fmt.Errorf("--birth %q: %w", opts.Birth, err)
	}
	visits, cols, err := helpers.ParseVisitsCSV(data)
	if err != nil {
		return engine.Child{}, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	log.Printf("🔍 CSV columns: %s (%d skipped)", cols, len(cols.SkippedColumns))

	name := strings.TrimSuffix(filepath.Base(opts.File), filepath.Ext(opts.File))
	child := engine.Child{
		ID:        record.ChildID(name, opts.Birth),
		Name:      name,
		BirthDate: opts.Birth,
		Visits:    visits,
	}
	booklet := record.Booklet{Children: []engine.Child{child}}
	return child, booklet.Validate(), nil
}

func isJSON(data []byte) bool {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

type seriesSource func(ctx context.Context, child engine.Child, mt engine.MeasurementType) (engine.GrowthSeries, error)

// newSeriesSource builds series directly, or through the SQLite cache when
// cachePath is set.
func newSeriesSource(cachePath string, opts []engine.Option) (seriesSource, func(), error) {
	if cachePath == "" {
		direct := func(_ context.Context, child engine.Child, mt engine.MeasurementType) (engine.GrowthSeries, error) {
			return engine.BuildSeries(child, mt, opts...), nil
		}
		return direct, func() {}, nil
	}

	store, err := sqlite.Open(cachePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	builder := cache.NewBuilder(store, opts...)
	closer := func() {
		hits, misses := builder.Stats()
		log.Printf("💾 Cache %s: %d hits, %d misses", cachePath, hits, misses)
		if err := store.Close(); err != nil {
			log.Printf("⚠️ close cache: %v", err)
		}
	}
	return builder.Series, closer, nil
}

func childLabel(c engine.Child) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
