package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/spektr-org/growthkit/engine"
)

// envConfig holds defaults that flags may override.
type envConfig struct {
	CachePath        string `env:"GROWTHKIT_CACHE_PATH"`
	ProjectionMonths int    `env:"GROWTHKIT_PROJECTION_MONTHS" envDefault:"6"`
	Lang             string `env:"GROWTHKIT_LANG"              envDefault:"en"`
	ChartWidth       int    `env:"GROWTHKIT_CHART_WIDTH"       envDefault:"1024"`
	ChartHeight      int    `env:"GROWTHKIT_CHART_HEIGHT"      envDefault:"640"`
}

// parseEnv loads envConfig from environment, or from the process
// environment when environment is nil.
func parseEnv(environment map[string]string) (envConfig, error) {
	var cfg envConfig
	opts := env.Options{}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return envConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// cliOptions is the resolved command line.
type cliOptions struct {
	File             string
	Birth            string
	Child            string
	Types            []engine.MeasurementType
	Format           string
	Out              string
	Cache            string
	Lang             string
	ProjectionMonths int
	Width            int
	Height           int
	Version          bool
}

var formats = []string{"json", "pretty", "csv", "text", "table", "png", "svg"}

const usageHeader = `growthkit — growth charts from a health booklet

Usage:
  growthkit --file booklet.json --type weight --format pretty
  growthkit --file booklet.json --child 1 --type all --format png --out chart.png
  growthkit --file visits.csv --birth 2023-01-01 --type height --format table

Flags:
`

const usageFooter = `
Environment:
  GROWTHKIT_CACHE_PATH          Default for --cache
  GROWTHKIT_PROJECTION_MONTHS   Projection horizon in months (default 6, 0 disables)
  GROWTHKIT_LANG                Default for --lang
  GROWTHKIT_CHART_WIDTH         Image width in pixels (default 1024)
  GROWTHKIT_CHART_HEIGHT        Image height in pixels (default 640)

Formats:
  json      Full JSON report (default)
  pretty    Pretty-printed JSON report
  csv       Chart table as CSV (ready for Sheets/Excel)
  text      One summary line per measurement
  table     Aligned plain-text table
  png, svg  Chart image; with --type all, one file per measurement
`

// parseFlags resolves args against environment defaults.
func parseFlags(args []string, defaults envConfig, stderr io.Writer) (cliOptions, error) {
	fs := flag.NewFlagSet("growthkit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts cliOptions
	var typ string
	fs.StringVar(&opts.File, "file", "", "Path to booklet JSON or visits CSV (required)")
	fs.StringVar(&opts.Birth, "birth", "", "Birth date (YYYY-MM-DD), required for CSV input")
	fs.StringVar(&opts.Child, "child", "", "Child id or 0-based index in the booklet (default first)")
	fs.StringVar(&typ, "type", "weight", "Measurement: weight, height, head, all")
	fs.StringVar(&opts.Format, "format", "json", "Output format: "+strings.Join(formats, ", "))
	fs.StringVar(&opts.Out, "out", "", "Write output to file instead of stdout")
	fs.StringVar(&opts.Cache, "cache", defaults.CachePath, "Path to SQLite series cache (optional)")
	fs.StringVar(&opts.Lang, "lang", defaults.Lang, "Label language: en, it")
	fs.BoolVar(&opts.Version, "version", false, "Print version and exit")
	fs.Usage = func() {
		fmt.Fprint(stderr, usageHeader)
		fs.PrintDefaults()
		fmt.Fprint(stderr, usageFooter)
	}

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	opts.ProjectionMonths = defaults.ProjectionMonths
	opts.Width = defaults.ChartWidth
	opts.Height = defaults.ChartHeight
	if opts.Version {
		return opts, nil
	}

	if opts.File == "" {
		fs.Usage()
		return cliOptions{}, fmt.Errorf("--file is required")
	}
	if !contains(formats, opts.Format) {
		return cliOptions{}, fmt.Errorf("unknown format %q", opts.Format)
	}

	if typ == "all" {
		opts.Types = engine.MeasurementTypes
	} else {
		mt := engine.MeasurementType(typ)
		if !mt.Valid() {
			return cliOptions{}, fmt.Errorf("unknown measurement type %q", typ)
		}
		opts.Types = []engine.MeasurementType{mt}
	}
	return opts, nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
