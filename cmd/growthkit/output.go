package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spektr-org/growthkit/engine"
	"github.com/spektr-org/growthkit/record"
	"github.com/spektr-org/growthkit/render"
)

// ============================================================================
// OUTPUT TYPES
// ============================================================================

type report struct {
	Child  childInfo      `json:"child"`
	Age    string         `json:"age,omitempty"`
	Charts []chartReport  `json:"charts"`
	Issues []record.Issue `json:"issues,omitempty"`
}

type childInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	BirthDate string `json:"birthDate"`
}

type chartReport struct {
	Type     engine.MeasurementType `json:"type"`
	Reply    string                 `json:"reply"`
	Series   engine.GrowthSeries    `json:"series"`
	Summary  *engine.TextData       `json:"summary,omitempty"`
	Excluded []engine.Exclusion     `json:"excluded,omitempty"`
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v interface{}, format string) error {
	var out []byte
	var err error

	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// ============================================================================
// CSV OUTPUT — Sheets-ready chart tables
// ============================================================================

// writeCSV writes one table per measurement. Several tables are separated by
// an empty record.
func writeCSV(w io.Writer, rep report, lang string) error {
	cw := csv.NewWriter(w)
	for i, c := range rep.Charts {
		if i > 0 {
			if err := cw.Write([]string{}); err != nil {
				return err
			}
		}
		table := engine.BuildTable(c.Series, c.Type, lang)
		if err := cw.Write(columnLabels(table)); err != nil {
			return err
		}
		if err := cw.WriteAll(table.Rows); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ============================================================================
// TEXT OUTPUT
// ============================================================================

func writeText(w io.Writer, rep report) error {
	var lines []string
	head := rep.Child.Name
	if head == "" {
		head = rep.Child.ID
	}
	if rep.Age != "" {
		head += ", " + rep.Age
	}
	lines = append(lines, head)
	for _, c := range rep.Charts {
		lines = append(lines, c.Reply)
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func writeTable(w io.Writer, rep report, lang string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for i, c := range rep.Charts {
		table := engine.BuildTable(c.Series, c.Type, lang)
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintln(tw, table.Title)
		fmt.Fprintln(tw, strings.Join(columnLabels(table), "\t")+"\t")
		for _, row := range table.Rows {
			fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
		}
	}
	return tw.Flush()
}

func columnLabels(table *engine.TableData) []string {
	labels := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		labels[i] = col.Label
	}
	return labels
}

// ============================================================================
// IMAGE OUTPUT
// ============================================================================

// writeImages renders one chart per measurement. A single chart may go to
// stdout; several need --out, which gets the measurement name appended.
func writeImages(rep report, opts cliOptions, stdout io.Writer) error {
	format, err := render.ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	if opts.Out == "" && len(rep.Charts) > 1 {
		return fmt.Errorf("--out is required for %s output of several measurements", opts.Format)
	}

	for _, c := range rep.Charts {
		cfg := engine.BuildChart(c.Series, c.Type, opts.Lang)
		if cfg == nil {
			log.Printf("⚠️ %s", c.Reply)
			continue
		}
		if opts.Out == "" {
			return render.Chart(stdout, cfg, format, opts.Width, opts.Height)
		}

		path := opts.Out
		if len(rep.Charts) > 1 {
			ext := filepath.Ext(path)
			path = strings.TrimSuffix(path, ext) + "-" + string(c.Type) + ext
		}
		if err := writeImageFile(path, cfg, format, opts.Width, opts.Height); err != nil {
			return err
		}
		log.Printf("🖼️ %s chart written to %s", c.Type, path)
	}
	return nil
}

func writeImageFile(path string, cfg *engine.ChartConfig, format render.Format, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := render.Chart(f, cfg, format, width, height); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
