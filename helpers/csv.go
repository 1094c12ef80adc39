package helpers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spektr-org/growthkit/engine"
	"github.com/spektr-org/growthkit/schema"
)

// ============================================================================
// CSV HELPER — Parses a visit table into []engine.Visit
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, spreadsheet export).
// This helper detects the columns and converts the raw bytes into visits.
// Cell text is kept as typed; the engine does the lenient parsing.
// ============================================================================

// ParseVisitsCSV parses CSV bytes into visits, detecting the column layout.
// Both comma and semicolon separated files are accepted.
func ParseVisitsCSV(data []byte) ([]engine.Visit, schema.VisitColumns, error) {
	headers, rows, err := readCSV(data)
	if err != nil {
		return nil, schema.VisitColumns{}, err
	}
	cols, err := schema.DetectVisitColumns(headers, rows)
	if err != nil {
		return nil, cols, err
	}
	return toVisits(rows, cols), cols, nil
}

// ParseVisitsCSVWith parses CSV bytes with a known column layout.
func ParseVisitsCSVWith(data []byte, cols schema.VisitColumns) ([]engine.Visit, error) {
	_, rows, err := readCSV(data)
	if err != nil {
		return nil, err
	}
	return toVisits(rows, cols), nil
}

// ParseVisitsCSVView parses CSV into a VisitView (convenience wrapper).
func ParseVisitsCSVView(data []byte) (engine.VisitView, schema.VisitColumns, error) {
	visits, cols, err := ParseVisitsCSV(data)
	if err != nil {
		return nil, cols, err
	}
	return engine.NewSliceView(visits), cols, nil
}

func toVisits(rows [][]string, cols schema.VisitColumns) []engine.Visit {
	visits := make([]engine.Visit, 0, len(rows))
	for _, row := range rows {
		visits = append(visits, engine.Visit{
			Date:              strings.TrimSpace(cols.Cell(row, schema.FieldDate)),
			Kind:              strings.TrimSpace(cols.Cell(row, schema.FieldKind)),
			Weight:            strings.TrimSpace(cols.Cell(row, schema.FieldWeight)),
			Height:            strings.TrimSpace(cols.Cell(row, schema.FieldHeight)),
			HeadCircumference: strings.TrimSpace(cols.Cell(row, schema.FieldHead)),
			Notes:             strings.TrimSpace(cols.Cell(row, schema.FieldNotes)),
		})
	}
	return visits
}

// readCSV returns the header and every well-formed, non-blank row.
func readCSV(data []byte) ([]string, [][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		if isBlank(row) {
			continue
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// sniffDelimiter picks ';' when the header line has more of them than commas,
// as spreadsheet exports in comma-decimal locales do.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
