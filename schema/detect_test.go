package schema

import (
	"errors"
	"testing"
)

// ============================================================================
// DETECTION TESTS
// ============================================================================

func TestDetectItalianHeaders(t *testing.T) {
	headers := []string{"Data", "Tipo", "Peso (kg)", "Altezza (cm)", "Circonferenza cranica", "Note"}
	rows := [][]string{{"2023-02-01", "Bilancio", "4,5", "54", "37", ""}}

	cols, err := DetectVisitColumns(headers, rows)
	if err != nil {
		t.Fatalf("DetectVisitColumns failed: %v", err)
	}
	want := map[Field]int{FieldDate: 0, FieldKind: 1, FieldWeight: 2, FieldHeight: 3, FieldHead: 4, FieldNotes: 5}
	for f, i := range want {
		if got := cols.Index(f); got != i {
			t.Errorf("%s → column %d, want %d", f, got, i)
		}
	}
	for _, m := range cols.Matches {
		if m.DetectedBy != ByHeader {
			t.Errorf("%s detected by %s, want header", m.Field, m.DetectedBy)
		}
	}
	if len(cols.SkippedColumns) != 0 {
		t.Errorf("skipped = %v", cols.SkippedColumns)
	}
	if cols.Matches[0].Field != FieldDate {
		t.Errorf("matches not in field order: %v", cols)
	}
}

func TestDetectByContent(t *testing.T) {
	headers := []string{"#", "When", "A", "B", "C", "Comment"}
	rows := [][]string{
		{"1", "2023-02-01", "4.5", "54", "37", "ok"},
		{"2", "2023-04-01", "6.0", "58", "39", ""},
		{"3", "2023-07-01", "7.9", "66", "42", "fine"},
	}
	cols, err := DetectVisitColumns(headers, rows)
	if err != nil {
		t.Fatalf("DetectVisitColumns failed: %v", err)
	}
	want := map[Field]int{FieldDate: 1, FieldWeight: 2, FieldHeight: 3, FieldHead: 4}
	for f, i := range want {
		if got := cols.Index(f); got != i {
			t.Errorf("%s → column %d, want %d", f, got, i)
		}
	}
	for _, m := range cols.Matches {
		if m.DetectedBy != ByContent {
			t.Errorf("%s detected by %s, want content", m.Field, m.DetectedBy)
		}
	}

	skipped := map[string]bool{}
	for _, s := range cols.SkippedColumns {
		skipped[s.Column] = true
	}
	if !skipped["#"] || !skipped["Comment"] || len(skipped) != 2 {
		t.Errorf("skipped = %v", cols.SkippedColumns)
	}
}

func TestDetectHeaderBeatsContent(t *testing.T) {
	// "Peso" is claimed by header, so the unlabeled light column is not weight.
	headers := []string{"Visit date", "Peso", "X"}
	rows := [][]string{{"2023-02-01", "4.5", "3"}, {"2023-03-01", "5.0", "4"}}
	cols, err := DetectVisitColumns(headers, rows)
	if err != nil {
		t.Fatal(err)
	}
	if cols.Index(FieldWeight) != 1 || cols.Has(FieldHeight) || cols.Has(FieldHead) {
		t.Errorf("cols = %v", cols)
	}
}

func TestDetectFailures(t *testing.T) {
	_, err := DetectVisitColumns([]string{"Peso"}, [][]string{{"4.5"}})
	if !errors.Is(err, ErrNoDateColumn) {
		t.Errorf("error = %v, want ErrNoDateColumn", err)
	}
	_, err = DetectVisitColumns([]string{"Data", "Note"}, [][]string{{"2023-02-01", "ok"}})
	if !errors.Is(err, ErrNoMeasurementColumn) {
		t.Errorf("error = %v, want ErrNoMeasurementColumn", err)
	}
}

func TestCell(t *testing.T) {
	cols := VisitColumns{Matches: []ColumnMatch{{Field: FieldDate, Index: 0}, {Field: FieldWeight, Index: 3}}}
	row := []string{"2023-02-01", "x"}
	if cols.Cell(row, FieldDate) != "2023-02-01" {
		t.Errorf("date cell = %q", cols.Cell(row, FieldDate))
	}
	if cols.Cell(row, FieldWeight) != "" || cols.Cell(row, FieldNotes) != "" {
		t.Errorf("missing cells should be empty")
	}
}

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Weight (kg)":           "weight_kg",
		"circonferenzaCranica":  "circonferenza_cranica",
		" Visit-Date ":          "visit_date",
		"Head circumference cm": "head_circumference_cm",
		"PESO":                  "peso",
	}
	for in, want := range cases {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDetectType(t *testing.T) {
	cases := []struct {
		values []string
		want   columnType
	}{
		{[]string{"2023-01-01", "2023-02-01"}, typeDate},
		{[]string{"4,5", "5.1 kg", "６"}, typeNumeric},
		{[]string{"ok", "fine", "4.5"}, typeString},
	}
	for _, tc := range cases {
		if got := detectType(tc.values); got != tc.want {
			t.Errorf("detectType(%v) = %v, want %v", tc.values, got, tc.want)
		}
	}
}
