package schema

// ============================================================================
// SCHEMA — Describes how a visit table maps onto engine visits
// ============================================================================
// Detected from CSV headers and content, or built by hand when a consumer
// already knows its export layout. helpers.ParseVisitsCSV reads rows through it.
// ============================================================================

// Field is a visit attribute a column can feed.
type Field string

const (
	FieldDate   Field = "date"
	FieldWeight Field = "weight"
	FieldHeight Field = "height"
	FieldHead   Field = "head"
	FieldKind   Field = "kind"
	FieldNotes  Field = "notes"
)

// Fields lists every visit field in detection order.
var Fields = []Field{FieldDate, FieldWeight, FieldHeight, FieldHead, FieldKind, FieldNotes}

// Detection sources.
const (
	ByHeader  = "header"
	ByContent = "content"
)

// ColumnMatch records which column feeds a field and how that was decided.
type ColumnMatch struct {
	Field      Field  `json:"field"`
	Column     string `json:"column"`
	Index      int    `json:"index"`
	DetectedBy string `json:"detectedBy"` // "header" or "content"
}

// SkippedColumn records why a column was left out.
type SkippedColumn struct {
	Column string `json:"column"`
	Reason string `json:"reason"`
}

// VisitColumns maps table columns to visit fields.
type VisitColumns struct {
	Matches        []ColumnMatch   `json:"matches"`
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty"`
}

// Index returns the column index feeding f, or -1.
func (v VisitColumns) Index(f Field) int {
	for _, m := range v.Matches {
		if m.Field == f {
			return m.Index
		}
	}
	return -1
}

// Has reports whether any column feeds f.
func (v VisitColumns) Has(f Field) bool {
	return v.Index(f) >= 0
}

// Cell returns the value of f in row, or "" when unmapped or out of range.
func (v VisitColumns) Cell(row []string, f Field) string {
	i := v.Index(f)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
