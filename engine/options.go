package engine

import (
	"strconv"
	"strings"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for the series builders
// ============================================================================

// Option configures builder behavior via functional options pattern.
type Option func(*config)

type config struct {
	Tables           map[MeasurementType]ReferenceTable
	ProjectionMonths int
	MinAgeDomain     int // reference bands always reach at least this age
	MaxAgeDomain     int // and never past this one
	LeadMonths       int // months of band drawn past the latest measurement
}

// WithReferenceTable replaces the built-in table for one measurement type,
// e.g. with girls' curves.
func WithReferenceTable(mt MeasurementType, table ReferenceTable) Option {
	return func(c *config) {
		c.Tables[mt] = table
	}
}

// WithProjectionMonths sets the projection horizon. Non-positive disables it.
func WithProjectionMonths(months int) Option {
	return func(c *config) {
		c.ProjectionMonths = months
	}
}

// WithAgeDomain bounds the reference band domain in months.
func WithAgeDomain(minMonths, maxMonths int) Option {
	return func(c *config) {
		if minMonths < 0 || maxMonths < minMonths {
			return
		}
		c.MinAgeDomain = minMonths
		c.MaxAgeDomain = maxMonths
	}
}

// WithLeadMonths sets how far past the latest measurement bands are drawn.
func WithLeadMonths(months int) Option {
	return func(c *config) {
		if months >= 0 {
			c.LeadMonths = months
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Tables:           make(map[MeasurementType]ReferenceTable, len(MeasurementTypes)),
		ProjectionMonths: DefaultProjectionMonths,
		MinAgeDomain:     12,
		MaxAgeDomain:     60,
		LeadMonths:       6,
	}
	for _, mt := range MeasurementTypes {
		cfg.Tables[mt] = DefaultTable(mt)
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *config) table(mt MeasurementType) ReferenceTable {
	return c.Tables[mt]
}

// Fingerprint describes the builder settings opts resolve to. Option lists
// that build identical series share a fingerprint.
func Fingerprint(opts ...Option) string {
	cfg := applyOptions(opts)
	var b strings.Builder
	b.WriteString("proj=" + strconv.Itoa(max(cfg.ProjectionMonths, 0)))
	b.WriteString(";domain=" + strconv.Itoa(cfg.MinAgeDomain) + "-" + strconv.Itoa(cfg.MaxAgeDomain))
	b.WriteString(";lead=" + strconv.Itoa(cfg.LeadMonths))
	for _, mt := range MeasurementTypes {
		b.WriteString(";" + string(mt) + "=")
		for i, a := range cfg.table(mt).anchors {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(a.AgeMonths))
			for _, v := range []float64{a.P3, a.P50, a.P97} {
				b.WriteByte('/')
				b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			}
		}
	}
	return b.String()
}
