// Package growthkit turns a child's health-booklet visits into growth charts.
//
// Usage:
//
//	import "github.com/spektr-org/growthkit/engine"
//
//	series := engine.BuildSeries(child, engine.Weight,
//	    engine.WithProjectionMonths(6),
//	)
//
// The engine takes a Child (birth date plus free-text visit measurements) and
// returns render-ready output: reference percentile bands, the measured points
// and a short linear projection, or chart, table and text views built on them.
//
// Booklet decoding lives in record, CSV import in helpers and schema, image
// rendering in render and the optional series cache in cache. The engine never
// touches the network or the filesystem.
package growthkit
