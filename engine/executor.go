package engine

import (
	"fmt"
	"log"
)

// ============================================================================
// EXECUTOR — Dispatcher
// ============================================================================
// Entry point: Execute(req, child, opts...)
//
// Pipeline:
//   1. Validate the measurement type
//   2. Collect measured points (exclusions kept for the caller)
//   3. Build the GrowthSeries
//   4. Dispatch to builder (series / chart / table / text)
//   5. Resolve the reply line
// ============================================================================

// Execute renders one measurement type of a child as requested.
// Bad visit data never fails; it only shrinks the output. Errors are reserved
// for malformed requests.
func Execute(req Request, child Child, opts ...Option) (*Result, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("unknown measurement type %q", req.Type)
	}
	intent := req.Intent
	if intent == "" {
		intent = "series"
	}

	cfg := applyOptions(opts)
	points, excluded := CollectPoints(child, req.Type)
	series := emptySeries()
	if len(points) > 0 {
		series = assemble(points, cfg.table(req.Type), cfg.bandDomain(maxAge(points)), cfg)
	}

	log.Printf("📈 growthkit: child=%s type=%s intent=%s visits=%d points=%d excluded=%d",
		child.ID, req.Type, intent, len(child.Visits), len(points), len(excluded))

	result := &Result{
		Type:        intent,
		Measurement: req.Type,
		Excluded:    excluded,
	}

	switch intent {
	case "series":
		result.Series = &series
	case "chart":
		result.ChartConfig = BuildChart(series, req.Type, req.Lang)
		if result.ChartConfig == nil {
			result.Type = "text"
			result.Data = BuildText(points, cfg.table(req.Type), req.Type, req.Lang)
		}
	case "table":
		result.TableData = BuildTable(series, req.Type, req.Lang)
	case "text":
		result.Data = BuildText(points, cfg.table(req.Type), req.Type, req.Lang)
	default:
		return nil, fmt.Errorf("unknown intent %q", req.Intent)
	}

	result.Reply = buildReply(points, cfg.table(req.Type), req.Type, req.Lang)
	return result, nil
}

func buildReply(points []MeasurementPoint, table ReferenceTable, mt MeasurementType, lang string) string {
	p := Printer(lang)
	name := p.Sprintf("name." + string(mt))
	if len(points) == 0 {
		return p.Sprintf("reply.empty", name)
	}
	text := BuildText(points, table, mt, lang)
	if text.Position == "" {
		return p.Sprintf("%s: %s", name, text.Value)
	}
	return p.Sprintf("reply.latest", name, text.Value, text.AgeMonths, p.Sprintf("position."+text.Position))
}
