package engine

// ============================================================================
// VISIT VIEW — Zero-Copy Visit Access Interface
// ============================================================================
// The engine never owns consumer data. It reads visits through this interface.
//
// Implementations:
//   SliceView      — wraps []Visit (booklet snapshots, CSV imports)
//   DomainView[T]  — reads typed structs via accessor functions (zero-copy)
//
// Consumers register accessors once at init; the builder reads each visit once
// per measurement type.
// ============================================================================

// VisitView provides indexed access to a visit log.
type VisitView interface {
	Len() int
	Date(index int) string
	Measurement(index int, mt MeasurementType) string
}

// ============================================================================
// SLICE VIEW — wraps []Visit
// ============================================================================

// SliceView wraps a []Visit slice as a VisitView.
type SliceView struct {
	visits []Visit
}

// NewSliceView creates a VisitView from a []Visit slice.
func NewSliceView(visits []Visit) VisitView {
	return &SliceView{visits: visits}
}

func (v *SliceView) Len() int { return len(v.visits) }

func (v *SliceView) Date(i int) string {
	if i < 0 || i >= len(v.visits) {
		return ""
	}
	return v.visits[i].Date
}

func (v *SliceView) Measurement(i int, mt MeasurementType) string {
	if i < 0 || i >= len(v.visits) {
		return ""
	}
	return v.visits[i].Field(mt)
}

// ============================================================================
// DOMAIN ADAPTER — Zero-copy typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[CheckUp]().
//	    Date(func(c CheckUp) string { return c.Day }).
//	    Measurement(engine.Weight, func(c CheckUp) string { return c.Kg })
//
//	series := engine.BuildSeriesView(birthDate, adapter.Bind(checkUps), engine.Weight)
//
// ============================================================================

// DomainAdapter builds a VisitView from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	date func(T) string
	meas map[MeasurementType]func(T) string
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		meas: make(map[MeasurementType]func(T) string),
	}
}

// Date registers the visit date accessor.
func (a *DomainAdapter[T]) Date(fn func(T) string) *DomainAdapter[T] {
	a.date = fn
	return a
}

// Measurement registers the raw-text accessor for one measurement type.
func (a *DomainAdapter[T]) Measurement(mt MeasurementType, fn func(T) string) *DomainAdapter[T] {
	a.meas[mt] = fn
	return a
}

// Bind creates a VisitView over data without copying it.
func (a *DomainAdapter[T]) Bind(data []T) VisitView {
	return &DomainView[T]{data: data, date: a.date, meas: a.meas}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data []T
	date func(T) string
	meas map[MeasurementType]func(T) string
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Date(i int) string {
	if i < 0 || i >= len(v.data) || v.date == nil {
		return ""
	}
	return v.date(v.data[i])
}

func (v *DomainView[T]) Measurement(i int, mt MeasurementType) string {
	if i < 0 || i >= len(v.data) {
		return ""
	}
	if fn, ok := v.meas[mt]; ok {
		return fn(v.data[i])
	}
	return ""
}
