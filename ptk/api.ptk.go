package ptk

import "math"

// Params is the shared parameter record of the kernel formulas.
// It is never mutated by the library; formulas take it by pointer.
type Params struct {
	AlphaPrime float64 `yaml:"alpha_prime" validate:"gt=0"` // Regge slope
	AOpen      float64 `yaml:"a_open"`                      // open string normal-ordering intercept
	AClosed    float64 `yaml:"a_closed"`                    // closed string normal-ordering intercept
	R1         float64 `yaml:"r1" validate:"gt=0"`          // torus radius, direction 1
	R2         float64 `yaml:"r2" validate:"gt=0"`          // torus radius, direction 2
	C1         float64 `yaml:"c1"`                          // charge map: momentum coefficients
	C2         float64 `yaml:"c2"`
	D1         float64 `yaml:"d1"` // charge map: winding coefficients
	D2         float64 `yaml:"d2"`
}

// DefaultParams returns the reference parameter set.
func DefaultParams() Params {
	return Params{
		AlphaPrime: 1.0,
		AOpen:      1.0,
		AClosed:    2.0,
		R1:         1.2,
		R2:         0.9,
		C1:         1.0 / 3.0,
		C2:         -1.0 / 3.0,
		D1:         0.5,
		D2:         0.0,
	}
}

// StateSpec is one admissible open string state.
// A StateSpec only exists if its mass-squared is non-negative.
type StateSpec struct {
	Level uint32 // oscillator level
	M1    int32  // KK momentum, direction 1
	M2    int32  // KK momentum, direction 2
	W1    int32  // winding, direction 1
	W2    int32  // winding, direction 2
	Mass  float64
	Q     float64
}

// Mass2 returns the mass-squared this state was built from.
func (s *StateSpec) Mass2() float64 {
	return s.Mass * s.Mass
}

// Integer is the set of quantum number types a Span ranges over.
type Integer interface {
	~int32 | ~uint32
}

// Span is an inclusive range of integers.  A Span with First > Last is empty.
type Span[T Integer] struct {
	First T
	Last  T
}

// SpanOf is a convenience constructor for a Span.
func SpanOf[T Integer](first, last T) Span[T] {
	return Span[T]{First: first, Last: last}
}

// Len returns the number of values in this Span.
func (s Span[T]) Len() int64 {
	if s.Last < s.First {
		return 0
	}
	return int64(s.Last) - int64(s.First) + 1
}

// At returns the i-th value of this Span (zero-based).
//
// Wrapping conversion is intended: First + T(i) lands on the right value for every i < Len().
func (s Span[T]) At(i int64) T {
	return s.First + T(i)
}

// Contains returns true if v is within this Span.
func (s Span[T]) Contains(v T) bool {
	return v >= s.First && v <= s.Last
}

// Vec3 is a cartesian 3-vector.
type Vec3 [3]float64

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Vec3) Scale(k float64) Vec3 {
	return Vec3{k * a[0], k * a[1], k * a[2]}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (a Vec3) Norm() float64 {
	return math.Sqrt(a.Dot(a))
}

// OnStateHit is a callback proc used to return states meeting a set of selection criteria.
type OnStateHit chan<- StateSpec

// StateAdder accepts states, typically into some kind of set or catalog.
type StateAdder interface {

	// Tries to add the given state.
	// If true is returned, s was not already present and was added.
	TryAddState(s StateSpec) bool
}

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Closes all open catalogs then closes.
	Close()

	// Signals when Close() completed and all open Catalogs have been closed
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a state Catalog
type CatalogOpts struct {
	DbPathName string // omit for in-memory db
	ReadOnly   bool   // open in read-only mode
	Params     Params // params the catalog's states are computed from
}

// Catalog wraps a database of enumerated states and archived PTK documents.
type Catalog interface {
	StateAdder

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// Params returns the params this catalog was created with.
	Params() Params

	// NumStates returns the number of states in this catalog for a given level.
	NumStates(level uint32) int64

	// Select sends each state that meets the selection criteria, in enumeration order.
	Select(sel StateSelector, onHit OnStateHit)

	// PutDocument archives the given raw document and returns its digest.
	PutDocument(raw []byte) (string, error)

	// GetDocument returns the raw document previously archived under the given digest.
	GetDocument(digest string) ([]byte, error)

	// Close is idempotent.  Afterwards TryAddState returns false, Select sends nothing
	// and document access fails with ErrCatalogClosed.
	Close() error
}

// StateSelector is an operator that either selects a given state or not.
type StateSelector struct {
	Levels  Span[uint32] // level bounds
	MassMin float64      // lower mass bound (inclusive)
	MassMax float64      // upper mass bound (inclusive)
	QMin    float64      // lower charge bound (inclusive)
	QMax    float64      // upper charge bound (inclusive)
}

// DefaultStateSelector selects all states.
var DefaultStateSelector = StateSelector{
	Levels:  Span[uint32]{0, math.MaxUint32},
	MassMin: 0,
	MassMax: math.Inf(+1),
	QMin:    math.Inf(-1),
	QMax:    math.Inf(+1),
}

// SelectsState is a convenience function used to see if a state is selected according to a StateSelector.
func (sel *StateSelector) SelectsState(s *StateSpec) bool {
	if !sel.Levels.Contains(s.Level) {
		return false
	}
	if s.Mass < sel.MassMin || s.Mass > sel.MassMax {
		return false
	}
	if s.Q < sel.QMin || s.Q > sel.QMax {
		return false
	}
	return true
}

// PrintOpts specifies what is printed when printing a state
type PrintOpts struct {
	Label  string // Prefix label
	Mass2  bool   // If set, mass-squared is printed alongside mass
	Charge bool   // If set, the charge is printed
}

// DefaultPrintOpts{}
var DefaultPrintOpts = PrintOpts{
	Charge: true,
}
