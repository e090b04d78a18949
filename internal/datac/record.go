package datac

import (
	"fmt"
	"reflect"
)

// Projection keys. Parameters and the abscissa name may not use them.
const (
	KeyAbscissae    = "abscissae"
	KeyOrdinates    = "ordinates"
	KeyAbscissaName = "abscissa_name"
	KeyOrdinateName = "ordinate_name"
)

func IsReservedKey(key string) bool {
	switch key {
	case KeyAbscissae, KeyOrdinates, KeyAbscissaName, KeyOrdinateName:
		return true
	}
	return false
}

type Params map[string]any

// Clone returns a deep copy: nested slices and maps are not shared.
func (p Params) Clone() Params {
	return cloneParams(p)
}

// Record binds a fixed parameter set and an abscissa sweep to a calculation
// and the ordinates it produced.
type Record struct {
	params       slot[Params]
	abscissaName slot[string]
	abscissae    slot[[]any]

	// calc and ordinates always transition together.
	calc      slot[Calculation]
	ordinates slot[*Ordinates]
}

// New validates and fixes params, abscissae and name. abscissae must be a
// slice or array of any element type; strings are rejected. A nil calc
// leaves the calculation unset; otherwise ordinates are derived before New
// returns and any derivation error fails construction.
func New(params map[string]any, abscissae any, name string, calc Calculation) (*Record, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}
	values, err := toSequence(abscissae)
	if err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if calc != nil && !callable(calc) {
		return nil, ErrInvalidCalculationRef
	}

	r := &Record{}
	_ = r.params.Set(cloneParams(params))
	_ = r.abscissaName.Set(name)
	_ = r.abscissae.Set(values)

	if calc != nil {
		if err := r.SetCalculation(calc); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func validateParams(params map[string]any) error {
	if params == nil {
		return fmt.Errorf("%w: parameters must be a map, got nil", ErrInvalidParameters)
	}
	for k := range params {
		if IsReservedKey(k) {
			return fmt.Errorf("%w: key %q is reserved", ErrInvalidParameters, k)
		}
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAbscissaName)
	}
	if IsReservedKey(name) {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidAbscissaName, name)
	}
	return nil
}

// MustNew is like New but panics on error.
func MustNew(params map[string]any, abscissae any, name string, calc Calculation) *Record {
	r, err := New(params, abscissae, name, calc)
	if err != nil {
		panic(err)
	}
	return r
}

func toSequence(abscissae any) ([]any, error) {
	if abscissae == nil {
		return nil, fmt.Errorf("%w: got nil", ErrInvalidAbscissae)
	}
	v := reflect.ValueOf(abscissae)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidAbscissae, abscissae)
	}

	out := make([]any, v.Len())
	for i := range out {
		out[i] = CloneValue(v.Index(i).Interface())
	}
	return out, nil
}

// SetCalculation assigns the calculation once and derives the ordinates.
// A non-callable calc fails with ErrInvalidCalculationRef, a second
// assignment with ErrReadOnly, and a record whose params, abscissa name or
// abscissae are not yet fixed with ErrIncomplete. On any failure the record
// is unchanged.
func (r *Record) SetCalculation(calc Calculation) error {
	if !callable(calc) {
		return ErrInvalidCalculationRef
	}
	if r.calc.IsSet() {
		return ErrReadOnly
	}
	if !r.params.IsSet() || !r.abscissaName.IsSet() || !r.abscissae.IsSet() {
		return ErrIncomplete
	}

	params, _ := r.params.Get()
	name, _ := r.abscissaName.Get()
	values, _ := r.abscissae.Get()

	ords, err := derive(params, name, values, calc)
	if err != nil {
		return err
	}

	_ = r.calc.Set(calc)
	_ = r.ordinates.Set(ords)
	return nil
}

// SetParams, SetAbscissaName and SetAbscissae complete the write-once
// contract and validate like New. New always fixes these fields, so on a
// constructed record they fail with ErrReadOnly whatever the value.
func (r *Record) SetParams(p map[string]any) error {
	if r.params.IsSet() {
		return ErrReadOnly
	}
	if err := validateParams(p); err != nil {
		return err
	}
	return r.params.Set(cloneParams(p))
}

func (r *Record) SetAbscissaName(name string) error {
	if r.abscissaName.IsSet() {
		return ErrReadOnly
	}
	if err := validateName(name); err != nil {
		return err
	}
	return r.abscissaName.Set(name)
}

func (r *Record) SetAbscissae(abscissae any) error {
	if r.abscissae.IsSet() {
		return ErrReadOnly
	}
	values, err := toSequence(abscissae)
	if err != nil {
		return err
	}
	return r.abscissae.Set(values)
}

// Params returns a deep copy of the parameters.
func (r *Record) Params() Params {
	p, _ := r.params.Get()
	return cloneParams(p)
}

func (r *Record) AbscissaName() string {
	n, _ := r.abscissaName.Get()
	return n
}

func (r *Record) Abscissae() []any {
	v, _ := r.abscissae.Get()
	return cloneSequence(v)
}

// Calculation returns the calculation, or nil if none has been set.
func (r *Record) Calculation() Calculation {
	c, _ := r.calc.Get()
	return c
}

// Ordinates returns the derived ordinates. ok is false until a calculation
// has been set.
func (r *Record) Ordinates() (*Ordinates, bool) {
	o, ok := r.ordinates.Get()
	if !ok {
		return nil, false
	}
	return o.clone(), true
}

func (r *Record) Len() int {
	v, _ := r.abscissae.Get()
	return len(v)
}

type Pair struct {
	Abscissa any
	Ordinate float64
}

// Pairs returns the aligned (abscissa, ordinate magnitude) pairs, or nil
// before derivation.
func (r *Record) Pairs() []Pair {
	o, ok := r.ordinates.Get()
	if !ok {
		return nil
	}
	values, _ := r.abscissae.Get()
	pairs := make([]Pair, len(values))
	for i, a := range values {
		pairs[i] = Pair{Abscissa: CloneValue(a), Ordinate: o.magnitudes[i]}
	}
	return pairs
}
