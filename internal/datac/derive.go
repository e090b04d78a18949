package datac

import (
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/san-kum/datac/internal/quantity"
)

// Ordinates is the derived result sequence: plain magnitudes, or magnitudes
// sharing one unit. Magnitudes are float64; an integer result that has no
// exact float64 form, or a NaN or infinite result, fails derivation.
type Ordinates struct {
	magnitudes  []float64
	unit        quantity.Unit
	dimensioned bool
}

// PlainOrdinates builds unitless ordinates, e.g. when decoding a cache file.
func PlainOrdinates(values []float64) *Ordinates {
	return &Ordinates{magnitudes: slices.Clone(values)}
}

func DimensionedOrdinates(arr quantity.Array) *Ordinates {
	return &Ordinates{magnitudes: slices.Clone(arr.Magnitudes), unit: arr.Unit, dimensioned: true}
}

func (o *Ordinates) Len() int {
	return len(o.magnitudes)
}

// Values returns the magnitudes, dropping any unit.
func (o *Ordinates) Values() []float64 {
	return slices.Clone(o.magnitudes)
}

func (o *Ordinates) Dimensioned() bool {
	return o.dimensioned
}

func (o *Ordinates) Unit() quantity.Unit {
	return o.unit
}

// Array returns the unit-tagged array. ok is false for plain ordinates.
func (o *Ordinates) Array() (quantity.Array, bool) {
	if !o.dimensioned {
		return quantity.Array{}, false
	}
	return quantity.Array{Unit: o.unit, Magnitudes: o.Values()}, true
}

func (o *Ordinates) clone() *Ordinates {
	c := *o
	c.magnitudes = slices.Clone(o.magnitudes)
	return &c
}

// derive runs calc over every abscissa in order. It either returns a full
// ordinate sequence or an error; nothing partial escapes.
func derive(params Params, name string, abscissae []any, calc Calculation) (*Ordinates, error) {
	raw := make([]any, len(abscissae))
	for i, a := range abscissae {
		args := make(Args, len(params)+1)
		for k, v := range params {
			args[k] = CloneValue(v)
		}
		args[name] = CloneValue(a)

		v, err := invoke(calc, args)
		if err != nil {
			return nil, &InvocationError{Index: i, Abscissa: a, Err: err}
		}
		raw[i] = v
	}
	return classify(raw, abscissae)
}

func invoke(calc Calculation, args Args) (v any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return calc.Calculate(args)
}

func classify(raw, abscissae []any) (*Ordinates, error) {
	if len(raw) == 0 {
		return &Ordinates{magnitudes: []float64{}}, nil
	}

	plain := make([]float64, 0, len(raw))
	qs := make([]quantity.Quantity, 0, len(raw))

	for i, v := range raw {
		if q, ok := asQuantity(v); ok {
			if len(plain) > 0 {
				return nil, &UnitError{Index: i, Plain: true}
			}
			if len(qs) > 0 && !q.Unit.Equal(qs[0].Unit) {
				return nil, &UnitError{Index: i, Want: qs[0].Unit.Normalize(), Got: q.Unit.Normalize()}
			}
			if !finite(q.Magnitude) {
				return nil, &InvocationError{Index: i, Abscissa: abscissae[i], Err: fmt.Errorf("result %v is not finite", q)}
			}
			qs = append(qs, q)
			continue
		}

		f, ok := toFloat(v)
		if !ok {
			return nil, &InvocationError{Index: i, Abscissa: abscissae[i], Err: fmt.Errorf("result %v (%T) is neither a number nor a quantity", v, v)}
		}
		if len(qs) > 0 {
			return nil, &UnitError{Index: i, Plain: true}
		}
		if !finite(f) {
			return nil, &InvocationError{Index: i, Abscissa: abscissae[i], Err: fmt.Errorf("result %v is not finite", v)}
		}
		if !exact(v, f) {
			return nil, &InvocationError{Index: i, Abscissa: abscissae[i], Err: fmt.Errorf("result %v has no exact float64 form", v)}
		}
		plain = append(plain, f)
	}

	if len(qs) == 0 {
		return &Ordinates{magnitudes: plain}, nil
	}

	arr, err := quantity.FromQuantities(qs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInconsistentUnits, err)
	}
	return DimensionedOrdinates(arr), nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// exact reports whether f, converted from the integer v, converts back to
// v. Floats are always exact.
func exact(v any, f float64) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return f < 1<<63 && int64(f) == rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return f < 1<<64 && uint64(f) == rv.Uint()
	}
	return true
}

// toFloat accepts the Go numeric kinds only; bools and numeric strings are
// not plain numbers.
func toFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	}
	return 0, false
}
