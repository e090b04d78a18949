package datac

import (
	"fmt"
	"reflect"

	"github.com/spf13/cast"

	"github.com/san-kum/datac/internal/quantity"
)

// Calculation computes one ordinate from the parameters plus one abscissa.
// Calculate returns a plain number or a quantity.Quantity, and must return
// the same kind for every abscissa of a sweep.
type Calculation interface {
	Name() string
	Calculate(args Args) (any, error)
}

// Func adapts a named function to Calculation.
func Func(name string, fn func(Args) (any, error)) Calculation {
	return &funcCalc{name: name, fn: fn}
}

type funcCalc struct {
	name string
	fn   func(Args) (any, error)
}

func (f *funcCalc) Name() string {
	return f.name
}

func (f *funcCalc) Calculate(args Args) (any, error) {
	return f.fn(args)
}

// callable reports whether c can actually be invoked. A nil interface is
// handled by the caller as "absent"; a typed nil or a Func wrapping a nil
// function is not callable.
func callable(c Calculation) bool {
	if c == nil {
		return false
	}
	if f, ok := c.(*funcCalc); ok {
		return f != nil && f.fn != nil
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Interface:
		return !v.IsNil()
	}
	return true
}

// Args is the argument set for one calculation call: the record parameters
// plus the abscissa under its name.
type Args map[string]any

func (a Args) Get(key string) (any, error) {
	v, ok := a[key]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrMissingArg, key)
	}
	return v, nil
}

// Float returns key as a float64. Quantities yield their magnitude and
// numeric strings are parsed.
func (a Args) Float(key string) (float64, error) {
	v, err := a.Get(key)
	if err != nil {
		return 0, err
	}
	if q, ok := asQuantity(v); ok {
		return q.Magnitude, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("argument %q: %w", key, err)
	}
	return f, nil
}

// Quantity returns key as a quantity. Strings are parsed with
// quantity.Parse and bare numbers become dimensionless.
func (a Args) Quantity(key string) (quantity.Quantity, error) {
	v, err := a.Get(key)
	if err != nil {
		return quantity.Quantity{}, err
	}
	if q, ok := asQuantity(v); ok {
		return q, nil
	}
	if s, ok := v.(string); ok {
		q, err := quantity.Parse(s)
		if err != nil {
			return quantity.Quantity{}, fmt.Errorf("argument %q: %w", key, err)
		}
		return q, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return quantity.Quantity{}, fmt.Errorf("argument %q: %w", key, err)
	}
	return quantity.New(f, ""), nil
}

func (a Args) Int(key string) (int, error) {
	v, err := a.Get(key)
	if err != nil {
		return 0, err
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("argument %q: %w", key, err)
	}
	return n, nil
}

func asQuantity(v any) (quantity.Quantity, bool) {
	switch q := v.(type) {
	case quantity.Quantity:
		return q, true
	case *quantity.Quantity:
		if q != nil {
			return *q, true
		}
	}
	return quantity.Quantity{}, false
}
