// Package quantity provides a minimal dimensioned value type.
//
// Only what a sweep needs is modelled: a magnitude tagged with a unit,
// a unit-equality check, and a single-unit array of magnitudes. There is
// no unit arithmetic or conversion.
package quantity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMixedUnits = errors.New("quantity: mixed units")
	ErrParse      = errors.New("quantity: cannot parse")
)

// Unit is a unit tag such as "m", "s" or "W/(m^2 sr m)". The empty unit
// is dimensionless.
type Unit string

// Normalize strips all whitespace around operators so that "m / s" and
// "m/s" compare equal. Spaces between factors are collapsed to one.
func (u Unit) Normalize() Unit {
	fields := strings.Fields(string(u))
	if len(fields) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			prev := fields[i-1]
			if !isOperator(prev[len(prev)-1]) && !isOperator(f[0]) {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(f)
	}
	return Unit(sb.String())
}

func isOperator(b byte) bool {
	switch b {
	case '/', '*', '^', '(', ')', '.':
		return true
	}
	return false
}

func (u Unit) Equal(other Unit) bool {
	return u.Normalize() == other.Normalize()
}

type Quantity struct {
	Magnitude float64
	Unit      Unit
}

func New(magnitude float64, unit Unit) Quantity {
	return Quantity{Magnitude: magnitude, Unit: unit.Normalize()}
}

func (q Quantity) String() string {
	mag := strconv.FormatFloat(q.Magnitude, 'g', -1, 64)
	if q.Unit == "" {
		return mag
	}
	return mag + " " + string(q.Unit)
}

// Parse reads "<magnitude> <unit>", e.g. "9.81 m/s^2". A bare number
// yields a dimensionless quantity.
func Parse(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Quantity{}, fmt.Errorf("%w: empty string", ErrParse)
	}

	mag, rest, _ := strings.Cut(s, " ")
	v, err := strconv.ParseFloat(mag, 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w %q: %v", ErrParse, s, err)
	}
	return New(v, Unit(rest)), nil
}

// Array is a sequence of magnitudes sharing one unit.
type Array struct {
	Unit       Unit
	Magnitudes []float64
}

// FromQuantities collapses qs into a single-unit array. The unit of the
// first element is authoritative.
func FromQuantities(qs []Quantity) (Array, error) {
	if len(qs) == 0 {
		return Array{Magnitudes: []float64{}}, nil
	}

	unit := qs[0].Unit.Normalize()
	mags := make([]float64, len(qs))
	for i, q := range qs {
		if !q.Unit.Equal(unit) {
			return Array{}, fmt.Errorf("%w: index %d has %q, want %q", ErrMixedUnits, i, q.Unit, unit)
		}
		mags[i] = q.Magnitude
	}
	return Array{Unit: unit, Magnitudes: mags}, nil
}

func (a Array) Len() int {
	return len(a.Magnitudes)
}

func (a Array) At(i int) Quantity {
	return Quantity{Magnitude: a.Magnitudes[i], Unit: a.Unit}
}

// MarshalText encodes q in the form accepted by Parse, so quantities
// round-trip through JSON and YAML as plain strings.
func (q Quantity) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *Quantity) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*q = v
	return nil
}
