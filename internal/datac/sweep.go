package datac

import (
	"reflect"

	"github.com/san-kum/datac/internal/quantity"
)

// Point is the argument set of one sweep element, tagged with the abscissa
// name.
type Point map[string]any

type Sweep []Point

// GenerateSweep expands params and abscissae into one point per abscissa:
// params ∪ {name: a, "abscissa_name": name}.
func GenerateSweep(params map[string]any, abscissae []any, name string) Sweep {
	s := make(Sweep, len(abscissae))
	for i, a := range abscissae {
		p := make(Point, len(params)+2)
		for k, v := range params {
			p[k] = v
		}
		p[name] = a
		p[KeyAbscissaName] = name
		s[i] = p
	}
	return s
}

func (r *Record) Sweep() Sweep {
	params, _ := r.params.Get()
	values, _ := r.abscissae.Get()
	return GenerateSweep(params, values, r.AbscissaName())
}

// Matches reports whether cached holds the same sweep as s: equal length,
// and at every index each key of the candidate point is present in the
// cached point with an equal value. Keys only the cached side has are
// ignored.
func (s Sweep) Matches(cached Sweep) bool {
	if len(s) != len(cached) {
		return false
	}
	for i := range s {
		for k, want := range s[i] {
			got, ok := cached[i][k]
			if !ok || !ValuesEqual(want, got) {
				return false
			}
		}
	}
	return true
}

// ValuesEqual compares two loosely typed values the way they survive a JSON
// round trip: numbers by value regardless of Go type, quantities by their
// text form, sequences element-wise.
func ValuesEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	if qa, ok := asQuantity(a); ok {
		return quantityText(b) == qa.String()
	}
	if qb, ok := asQuantity(b); ok {
		return quantityText(a) == qb.String()
	}
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		return ok && (sa == sb || quantityText(sa) == quantityText(sb))
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if isSequence(va) && isSequence(vb) {
		if va.Len() != vb.Len() {
			return false
		}
		for i := 0; i < va.Len(); i++ {
			if !ValuesEqual(va.Index(i).Interface(), vb.Index(i).Interface()) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func quantityText(v any) string {
	if q, ok := asQuantity(v); ok {
		return q.String()
	}
	if s, ok := v.(string); ok {
		if q, err := quantity.Parse(s); err == nil {
			return q.String()
		}
		return s
	}
	return ""
}

func isSequence(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	k := v.Kind()
	return k == reflect.Slice || k == reflect.Array
}
