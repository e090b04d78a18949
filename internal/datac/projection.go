package datac

import (
	"encoding/json"

	"github.com/san-kum/datac/internal/quantity"
)

// DimensionedProjection is the "ordinates" entry for unit-tagged ordinates.
type DimensionedProjection struct {
	Unit       quantity.Unit `json:"unit"`
	Magnitudes []float64     `json:"magnitudes"`
}

// Projection returns a deep copy of the map form of the record: parameters at the top
// level plus the reserved keys. "ordinates" and "ordinate_name" are present
// only once a calculation has been set.
func (r *Record) Projection() map[string]any {
	params, _ := r.params.Get()
	m := make(map[string]any, len(params)+4)
	for k, v := range params {
		m[k] = CloneValue(v)
	}
	m[KeyAbscissae] = r.Abscissae()
	m[KeyAbscissaName] = r.AbscissaName()

	if o, ok := r.ordinates.Get(); ok {
		m[KeyOrdinates] = o.projection()
	}
	if c, ok := r.calc.Get(); ok {
		m[KeyOrdinateName] = c.Name()
	}
	return m
}

func (o *Ordinates) projection() any {
	if o.dimensioned {
		return DimensionedProjection{Unit: o.unit, Magnitudes: o.Values()}
	}
	return o.Values()
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Projection())
}
