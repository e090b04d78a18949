package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cast"

	"github.com/san-kum/datac/internal/datac"
	"github.com/san-kum/datac/internal/quantity"
)

var (
	ErrBadDocument = errors.New("storage: malformed data file")
	ErrNotFound    = errors.New("storage: no data file")
)

// OrdinateData is the decoded "ordinates" entry. Unit is empty for plain
// ordinates.
type OrdinateData struct {
	Unit        quantity.Unit
	Magnitudes  []float64
	Dimensioned bool
}

// Document is a decoded projection. It carries the same visible state as a
// datac.Record but has no calculation attached.
type Document struct {
	Params       map[string]any
	AbscissaName string
	Abscissae    []any
	Ordinates    *OrdinateData
	OrdinateName string
}

// DecodeDocument splits a projection map into reserved fields and
// parameters.
func DecodeDocument(m map[string]any) (*Document, error) {
	doc := &Document{Params: make(map[string]any)}

	for k, v := range m {
		if !datac.IsReservedKey(k) {
			doc.Params[k] = v
		}
	}

	name, err := cast.ToStringE(m[datac.KeyAbscissaName])
	if err != nil || name == "" {
		return nil, fmt.Errorf("%w: missing %q", ErrBadDocument, datac.KeyAbscissaName)
	}
	doc.AbscissaName = name

	abscissae, ok := m[datac.KeyAbscissae].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a list", ErrBadDocument, datac.KeyAbscissae)
	}
	doc.Abscissae = abscissae

	if raw, ok := m[datac.KeyOrdinates]; ok {
		ords, err := decodeOrdinates(raw)
		if err != nil {
			return nil, err
		}
		if len(ords.Magnitudes) != len(abscissae) {
			return nil, fmt.Errorf("%w: %d ordinates for %d abscissae", ErrBadDocument, len(ords.Magnitudes), len(abscissae))
		}
		doc.Ordinates = ords
	}

	if raw, ok := m[datac.KeyOrdinateName]; ok {
		doc.OrdinateName = cast.ToString(raw)
	}

	return doc, nil
}

func decodeOrdinates(raw any) (*OrdinateData, error) {
	switch v := raw.(type) {
	case []any:
		mags, err := toFloats(v)
		if err != nil {
			return nil, fmt.Errorf("%w: ordinates: %v", ErrBadDocument, err)
		}
		return &OrdinateData{Magnitudes: mags}, nil
	case map[string]any:
		list, ok := v["magnitudes"].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: dimensioned ordinates without magnitudes", ErrBadDocument)
		}
		mags, err := toFloats(list)
		if err != nil {
			return nil, fmt.Errorf("%w: ordinates: %v", ErrBadDocument, err)
		}
		unit, err := cast.ToStringE(v["unit"])
		if err != nil {
			return nil, fmt.Errorf("%w: ordinate unit: %v", ErrBadDocument, err)
		}
		return &OrdinateData{Unit: quantity.Unit(unit).Normalize(), Magnitudes: mags, Dimensioned: true}, nil
	}
	return nil, fmt.Errorf("%w: ordinates of type %T", ErrBadDocument, raw)
}

// Projection lowers the document back to the map form written to disk.
func (d *Document) Projection() map[string]any {
	m := make(map[string]any, len(d.Params)+4)
	for k, v := range d.Params {
		m[k] = v
	}
	m[datac.KeyAbscissae] = d.Abscissae
	m[datac.KeyAbscissaName] = d.AbscissaName
	if d.Ordinates != nil {
		if d.Ordinates.Dimensioned {
			m[datac.KeyOrdinates] = datac.DimensionedProjection{Unit: d.Ordinates.Unit, Magnitudes: d.Ordinates.Magnitudes}
		} else {
			m[datac.KeyOrdinates] = d.Ordinates.Magnitudes
		}
	}
	if d.OrdinateName != "" {
		m[datac.KeyOrdinateName] = d.OrdinateName
	}
	return m
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{
		Params:       make(map[string]any, len(d.Params)),
		AbscissaName: d.AbscissaName,
		Abscissae:    make([]any, len(d.Abscissae)),
		OrdinateName: d.OrdinateName,
	}
	for k, v := range d.Params {
		c.Params[k] = datac.CloneValue(v)
	}
	for i, a := range d.Abscissae {
		c.Abscissae[i] = datac.CloneValue(a)
	}
	if d.Ordinates != nil {
		ords := *d.Ordinates
		ords.Magnitudes = slices.Clone(d.Ordinates.Magnitudes)
		c.Ordinates = &ords
	}
	return c
}

// Sweep rebuilds the argument sets the document was computed from.
func (d *Document) Sweep() datac.Sweep {
	return datac.GenerateSweep(d.Params, d.Abscissae, d.AbscissaName)
}

// AsOrdinates converts the decoded ordinates for plotting and comparison.
func (d *Document) AsOrdinates() (*datac.Ordinates, bool) {
	if d.Ordinates == nil {
		return nil, false
	}
	if d.Ordinates.Dimensioned {
		return datac.DimensionedOrdinates(quantity.Array{Unit: d.Ordinates.Unit, Magnitudes: d.Ordinates.Magnitudes}), true
	}
	return datac.PlainOrdinates(d.Ordinates.Magnitudes), true
}

// FromRecord captures a record's projection as a document.
func FromRecord(r *datac.Record) (*Document, error) {
	_, doc, err := encodeRecord(r)
	return doc, err
}

// encodeRecord returns the file bytes for r together with the document they
// decode to.
func encodeRecord(r *datac.Record) ([]byte, *Document, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, r.Projection()); err != nil {
		return nil, nil, err
	}
	doc, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), doc, nil
}

// Encode writes a projection as indented JSON.
func Encode(w io.Writer, projection map[string]any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(projection)
}

func Decode(r io.Reader) (*Document, error) {
	var m map[string]any
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	return DecodeDocument(m)
}

func toFloats(list []any) ([]float64, error) {
	out := make([]float64, len(list))
	for i, v := range list {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}
