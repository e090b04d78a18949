// Package plot renders abscissa/ordinate series to the terminal, to image
// files, and to an interactive viewer.
package plot

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cast"

	"github.com/san-kum/datac/internal/datac"
	"github.com/san-kum/datac/internal/quantity"
)

var (
	ErrUnsupportedPlotType = errors.New("plot: unsupported plot type")
	ErrTooFewPoints        = errors.New("plot: need at least two points")
)

// Series is one x/y line with axis labels. Unit is the ordinate unit, empty
// for plain ordinates.
type Series struct {
	Name   string
	XLabel string
	YLabel string
	Unit   quantity.Unit
	X      []float64
	Y      []float64
}

// NewSeries pairs abscissae with ordinate magnitudes. Abscissae that are not
// numeric are replaced by their index and the x label says so.
func NewSeries(name, abscissaName, ordinateName string, abscissae []any, ords *datac.Ordinates) Series {
	s := Series{
		Name:   name,
		XLabel: abscissaName,
		YLabel: ordinateName,
		Unit:   ords.Unit(),
		Y:      ords.Values(),
		X:      make([]float64, len(abscissae)),
	}

	numeric := true
	for i, a := range abscissae {
		f, err := cast.ToFloat64E(a)
		if err != nil {
			numeric = false
			break
		}
		s.X[i] = f
	}
	if !numeric {
		for i := range s.X {
			s.X[i] = float64(i)
		}
		s.XLabel = abscissaName + " (index)"
	}
	return s
}

func (s Series) YAxisLabel() string {
	if s.Unit == "" {
		return s.YLabel
	}
	return fmt.Sprintf("%s [%s]", s.YLabel, s.Unit)
}

func (s Series) Caption() string {
	return fmt.Sprintf("%s vs %s", s.YAxisLabel(), s.XLabel)
}

// Bounds returns min and max of ys, ignoring NaN.
func Bounds(ys []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, y := range ys {
		if math.IsNaN(y) {
			continue
		}
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	return lo, hi
}
