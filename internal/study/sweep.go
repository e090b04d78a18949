package study

import "fmt"

// Sweep describes abscissa values either explicitly or as Num evenly
// spaced points from Start to Stop inclusive.
type Sweep struct {
	Start  float64 `yaml:"start"`
	Stop   float64 `yaml:"stop"`
	Num    int     `yaml:"num"`
	Points []any   `yaml:"values,omitempty"`
}

func (s Sweep) Values() ([]any, error) {
	if len(s.Points) > 0 {
		out := make([]any, len(s.Points))
		copy(out, s.Points)
		return out, nil
	}
	if s.Num < 0 {
		return nil, fmt.Errorf("%w: num %d", ErrBadSweep, s.Num)
	}

	xs := Linspace(s.Start, s.Stop, s.Num)
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out, nil
}

// Linspace returns n evenly spaced values over [start, stop]. n == 1
// yields start alone.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if n == 1 {
		return []float64{start}
	}

	xs := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range xs {
		xs[i] = start + float64(i)*step
	}
	xs[n-1] = stop
	return xs
}
