package datac

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/datac/internal/quantity"
)

func TestDerive_ArgumentSet(t *testing.T) {
	var seen []Args
	calc := Func("record", func(a Args) (any, error) {
		seen = append(seen, a)
		return 0, nil
	})

	// abscissa wins over a parameter of the same name
	params := map[string]any{"x": "param", "k": 7}
	MustNew(params, []int{1, 2}, "x", calc)

	require.Len(t, seen, 2)
	assert.Equal(t, Args{"x": 1, "k": 7}, seen[0])
	assert.Equal(t, Args{"x": 2, "k": 7}, seen[1])
}

func TestDerive_MatchesDirectInvocation(t *testing.T) {
	calc := Func("poly", func(a Args) (any, error) {
		x, _ := a.Float("x")
		c, _ := a.Float("c")
		return x*x + c, nil
	})
	params := map[string]any{"c": 0.5}
	xs := []float64{-2, -1, 0, 1.5, 3}
	r := MustNew(params, xs, "x", calc)

	ords, ok := r.Ordinates()
	require.True(t, ok)
	require.Equal(t, len(xs), ords.Len())
	for i, x := range xs {
		want, err := calc.Calculate(Args{"c": 0.5, "x": x})
		require.NoError(t, err)
		assert.Equal(t, want, ords.Values()[i], "index %d", i)
	}
}

func TestDerive_IntegerResults(t *testing.T) {
	calc := Func("count", func(a Args) (any, error) {
		n, err := a.Int("n")
		return n * 2, err
	})
	r := MustNew(map[string]any{}, []int{1, 2, 3}, "n", calc)
	ords, _ := r.Ordinates()
	assert.Equal(t, []float64{2, 4, 6}, ords.Values())
}

func TestDerive_InvocationErrors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		calc Calculation
	}{
		{"returned error", Func("err", func(a Args) (any, error) {
			x, _ := a.Float("x")
			if x > 1 {
				return nil, boom
			}
			return x, nil
		})},
		{"missing argument", Func("missing", func(a Args) (any, error) {
			return a.Float("nope")
		})},
		{"panic", Func("panics", func(a Args) (any, error) {
			var m map[string]float64
			m["x"] = 1
			return 0, nil
		})},
		{"non-numeric result", Func("text", func(a Args) (any, error) {
			return "six", nil
		})},
		{"bool result", Func("flag", func(a Args) (any, error) {
			return true, nil
		})},
		{"nan result", Func("sqrt", func(a Args) (any, error) {
			x, _ := a.Float("x")
			return math.Sqrt(1.5 - x), nil
		})},
		{"infinite result", Func("inverse", func(a Args) (any, error) {
			x, _ := a.Float("x")
			return 1 / (x - 2), nil
		})},
		{"nan quantity", Func("sqrt_len", func(a Args) (any, error) {
			x, _ := a.Float("x")
			return quantity.New(math.Sqrt(1.5-x), "m"), nil
		})},
		{"inexact integer", Func("big", func(a Args) (any, error) {
			x, _ := a.Int("x")
			return int64(1<<53) + int64(x), nil
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(map[string]any{}, []float64{1, 2}, "x", tt.calc)
			require.ErrorIs(t, err, ErrCalculationInvocation)

			var ie *InvocationError
			require.ErrorAs(t, err, &ie)

			r := MustNew(map[string]any{}, []float64{1, 2}, "x", nil)
			require.ErrorIs(t, r.SetCalculation(tt.calc), ErrCalculationInvocation)
			_, ok := r.Ordinates()
			assert.False(t, ok)
			assert.Nil(t, r.Calculation())
			assert.NotContains(t, r.Projection(), KeyOrdinates)
		})
	}
}

func TestDerive_FiniteResultsEncode(t *testing.T) {
	calc := Func("sqrt", func(a Args) (any, error) {
		x, _ := a.Float("x")
		return math.Sqrt(x), nil
	})
	r, err := New(map[string]any{}, []float64{0, 4}, "x", calc)
	require.NoError(t, err)

	_, err = r.MarshalJSON()
	require.NoError(t, err)

	_, err = New(map[string]any{}, []float64{-1, 4}, "x", calc)
	require.ErrorIs(t, err, ErrCalculationInvocation)
}

func TestDerive_LargeIntegers(t *testing.T) {
	exactCalc := Func("exact", func(a Args) (any, error) {
		return uint64(1 << 63), nil
	})
	r := MustNew(map[string]any{}, []int{1}, "x", exactCalc)
	ords, _ := r.Ordinates()
	assert.Equal(t, []float64{1 << 63}, ords.Values())

	inexact := Func("inexact", func(a Args) (any, error) {
		return uint64(1<<64 - 1), nil
	})
	_, err := New(map[string]any{}, []int{1}, "x", inexact)
	require.ErrorIs(t, err, ErrCalculationInvocation)
}

func TestDerive_MissingArgWrapped(t *testing.T) {
	calc := Func("missing", func(a Args) (any, error) {
		return a.Float("nope")
	})
	_, err := New(map[string]any{}, []float64{1}, "x", calc)
	assert.ErrorIs(t, err, ErrMissingArg)
}

func TestDerive_Dimensioned(t *testing.T) {
	calc := Func("dist", func(a Args) (any, error) {
		x, _ := a.Float("x")
		return quantity.New(3*x, "m"), nil
	})
	r := MustNew(map[string]any{}, []float64{1, 2}, "x", calc)

	ords, ok := r.Ordinates()
	require.True(t, ok)
	require.True(t, ords.Dimensioned())
	assert.Equal(t, quantity.Unit("m"), ords.Unit())
	assert.Equal(t, []float64{3, 6}, ords.Values())

	arr, ok := ords.Array()
	require.True(t, ok)
	assert.Equal(t, quantity.Array{Unit: "m", Magnitudes: []float64{3, 6}}, arr)
}

func TestDerive_InconsistentUnits(t *testing.T) {
	tests := []struct {
		name string
		fn   func(x float64) any
	}{
		{"two units", func(x float64) any {
			if x > 1 {
				return quantity.New(x, "s")
			}
			return quantity.New(x, "m")
		}},
		{"plain then dimensioned", func(x float64) any {
			if x > 1 {
				return quantity.New(x, "m")
			}
			return x
		}},
		{"dimensioned then plain", func(x float64) any {
			if x > 1 {
				return x
			}
			return &quantity.Quantity{Magnitude: x, Unit: "m"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := Func("mixed", func(a Args) (any, error) {
				x, _ := a.Float("x")
				return tt.fn(x), nil
			})
			r := MustNew(map[string]any{}, []float64{1, 2, 3}, "x", nil)
			err := r.SetCalculation(calc)
			require.ErrorIs(t, err, ErrInconsistentUnits)

			var ue *UnitError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, 1, ue.Index)

			_, ok := r.Ordinates()
			assert.False(t, ok)
		})
	}
}

func TestDerive_EmptySweep(t *testing.T) {
	r := MustNew(map[string]any{}, []float64{}, "x", volume())
	ords, ok := r.Ordinates()
	require.True(t, ok)
	assert.Equal(t, 0, ords.Len())
	assert.Equal(t, []float64{}, r.Projection()[KeyOrdinates])
}

func TestArgs_Coercion(t *testing.T) {
	a := Args{"f": 2.5, "i": 3, "s": "4.5", "q": "9.81 m/s^2", "qv": quantity.New(2, "K")}

	f, err := a.Float("s")
	require.NoError(t, err)
	assert.Equal(t, 4.5, f)

	f, err = a.Float("qv")
	require.NoError(t, err)
	assert.Equal(t, 2.0, f)

	q, err := a.Quantity("q")
	require.NoError(t, err)
	assert.Equal(t, quantity.New(9.81, "m/s^2"), q)

	q, err = a.Quantity("i")
	require.NoError(t, err)
	assert.Equal(t, quantity.New(3, ""), q)

	n, err := a.Int("i")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = a.Float("absent")
	assert.ErrorIs(t, err, ErrMissingArg)
}
