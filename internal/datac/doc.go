// Package datac models a one-dimensional sweep of an independent variable
// through a calculation, bundled into a write-once, serializable record.
//
// The package defines:
//
//   - [Record]: parameters, abscissa sequence, calculation and ordinates
//   - [Calculation]: anything that maps named arguments to one ordinate
//   - [Ordinates]: plain magnitudes or a single-unit dimensioned array
//   - [Sweep]: the per-point argument sets used to match cached data
//
// # Example
//
//	calc := datac.Func("volume", func(a datac.Args) (any, error) {
//		h, _ := a.Float("height")
//		w, _ := a.Float("width")
//		return h * w, nil
//	})
//	rec, err := datac.New(map[string]any{"width": 2.0}, []float64{1, 2, 3}, "height", calc)
//	ords, _ := rec.Ordinates()
//
// # Write-once fields
//
// Parameters, abscissa name and abscissae are fixed by [New]. The
// calculation may be supplied to [New] or exactly once later through
// [Record.SetCalculation], which derives the ordinates synchronously.
// Any further assignment fails with [ErrReadOnly].
//
// # Thread Safety
//
// Record instances are NOT thread-safe during SetCalculation. Independent
// records share no state.
package datac
