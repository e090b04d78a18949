package datac

import (
	"errors"
	"fmt"

	"github.com/san-kum/datac/internal/quantity"
)

// Domain errors for record construction and derivation.
var (
	// ErrInvalidParameters indicates a missing parameter map or a parameter
	// key that shadows a projection key.
	ErrInvalidParameters = errors.New("datac: invalid parameters")

	// ErrInvalidAbscissae indicates abscissae that are not a sequence. Strings
	// are rejected even though they are iterable.
	ErrInvalidAbscissae = errors.New("datac: abscissae must be a non-string sequence")

	ErrInvalidAbscissaName = errors.New("datac: invalid abscissa name")

	ErrInvalidCalculationRef = errors.New("datac: calculation is not callable")

	// ErrReadOnly indicates a second assignment to a write-once field.
	ErrReadOnly = errors.New("datac: field is read-only once set")

	// ErrIncomplete indicates a calculation set on a record whose params,
	// abscissa name or abscissae are not fixed yet.
	ErrIncomplete = errors.New("datac: record is not fully constructed")

	ErrCalculationInvocation = errors.New("datac: calculation failed")

	ErrInconsistentUnits = errors.New("datac: ordinates do not share one unit")

	// ErrMissingArg indicates a calculation asked for an argument that is
	// neither a parameter nor the abscissa.
	ErrMissingArg = errors.New("datac: missing argument")
)

// InvocationError wraps a failed calculation call with the sweep position.
type InvocationError struct {
	Index    int
	Abscissa any
	Err      error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%v at index %d (abscissa %v): %v", ErrCalculationInvocation, e.Index, e.Abscissa, e.Err)
}

func (e *InvocationError) Unwrap() []error {
	return []error{ErrCalculationInvocation, e.Err}
}

type UnitError struct {
	Index int
	Want  quantity.Unit
	Got   quantity.Unit
	Plain bool
}

func (e *UnitError) Error() string {
	if e.Plain {
		return fmt.Sprintf("%v: index %d mixes plain and dimensioned values", ErrInconsistentUnits, e.Index)
	}
	return fmt.Sprintf("%v: index %d has unit %q, want %q", ErrInconsistentUnits, e.Index, e.Got, e.Want)
}

func (e *UnitError) Unwrap() error {
	return ErrInconsistentUnits
}
