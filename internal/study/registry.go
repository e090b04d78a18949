// Package study holds the calculations datac can sweep, registered by name.
package study

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/datac/internal/datac"
)

var (
	ErrUnknownStudy = errors.New("study: unknown study")
	ErrBadSweep     = errors.New("study: invalid sweep")
)

// Setup is what a study needs besides its calculation: the fixed
// parameters and the abscissa sweep.
type Setup struct {
	Params       map[string]any
	AbscissaName string
	Sweep        Sweep
}

type Study interface {
	Name() string
	Description() string
	Defaults() Setup
	Calculation() datac.Calculation
}

type Registry struct {
	studies map[string]func() Study
}

func NewRegistry() *Registry {
	r := &Registry{studies: make(map[string]func() Study)}

	r.Register("box_volume", func() Study { return BoxVolume{} })
	r.Register("pendulum_period", func() Study { return NewPendulumPeriod() })
	r.Register("planck", func() Study { return Planck{} })
	r.Register("free_fall", func() Study { return FreeFall{} })

	return r
}

// Register adds or replaces a study factory.
func (r *Registry) Register(name string, fn func() Study) {
	r.studies[name] = fn
}

func (r *Registry) Get(name string) (Study, error) {
	fn, ok := r.studies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownStudy, name, r.List())
	}
	return fn(), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.studies))
	for name := range r.studies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewRecord builds a record for s from setup, deriving ordinates
// immediately.
func NewRecord(s Study, setup Setup) (*datac.Record, error) {
	values, err := setup.Sweep.Values()
	if err != nil {
		return nil, err
	}
	return datac.New(setup.Params, values, setup.AbscissaName, s.Calculation())
}
