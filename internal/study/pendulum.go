package study

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/datac/internal/datac"
	"github.com/san-kum/datac/internal/quantity"
)

var errNoOscillation = errors.New("pendulum does not oscillate from this angle")

// PendulumPeriod finds the period of an undamped nonlinear pendulum released
// from rest at theta0 by integrating it until it swings back.
type PendulumPeriod struct {
	MaxSteps int
}

func NewPendulumPeriod() *PendulumPeriod {
	return &PendulumPeriod{MaxSteps: 1_000_000}
}

func (p *PendulumPeriod) Name() string {
	return "pendulum_period"
}

func (p *PendulumPeriod) Description() string {
	return "period of a nonlinear pendulum vs release angle (rk4)"
}

func (p *PendulumPeriod) Defaults() Setup {
	return Setup{
		Params: map[string]any{
			"length":  quantity.New(1, "m"),
			"gravity": quantity.New(9.81, "m/s^2"),
			"dt":      1e-3,
		},
		AbscissaName: "theta0",
		Sweep:        Sweep{Start: 0.1, Stop: 3.0, Num: 30},
	}
}

func (p *PendulumPeriod) Calculation() datac.Calculation {
	return p
}

func (p *PendulumPeriod) Calculate(a datac.Args) (any, error) {
	theta0, err := a.Float("theta0")
	if err != nil {
		return nil, err
	}
	length, err := a.Quantity("length")
	if err != nil {
		return nil, err
	}
	gravity, err := a.Quantity("gravity")
	if err != nil {
		return nil, err
	}
	dt, err := a.Float("dt")
	if err != nil {
		return nil, err
	}

	if theta0 <= 0 || theta0 >= math.Pi {
		return nil, fmt.Errorf("theta0=%g: %w", theta0, errNoOscillation)
	}
	if dt <= 0 || length.Magnitude <= 0 {
		return nil, fmt.Errorf("dt and length must be positive")
	}

	half, err := p.halfPeriod(theta0, gravity.Magnitude/length.Magnitude, dt)
	if err != nil {
		return nil, err
	}
	return quantity.New(2*half, "s"), nil
}

// halfPeriod integrates from rest at theta0 until the angular velocity
// returns to zero, interpolating the crossing inside the last step.
func (p *PendulumPeriod) halfPeriod(theta0, w2, dt float64) (float64, error) {
	deriv := func(x [2]float64) [2]float64 {
		return [2]float64{x[1], -w2 * math.Sin(x[0])}
	}

	x := [2]float64{theta0, 0}
	t := 0.0
	for step := 0; step < p.MaxSteps; step++ {
		next := rk4(deriv, x, dt)
		if step > 0 && x[1] < 0 && next[1] >= 0 {
			frac := -x[1] / (next[1] - x[1])
			return t + frac*dt, nil
		}
		x = next
		t += dt
	}
	return 0, fmt.Errorf("no half swing within %d steps", p.MaxSteps)
}

func rk4(f func([2]float64) [2]float64, x [2]float64, dt float64) [2]float64 {
	var scratch [2]float64

	k1 := f(x)
	for i := range x {
		scratch[i] = x[i] + dt*0.5*k1[i]
	}
	k2 := f(scratch)
	for i := range x {
		scratch[i] = x[i] + dt*0.5*k2[i]
	}
	k3 := f(scratch)
	for i := range x {
		scratch[i] = x[i] + dt*k3[i]
	}
	k4 := f(scratch)

	var result [2]float64
	dt6 := dt / 6.0
	for i := range x {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return result
}
