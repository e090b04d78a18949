package study

import (
	"github.com/san-kum/datac/internal/datac"
	"github.com/san-kum/datac/internal/quantity"
)

// FreeFall is the distance dropped after a given time.
type FreeFall struct{}

func (FreeFall) Name() string {
	return "free_fall"
}

func (FreeFall) Description() string {
	return "drop distance vs time under constant gravity"
}

func (FreeFall) Defaults() Setup {
	return Setup{
		Params: map[string]any{
			"gravity": quantity.New(9.81, "m/s^2"),
			"v0":      quantity.New(0, "m/s"),
		},
		AbscissaName: "time",
		Sweep:        Sweep{Start: 0, Stop: 5, Num: 51},
	}
}

func (FreeFall) Calculation() datac.Calculation {
	return datac.Func("distance", func(a datac.Args) (any, error) {
		t, err := a.Float("time")
		if err != nil {
			return nil, err
		}
		g, err := a.Quantity("gravity")
		if err != nil {
			return nil, err
		}
		v0, err := a.Quantity("v0")
		if err != nil {
			return nil, err
		}
		return quantity.New(v0.Magnitude*t+0.5*g.Magnitude*t*t, "m"), nil
	})
}
