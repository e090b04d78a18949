package study

import (
	"math"

	"github.com/san-kum/datac/internal/datac"
	"github.com/san-kum/datac/internal/quantity"
)

const (
	planckH      = 6.62607015e-34 // J s
	lightC       = 2.99792458e8   // m/s
	boltzmannK   = 1.380649e-23   // J/K
	radianceUnit = quantity.Unit("W/(m^2 sr m)")
)

// Planck is black-body spectral radiance vs wavelength in nanometres.
type Planck struct{}

func (Planck) Name() string {
	return "planck"
}

func (Planck) Description() string {
	return "black-body spectral radiance vs wavelength (nm)"
}

func (Planck) Defaults() Setup {
	return Setup{
		Params:       map[string]any{"temp_sun": quantity.New(5778, "K")},
		AbscissaName: "wavelength",
		Sweep:        Sweep{Start: 100, Stop: 3000, Num: 100},
	}
}

func (Planck) Calculation() datac.Calculation {
	return datac.Func("spectral_radiance", func(a datac.Args) (any, error) {
		nm, err := a.Float("wavelength")
		if err != nil {
			return nil, err
		}
		temp, err := a.Quantity("temp_sun")
		if err != nil {
			return nil, err
		}
		return quantity.New(SpectralRadiance(nm*1e-9, temp.Magnitude), radianceUnit), nil
	})
}

// SpectralRadiance is Planck's law for wavelength lambda (m) and
// temperature T (K).
func SpectralRadiance(lambda, T float64) float64 {
	if lambda <= 0 || T <= 0 {
		return 0
	}
	a := 2 * planckH * lightC * lightC / math.Pow(lambda, 5)
	return a / math.Expm1(planckH*lightC/(lambda*boltzmannK*T))
}
