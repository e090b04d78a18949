package study

import "github.com/san-kum/datac/internal/datac"

// BoxVolume sweeps the height of a box of fixed width and depth.
type BoxVolume struct{}

func (BoxVolume) Name() string {
	return "box_volume"
}

func (BoxVolume) Description() string {
	return "volume of a box vs height"
}

func (BoxVolume) Defaults() Setup {
	return Setup{
		Params:       map[string]any{"width": 2.0, "depth": 3.0},
		AbscissaName: "height",
		Sweep:        Sweep{Start: 1, Stop: 3, Num: 3},
	}
}

func (BoxVolume) Calculation() datac.Calculation {
	return datac.Func("volume", func(a datac.Args) (any, error) {
		h, err := a.Float("height")
		if err != nil {
			return nil, err
		}
		w, err := a.Float("width")
		if err != nil {
			return nil, err
		}
		d, err := a.Float("depth")
		if err != nil {
			return nil, err
		}
		return h * w * d, nil
	})
}
