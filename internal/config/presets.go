package config

import (
	"sort"

	"github.com/san-kum/datac/internal/study"
)

var Presets = map[string]map[string]*Config{
	"box_volume": {
		"tall": {
			Study: "box_volume", Sweep: &study.Sweep{Start: 1, Stop: 100, Num: 100},
		},
		"cube_base": {
			Study: "box_volume", Params: map[string]any{"width": 1.0, "depth": 1.0},
			Sweep: &study.Sweep{Start: 0, Stop: 10, Num: 11},
		},
	},
	"pendulum_period": {
		"small": {
			Study: "pendulum_period", Sweep: &study.Sweep{Start: 0.01, Stop: 0.5, Num: 50},
		},
		"large": {
			Study: "pendulum_period", Sweep: &study.Sweep{Start: 1.5, Stop: 3.1, Num: 33},
		},
		"moon": {
			Study: "pendulum_period", Params: map[string]any{"gravity": "1.62 m/s^2"},
		},
	},
	"planck": {
		"sun": {
			Study: "planck", Params: map[string]any{"temp_sun": "5778 K"},
		},
		"red_dwarf": {
			Study: "planck", Params: map[string]any{"temp_sun": "3000 K"},
			Sweep: &study.Sweep{Start: 200, Stop: 5000, Num: 200},
		},
		"bandgap": {
			Study: "planck", Params: map[string]any{"temp_sun": "6000 K"},
			Sweep: &study.Sweep{Start: 380, Stop: 3000, Num: 100},
		},
	},
	"free_fall": {
		"moon": {
			Study: "free_fall", Params: map[string]any{"gravity": "1.62 m/s^2"},
		},
		"thrown": {
			Study: "free_fall", Params: map[string]any{"v0": "10 m/s"},
		},
	},
}

// GetPreset returns a copy of the named preset with defaults filled in, or
// nil if it does not exist.
func GetPreset(studyName, preset string) *Config {
	studyPresets, ok := Presets[studyName]
	if !ok {
		return nil
	}
	p, ok := studyPresets[preset]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Study = p.Study
	cfg.Params = p.Params
	cfg.AbscissaName = p.AbscissaName
	if p.Sweep != nil {
		sw := *p.Sweep
		cfg.Sweep = &sw
	}
	return cfg
}

func ListPresets(studyName string) []string {
	studyPresets, ok := Presets[studyName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(studyPresets))
	for name := range studyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
