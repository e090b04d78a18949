package config

import (
	"errors"
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/datac/internal/study"
)

const (
	DefaultPlotType = "svg"
	DefaultLogLevel = "info"
)

var (
	PlotTypes = []string{"png", "svg"}
	LogLevels = []string{"debug", "info", "off"}

	ErrInvalidConfig = errors.New("config: invalid")
)

// Config is a run description. Params, AbscissaName and Sweep override the
// study defaults when set; the rest drives the cache and plot output.
type Config struct {
	Study        string         `yaml:"study"`
	AbscissaName string         `yaml:"abscissa_name,omitempty"`
	Params       map[string]any `yaml:"params,omitempty"`
	Sweep        *study.Sweep   `yaml:"sweep,omitempty"`

	DataDir   string `yaml:"data_dir"`
	PlotDir   string `yaml:"plot_dir"`
	PlotType  string `yaml:"plot_type"`
	Clobber   bool   `yaml:"clobber"`
	NoDisplay bool   `yaml:"no_display"`
	LogLevel  string `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Study:    "box_volume",
		PlotType: DefaultPlotType,
		LogLevel: DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Study == "" {
		return fmt.Errorf("%w: study is required", ErrInvalidConfig)
	}
	if !contains(PlotTypes, c.PlotType) {
		return fmt.Errorf("%w: plot type %q (supported: %v)", ErrInvalidConfig, c.PlotType, PlotTypes)
	}
	if !contains(LogLevels, c.LogLevel) {
		return fmt.Errorf("%w: log level %q (supported: %v)", ErrInvalidConfig, c.LogLevel, LogLevels)
	}
	if c.Sweep != nil && len(c.Sweep.Points) == 0 && c.Sweep.Num <= 0 {
		return fmt.Errorf("%w: sweep needs values or num > 0", ErrInvalidConfig)
	}
	return nil
}

// Apply overlays the configured overrides on a study's defaults. Params are
// merged key by key.
func (c *Config) Apply(defaults study.Setup) study.Setup {
	setup := study.Setup{
		Params:       maps.Clone(defaults.Params),
		AbscissaName: defaults.AbscissaName,
		Sweep:        defaults.Sweep,
	}
	if setup.Params == nil {
		setup.Params = make(map[string]any)
	}
	for k, v := range c.Params {
		setup.Params[k] = v
	}
	if c.AbscissaName != "" {
		setup.AbscissaName = c.AbscissaName
	}
	if c.Sweep != nil {
		setup.Sweep = *c.Sweep
	}
	return setup
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
