package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultXMin      = -1.0
	DefaultXMax      = 1.0
	DefaultPoints    = 1000
	DefaultTheme     = "dark"
	DefaultIteration = 1000
)

// Config describes one viewer session: where the data lives, the evaluation
// domain, and the initial UI state.
type Config struct {
	Mode      string    `yaml:"mode"` // "stream" or "sweep"
	Snapshots string    `yaml:"snapshots"`
	Loss      string    `yaml:"loss"`
	Table     string    `yaml:"table"`
	TableLoss string    `yaml:"table_loss"`
	XRange    Range     `yaml:"x_range"`
	Points    int       `yaml:"points"`
	Theme     string    `yaml:"theme"`
	Initial   InitState `yaml:"initial"`

	// TrueCoefficients is the analytical reference for sweep mode, where the
	// table file carries no benchmark of its own.
	TrueCoefficients []float64 `yaml:"true_coefficients"`
}

// Range is the x-axis evaluation domain.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// InitState holds initial slider values.
type InitState struct {
	Iteration      int `yaml:"iteration"`
	Neurons        int `yaml:"neurons"`
	HiddenLayers   int `yaml:"hidden_layers"`
	AdamIterations int `yaml:"adam_iterations"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:   "stream",
		XRange: Range{Min: DefaultXMin, Max: DefaultXMax},
		Points: DefaultPoints,
		Theme:  DefaultTheme,
		Initial: InitState{
			Iteration: DefaultIteration,
		},
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
	if err := cfg.Validate(); err != nil {
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

// Validate checks the fields no session can run without.
func (c *Config) Validate() error {
	switch c.Mode {
	case "stream", "sweep":
	default:
		return fmt.Errorf("config: unknown mode %q (want stream or sweep)", c.Mode)
	}
	if c.XRange.Min >= c.XRange.Max {
		return fmt.Errorf("config: empty x range [%g, %g]", c.XRange.Min, c.XRange.Max)
	}
	if c.Points < 2 {
		return fmt.Errorf("config: need at least 2 sample points, got %d", c.Points)
	}
	return nil
}
