package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWorldSize   = 1024.0
	DefaultSeaLevel    = 25.0
	DefaultSensitivity = 1.0
	DefaultTicks       = 240
	DefaultWorkers     = 4
	DefaultPeriod      = 120
	DefaultDataDir     = "data"
)

type Config struct {
	Ship        string          `yaml:"ship"`
	Skeleton    string          `yaml:"skeleton,omitempty"`
	Position    [3]float64      `yaml:"position,flow"`
	Sensitivity float64         `yaml:"sensitivity"`
	Workers     int             `yaml:"workers"`
	Ticks       int             `yaml:"ticks"`
	LogLevel    string          `yaml:"log_level"`
	DataDir     string          `yaml:"data_dir"`
	Selection   SelectionConfig `yaml:"selection"`
	Steer       SteerConfig     `yaml:"steer"`
}

// SelectionConfig picks which yards steering applies to.
type SelectionConfig struct {
	Action string `yaml:"action"`
	Mast   string `yaml:"mast"`
	Sail   string `yaml:"sail"`
}

// SteerConfig is the pointer input a scripted run feeds each tick: a sine of
// the given amplitude per channel over Period ticks.
type SteerConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Wheel  float64 `yaml:"wheel"`
	Period int     `yaml:"period"`
}

func DefaultConfig() *Config {
	return &Config{
		Ship:        "frigate",
		Position:    [3]float64{DefaultWorldSize / 2, DefaultWorldSize / 2, DefaultSeaLevel},
		Sensitivity: DefaultSensitivity,
		Workers:     DefaultWorkers,
		Ticks:       DefaultTicks,
		LogLevel:    "info",
		DataDir:     DefaultDataDir,
		Selection: SelectionConfig{
			Action: "rotate",
			Mast:   "all",
			Sail:   "all",
		},
		Steer: SteerConfig{
			X:      0.02,
			Period: DefaultPeriod,
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
		return nil, fmt.Errorf("%s: %w", path, err)
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
	if c.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalidConfig, c.Ticks)
	}
	if c.Sensitivity <= 0 {
		return fmt.Errorf("%w: sensitivity must be positive, got %g", ErrInvalidConfig, c.Sensitivity)
	}
	if c.Steer.Period <= 0 {
		return fmt.Errorf("%w: steer period must be positive, got %d", ErrInvalidConfig, c.Steer.Period)
	}
	switch c.Selection.Action {
	case "rotate", "move", "scale":
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidConfig, c.Selection.Action)
	}
	return nil
}
