// Package config defines the ticker universe and analysis settings loaded
// from a YAML file, with struct-level validation.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/marketlens/pkg/errors"
)

// Preset is a named group of tickers shown in the dashboard.
type Preset struct {
	Name        string   `yaml:"name" validate:"required"`
	Description string   `yaml:"description"`
	Tickers     []string `yaml:"tickers"`
}

// Config holds the ticker universe, dashboard presets and analysis defaults.
type Config struct {
	// Universe is the full set of tickers the dashboard can select from.
	Universe []string `yaml:"universe" validate:"required,min=1"`
	// Presets are the selectable ticker groups.
	Presets []Preset `yaml:"presets" validate:"dive"`
	// Window is the rolling window size in trading days.
	Window int `yaml:"window" validate:"min=1"`
	// RiskFreeRate is the annual risk-free rate used by the Sharpe ratio.
	RiskFreeRate float64 `yaml:"risk_free_rate"`
	// DataPath is the directory holding downloaded panel parquet files.
	DataPath string `yaml:"data_path" validate:"required"`
	// ChartDir is the directory rendered charts are written to.
	ChartDir string `yaml:"chart_dir" validate:"required"`
}

// Default returns the built-in AI universe configuration used when no config
// file is given.
func Default() Config {
	universe := []string{
		"NVDA", "MSFT", "GOOGL", "META", "AMZN", "TSM",
		"AMD", "AVGO", "ASML", "BOTZ", "ARKQ", "AIQ",
	}

	return Config{
		Universe: universe,
		Presets: []Preset{
			{
				Name:        "core AI leaders",
				Description: "mixture of big tech and flagship AI names",
				Tickers:     []string{"NVDA", "MSFT", "GOOGL", "META"},
			},
			{
				Name:        "AI hardware / semis",
				Description: "chip designers and manufacturers most exposed to AI workloads",
				Tickers:     []string{"NVDA", "AMD", "AVGO", "ASML", "TSM"},
			},
			{
				Name:        "AI platforms",
				Description: "large platforms integrating AI into products and services",
				Tickers:     []string{"MSFT", "GOOGL", "META", "AMZN"},
			},
			{
				Name:        "AI ETFs",
				Description: "thematic ETFs focused on AI, robotics and automation",
				Tickers:     []string{"BOTZ", "ARKQ", "AIQ"},
			},
			{
				Name:        "all AI names",
				Description: "all stocks and ETFs in the AI universe",
				Tickers:     universe,
			},
		},
		Window:       60,
		RiskFreeRate: 0.0,
		DataPath:     "data",
		ChartDir:     "charts",
	}
}

// Load reads and validates a Config from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err,
			"failed to read config file %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err,
			"failed to parse config file %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	return nil
}

// PresetByName returns the preset with the given name.
func (c Config) PresetByName(name string) (Preset, bool) {
	for _, p := range c.Presets {
		if p.Name == name {
			return p, true
		}
	}

	return Preset{}, false
}
