// Package config loads the CLI configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-labelrank/pkg/labelrank"
	"github.com/dd0wney/cluso-labelrank/pkg/validation"
)

// EngineConfig mirrors labelrank.Options in YAML form.
type EngineConfig struct {
	MaxIterations     int     `yaml:"max_iterations"`
	Inflation         float64 `yaml:"inflation"`
	Cutoff            float64 `yaml:"cutoff"`
	ConditionalUpdate float64 `yaml:"conditional_update"`
	Repeat            int     `yaml:"repeat"`
	Workers           int     `yaml:"workers"`
	DisableStallCheck bool    `yaml:"disable_stall_check"`
}

// MetricsConfig configures the optional Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Config is the full CLI configuration.
type Config struct {
	Engine   EngineConfig  `yaml:"engine"`
	LogLevel string        `yaml:"log_level"`
	Metrics  MetricsConfig `yaml:"metrics"`
}

// Default returns the configuration matching labelrank.DefaultOptions.
func Default() *Config {
	opts := labelrank.DefaultOptions()
	return &Config{
		Engine: EngineConfig{
			MaxIterations:     opts.MaxIterations,
			Inflation:         opts.Inflation,
			Cutoff:            opts.Cutoff,
			ConditionalUpdate: opts.ConditionalUpdate,
			Repeat:            opts.Repeat,
			Workers:           opts.Workers,
		},
		LogLevel: "info",
		Metrics: MetricsConfig{
			Listen: ":9187",
		},
	}
}

// Load reads and validates a YAML configuration file. Fields left out
// of the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	return validation.NewConfigValidator("Config").
		Positive("Engine.MaxIterations", c.Engine.MaxIterations).
		PositiveFloat("Engine.Inflation", c.Engine.Inflation).
		RangeFloat("Engine.Cutoff", c.Engine.Cutoff, 0, 1).
		RangeFloat("Engine.ConditionalUpdate", c.Engine.ConditionalUpdate, 0, 1).
		Positive("Engine.Repeat", c.Engine.Repeat).
		Positive("Engine.Workers", c.Engine.Workers).
		OneOf("LogLevel", c.LogLevel, []string{"debug", "info", "warn", "error"}).
		When(c.Metrics.Enabled, func(cv *validation.ConfigValidator) {
			cv.Required("Metrics.Listen", c.Metrics.Listen)
		}).
		Validate()
}

// EngineOptions converts the engine section into labelrank options.
func (c *Config) EngineOptions() labelrank.Options {
	return labelrank.Options{
		MaxIterations:     c.Engine.MaxIterations,
		Inflation:         c.Engine.Inflation,
		Cutoff:            c.Engine.Cutoff,
		ConditionalUpdate: c.Engine.ConditionalUpdate,
		Repeat:            c.Engine.Repeat,
		Workers:           c.Engine.Workers,
		DisableStallCheck: c.Engine.DisableStallCheck,
	}
}
