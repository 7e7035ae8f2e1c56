// Package config carries the runtime configuration of the risk report
// tooling: analysis defaults, logging, and output locations. Values come
// from built-in defaults, overlaid by an optional YAML file, overlaid by
// RISK_* environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"riskcli/internal/risk"
)

// Config is the complete tool configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

// OutputConfig controls where reports and exported series land.
type OutputConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR"`
}

// AnalysisConfig holds the default metric parameters; each can still be
// overridden per run on the command line.
type AnalysisConfig struct {
	VolatilityWindow int     `yaml:"volatility_window" envconfig:"VOLATILITY_WINDOW"`
	DrawdownWindow   int     `yaml:"drawdown_window" envconfig:"DRAWDOWN_WINDOW"`
	VaRLevel         float64 `yaml:"var_level" envconfig:"VAR_LEVEL"`
	OmegaThreshold   float64 `yaml:"omega_threshold" envconfig:"OMEGA_THRESHOLD"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Dir: "reports",
		},
		Analysis: AnalysisConfig{
			VolatilityWindow: risk.DefaultVolatilityWindow,
			DrawdownWindow:   risk.DefaultDrawdownWindow,
			VaRLevel:         risk.DefaultVaRLevel,
			OmegaThreshold:   risk.DefaultOmegaThreshold,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// RISK_* environment variables, in increasing precedence. An empty path
// falls back to config.yaml in the working directory when present.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("RISK", cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}

	if c.Output.Dir == "" {
		return fmt.Errorf("output dir must not be empty")
	}

	if c.Analysis.VolatilityWindow < 2 {
		return fmt.Errorf("volatility window must be at least 2, got %d", c.Analysis.VolatilityWindow)
	}
	if c.Analysis.DrawdownWindow < 1 {
		return fmt.Errorf("drawdown window must be at least 1, got %d", c.Analysis.DrawdownWindow)
	}
	if c.Analysis.VaRLevel <= 0 || c.Analysis.VaRLevel >= 100 {
		return fmt.Errorf("VaR level must be in (0, 100), got %g", c.Analysis.VaRLevel)
	}
	return nil
}
