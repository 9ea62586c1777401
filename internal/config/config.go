// Package config provides unified configuration loading for insight.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/astrocoach/insight/internal/simulate"
	"gopkg.in/yaml.v3"
)

// Config contains all insight configuration settings.
type Config struct {
	// Data contains dataset locations.
	Data DataConfig `json:"data" yaml:"data"`

	// Thresholds contains the analysis cutoffs used by derived metrics.
	Thresholds ThresholdConfig `json:"thresholds" yaml:"thresholds"`

	// Confidence configures the simulation confidence heuristic.
	Confidence simulate.ConfidenceConfig `json:"confidence" yaml:"confidence"`

	// Logging contains settings for operational and run-trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// DataConfig points at the pre-computed analytics inputs.
type DataConfig struct {
	// Dir is the directory holding the six processed CSV tables.
	Dir string `json:"dir" yaml:"dir"`

	// Warehouse is the SQLite file written by `insight import`. When set,
	// stores read from it instead of re-parsing the CSVs.
	Warehouse string `json:"warehouse,omitempty" yaml:"warehouse,omitempty"`
}

// ThresholdConfig holds the analysis cutoffs. Probabilities are in [0,1].
type ThresholdConfig struct {
	// HighIntent is the conversion probability at which a freemium user
	// counts as high-intent.
	HighIntent float64 `json:"high_intent" yaml:"high_intent"`

	// ChurnRisk is the churn probability at which a premium user counts as
	// at risk.
	ChurnRisk float64 `json:"churn_risk" yaml:"churn_risk"`

	// TopDrivers is the default number of ranked signals shown.
	TopDrivers int `json:"top_drivers" yaml:"top_drivers"`
}

// LoggingConfig configures insight's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables run-trace logging to .insight/runs.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir: filepath.Join("data", "processed"),
		},
		Thresholds: ThresholdConfig{
			HighIntent: 0.7,
			ChurnRisk:  0.6,
			TopDrivers: 10,
		},
		Confidence: simulate.DefaultConfidenceConfig(),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment
// variables. Order: defaults -> ~/.insight/config.yaml -> environment.
func Load() (*Config, error) {
	cfg := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".insight", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			cfg = fileConfig
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Thresholds.HighIntent < 0 || c.Thresholds.HighIntent > 1 {
		return fmt.Errorf("high_intent threshold must be between 0 and 1, got %f", c.Thresholds.HighIntent)
	}

	if c.Thresholds.ChurnRisk < 0 || c.Thresholds.ChurnRisk > 1 {
		return fmt.Errorf("churn_risk threshold must be between 0 and 1, got %f", c.Thresholds.ChurnRisk)
	}

	if c.Thresholds.TopDrivers < 1 {
		return fmt.Errorf("top_drivers must be at least 1, got %d", c.Thresholds.TopDrivers)
	}

	if c.Confidence.BaseWeight < 0 || c.Confidence.BaseWeight > 1 {
		return fmt.Errorf("confidence base_weight must be between 0 and 1, got %f", c.Confidence.BaseWeight)
	}

	if c.Confidence.PoolSize < 1 {
		return fmt.Errorf("confidence pool_size must be at least 1, got %d", c.Confidence.PoolSize)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("INSIGHT_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}

	if v := os.Getenv("INSIGHT_WAREHOUSE"); v != "" {
		cfg.Data.Warehouse = v
	}

	if v := os.Getenv("INSIGHT_HIGH_INTENT_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Thresholds.HighIntent = f
		}
	}

	if v := os.Getenv("INSIGHT_CHURN_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Thresholds.ChurnRisk = f
		}
	}

	if v := os.Getenv("INSIGHT_CONFIDENCE_BASE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Confidence.BaseWeight = f
		}
	}

	if v := os.Getenv("INSIGHT_CONFIDENCE_POOL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Confidence.PoolSize = n
		}
	}

	if v := os.Getenv("INSIGHT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
