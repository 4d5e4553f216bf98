// Package config provides unified configuration loading for signloop.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config contains all signloop configuration settings. The core engine's
// constants (tick decay, pruning epsilon, interpretation formats) are
// compiled defaults; configuration feeds the front-ends, which pass explicit
// values into core constructors.
type Config struct {
	// Simulation contains defaults for agents and scripted runs.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Logging contains settings for operational and event logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SimulationConfig configures agent construction and the script runner.
type SimulationConfig struct {
	// MemoryCapacity is the default memory field capacity for agents
	// created without an explicit capacity.
	MemoryCapacity int `json:"memory_capacity" yaml:"memory_capacity"`

	// CoherenceThreshold is the default admission threshold for agents
	// created without an explicit threshold. Range: 0.0 to 1.0.
	CoherenceThreshold float64 `json:"coherence_threshold" yaml:"coherence_threshold"`

	// TickDecayRate is the memory/substrate decay applied per script tick.
	TickDecayRate float64 `json:"tick_decay_rate" yaml:"tick_decay_rate"`

	// WhileCap bounds while-loop iterations in narrative scripts so a
	// non-terminating condition cannot hang a run.
	WhileCap int `json:"while_cap" yaml:"while_cap"`
}

// LoggingConfig configures signloop's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables event logging to <event_dir>/events.jsonl.
	Level string `json:"level" yaml:"level"`

	// EventDir is the directory event logs are written to.
	// Defaults to ".signloop" under the working directory.
	EventDir string `json:"event_dir,omitempty" yaml:"event_dir,omitempty"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			MemoryCapacity:     128,
			CoherenceThreshold: 0.2,
			TickDecayRate:      0.05,
			WhileCap:           1000,
		},
		Logging: LoggingConfig{
			Level:    "info",
			EventDir: ".signloop",
		},
	}
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.signloop/config.yaml -> environment variables
func Load() (*Config, error) {
	config := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".signloop", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Simulation.MemoryCapacity <= 0 {
		return fmt.Errorf("memory_capacity must be positive, got %d", c.Simulation.MemoryCapacity)
	}

	if c.Simulation.CoherenceThreshold < 0 || c.Simulation.CoherenceThreshold > 1 {
		return fmt.Errorf("coherence_threshold must be between 0 and 1, got %f", c.Simulation.CoherenceThreshold)
	}

	if c.Simulation.TickDecayRate < 0 || c.Simulation.TickDecayRate > 1 {
		return fmt.Errorf("tick_decay_rate must be between 0 and 1, got %f", c.Simulation.TickDecayRate)
	}

	if c.Simulation.WhileCap <= 0 {
		return fmt.Errorf("while_cap must be positive, got %d", c.Simulation.WhileCap)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("SIGNLOOP_MEMORY_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.MemoryCapacity = n
		}
	}

	if v := os.Getenv("SIGNLOOP_COHERENCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Simulation.CoherenceThreshold = f
		}
	}

	if v := os.Getenv("SIGNLOOP_TICK_DECAY_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Simulation.TickDecayRate = f
		}
	}

	if v := os.Getenv("SIGNLOOP_WHILE_CAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.WhileCap = n
		}
	}

	if v := os.Getenv("SIGNLOOP_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("SIGNLOOP_EVENT_DIR"); v != "" {
		config.Logging.EventDir = v
	}
}
