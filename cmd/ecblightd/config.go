package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML configuration file schema. Pointer fields
// distinguish "absent from the file" from a zero value so that file
// settings never clobber flag defaults.
type FileConfig struct {
	ProxyTarget          *string `yaml:"proxy_target"`
	MaxReprobeAttempts   *int    `yaml:"max_reprobe_attempts"`
	RestoreLevelOnResume *bool   `yaml:"restore_level_on_resume"`
	LogLevel             *string `yaml:"log_level"`
	StateDir             *string `yaml:"state_dir"`
	TraceLog             *string `yaml:"trace_log"`

	Vendor         *string `yaml:"vendor"`
	ProductVersion *string `yaml:"product_version"`

	Simulation *SimConfig `yaml:"simulation"`
}

// SimConfig configures the simulated firmware environment.
type SimConfig struct {
	Source string `yaml:"source"`
	Max    uint32 `yaml:"max"`
	Level  uint32 `yaml:"level"`

	// GPUBacklight, when set, registers a simulated raw backlight
	// device under this name with GPUMax as its range.
	GPUBacklight string `yaml:"gpu_backlight"`
	GPUMax       uint32 `yaml:"gpu_max"`
	GPULevel     uint32 `yaml:"gpu_level"`
}

// LoadConfigFile reads and parses a YAML configuration file.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}
