package vector

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config carries the process configuration the pipeline components need.
// It is resolved once at startup and handed to the cache, invoker and
// sequencer at construction time; nothing in this package reads global
// configuration state.
type Config struct {
	// BaseDir is the root of the on-disk vector cache.
	BaseDir string `yaml:"base_dir" mapstructure:"base_dir"`

	// BuildDir is the directory holding the external toolchain
	// executables (generate_test_vector, channelize, synthesize).
	BuildDir string `yaml:"build_dir" mapstructure:"build_dir"`

	// HeaderTemplate is the path of the JSON header template used to
	// seed dump file headers.
	HeaderTemplate string `yaml:"header_template" mapstructure:"header_template"`

	// Backend selects the default stage execution backend.
	Backend Backend `yaml:"backend" mapstructure:"backend"`
}

// MarshalYAML writes the backend as its tag so saved files round-trip
// through ParseBackend.
func (b Backend) MarshalYAML() (any, error) {
	return b.Tag(), nil
}

// UnmarshalYAML accepts any spelling ParseBackend accepts.
func (b *Backend) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseBackend(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// LoadConfigFile reads a YAML configuration file. Fields absent from the
// file keep their zero values; the caller applies defaults.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// SaveConfigFile writes the configuration as YAML, creating parent
// directories as needed.
func SaveConfigFile(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
