package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v2"
)

const (
	OutputText = "text"
	OutputYAML = "yaml"
)

// Config holds the settings that can be provided through a YAML file. Command
// line flags take precedence over the values loaded from the file.
type Config struct {
	LogLevel string `yaml:"log_level"`
	Workers  int    `yaml:"workers"`
	Output   string `yaml:"output"`
	MaxSize  string `yaml:"max_size"`
}

func Default() Config {
	return Config{
		LogLevel: "INFO",
		Workers:  runtime.NumCPU(),
		Output:   OutputText,
		MaxSize:  "256MB",
	}
}

// Load reads the configuration file at path on top of Default. A missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read configuration file '%s': %w", path, err)
	}

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse configuration file '%s': %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0, got %d", c.Workers)
	}
	switch c.Output {
	case OutputText, OutputYAML:
	default:
		return fmt.Errorf("unsupported output %q: must be %q or %q", c.Output, OutputText, OutputYAML)
	}
	return nil
}
