package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration file shape (poe2opt.yaml).
type Config struct {
	Tree string `yaml:"tree"`

	Oracle struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"oracle"`

	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"redis"`

	Search struct {
		Patience         int     `yaml:"patience"`
		MaxIterations    int     `yaml:"max_iterations"`
		MinRelativeDelta float64 `yaml:"min_relative_delta"`
	} `yaml:"search"`
}

// LoadConfig reads the YAML configuration. A missing file is not an error:
// flags alone can carry a full setup.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}
