package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load returns defaults merged with the YAML file at path. An empty path
// returns the defaults; a path that does not exist is an error, since the
// user asked for that file explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return cfg, nil
}
