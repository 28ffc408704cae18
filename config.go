package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigFile holds defaults for the global options. Values set on the command line take precedence.
type ConfigFile struct {
	ServerUrl string `yaml:"server_url"`
	Project   string `yaml:"project"`
	Token     string `yaml:"token"`
	RepoDir   string `yaml:"repo_dir"`
	Remote    string `yaml:"remote"`
	LogLevel  string `yaml:"log_level"`
}

// loadConfigFile reads the YAML config file at path. An empty path yields an empty config.
func loadConfigFile(path string) (ConfigFile, error) {
	var config ConfigFile
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse YAML config %s: %w", path, err)
	}

	return config, nil
}
