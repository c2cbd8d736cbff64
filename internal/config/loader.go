package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".aigrader"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .aigrader configuration file.
type File struct {
	// Weights overrides the default category weight table.
	// Missing categories keep their default weight; the resulting table
	// must still sum to 1.0 or Validate fails.
	Weights map[string]float64 `yaml:"weights,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// PageSpeedAPIKey is the PageSpeed Insights API key.
	// Keeping it in the config file avoids exposing it in shell history.
	PageSpeedAPIKey string `yaml:"pageSpeedApiKey,omitempty"`

	// ReferenceYear anchors content-currency checks.
	ReferenceYear int `yaml:"referenceYear,omitempty"`

	// Headers are custom HTTP headers to include in page requests.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .aigrader in the current directory
// 3. Look for .aigrader in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply copies the file settings onto the config. CLI flags take priority,
// so Apply only fills fields the user has not already set explicitly.
func (cf *File) Apply(c *Config) {
	if cf == nil {
		return
	}

	for key, w := range cf.Weights {
		c.Weights[key] = w
	}
	if cf.UserAgent != "" && c.UserAgent == DefaultUserAgent {
		c.UserAgent = cf.UserAgent
	}
	if cf.PageSpeedAPIKey != "" && c.PageSpeedAPIKey == "" {
		c.PageSpeedAPIKey = cf.PageSpeedAPIKey
	}
	if cf.ReferenceYear > 0 && c.ReferenceYear == 0 {
		c.ReferenceYear = cf.ReferenceYear
	}
	c.FileConfig = cf
}
