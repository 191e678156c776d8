// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Icons        string   `yaml:"icons,omitempty" json:"-"`
	DefaultIcon  string   `yaml:"default_icon,omitempty" json:"-"`
	Store        string   `yaml:"store,omitempty" json:"-"`
	SearchFields []string `yaml:"search_fields,omitempty" json:"search_fields,omitempty"`
	Sources      []Source `yaml:"sources" json:"sources"`
	IconSize     int      `yaml:"icon_size,omitempty" json:"icon_size"`
}

// Source represents one waypoint table to import.
type Source struct {
	Name string `yaml:"name" json:"name"`

	// Local file path or http(s) URL. A ".zst" suffix means zstd compressed.
	Path string `yaml:"path" json:"-"`

	// csv, json, geojson or plist; guessed from Path when empty.
	Format string `yaml:"format,omitempty" json:"format,omitempty"`

	Disabled bool `yaml:"disabled,omitempty" json:"-"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	for i, src := range cfg.Sources {
		if src.Path == "" {
			return nil, fmt.Errorf("source %d (%s): path is required", i, src.Name)
		}
		if src.Name == "" {
			cfg.Sources[i].Name = src.Path
		}
	}

	if cfg.IconSize <= 0 {
		cfg.IconSize = 32
	}

	return &cfg, nil
}
