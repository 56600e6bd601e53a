// Package config loads conversion settings from YAML or JSON files.
package config

import (
	"encoding/json"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultAuthor is the author tag stamped on changesets when none is
// configured.
const DefaultAuthor = "your_author"

// Config holds the settings for one conversion run.
type Config struct {
	// Author is the changeset author attribute.
	Author string `yaml:"author" json:"author"`

	// IDPrefix is prepended to every generated changeset identifier.
	IDPrefix string `yaml:"idPrefix" json:"idPrefix"`

	// Strict aborts the run on the first malformed statement instead of
	// skipping it with a warning.
	Strict bool `yaml:"strict" json:"strict"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{Author: DefaultAuthor}
}

// LoadFromFile loads configuration from a YAML or JSON file. YAML is
// tried first, then JSON, matching the file formats accepted elsewhere
// in the CLI.
func LoadFromFile(filename string) (*Config, error) {
	slog.Debug("Loading config from file", "filename", filename)
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		slog.Debug("YAML unmarshal failed, trying JSON", "error", err)
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}

	if config.Author == "" {
		config.Author = DefaultAuthor
	}

	slog.Debug("Loaded config", "author", config.Author, "idPrefix", config.IDPrefix, "strict", config.Strict)
	return &config, nil
}
