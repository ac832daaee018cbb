// Package config loads scene configuration files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/phanxgames/ornament"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML scene configuration from path, layered over
// ornament.DefaultSceneConfig, and validates the result. An empty path
// returns the defaults.
func Load(path string) (ornament.SceneConfig, error) {
	if path == "" {
		return ornament.DefaultSceneConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ornament.SceneConfig{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return ornament.SceneConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Keys absent from data keep their
// default values; a groups list, when present, replaces the stock groups.
func Parse(data []byte) (ornament.SceneConfig, error) {
	cfg := ornament.DefaultSceneConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return ornament.SceneConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ornament.SceneConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Marshal renders cfg as YAML, for `ornament config` style dumps.
func Marshal(cfg ornament.SceneConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
