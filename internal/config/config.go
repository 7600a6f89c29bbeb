// Package config loads onnxcheck configuration from YAML with sensible
// defaults for the SafetyVisionMonitor model set.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flysky19/onnxcheck/internal/compat"
)

// Config holds everything a batch run needs.
type Config struct {
	// ModelsDir is the directory holding the model files.
	ModelsDir string `yaml:"models_dir"`
	// Models are the file names to check, relative to ModelsDir.
	Models []string `yaml:"models"`
	// ORTLibrary is the path to the onnxruntime shared library. Empty
	// means the ONNXRUNTIME_LIB_PATH env var or the platform default.
	ORTLibrary string `yaml:"ort_library"`
	// Profile is the compatibility profile to enforce.
	Profile compat.Profile `yaml:"profile"`
}

// Default returns the built-in configuration: the standard yolov8s
// export set in ./Models, checked against the YoloDotNet profile.
func Default() Config {
	return Config{
		ModelsDir: "Models",
		Models: []string{
			"yolov8s.onnx",
			"yolov8s-pose.onnx",
			"yolov8s-seg.onnx",
			"yolov8s-cls.onnx",
			"yolov8s-obb.onnx",
		},
		Profile: compat.Default(),
	}
}

// Load reads a YAML config file and merges it over the defaults: absent
// fields keep their default values, so a config may override just the
// models directory or just the profile.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // G304: config path comes from the CLI flag.
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var file fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil // empty config keeps the defaults
		}
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	file.apply(&cfg)
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// fileConfig mirrors Config with pointer fields so "absent" and "empty"
// are distinguishable during the merge.
type fileConfig struct {
	ModelsDir  *string        `yaml:"models_dir"`
	Models     []string       `yaml:"models"`
	ORTLibrary *string        `yaml:"ort_library"`
	Profile    *profileConfig `yaml:"profile"`
}

type profileConfig struct {
	Name              *string `yaml:"name"`
	InputName         *string `yaml:"input_name"`
	Rank              *int    `yaml:"rank"`
	AllowDynamicBatch *bool   `yaml:"allow_dynamic_batch"`
}

func (f *fileConfig) apply(cfg *Config) {
	if f.ModelsDir != nil {
		cfg.ModelsDir = *f.ModelsDir
	}
	if f.Models != nil {
		cfg.Models = f.Models
	}
	if f.ORTLibrary != nil {
		cfg.ORTLibrary = *f.ORTLibrary
	}
	if f.Profile == nil {
		return
	}
	if f.Profile.Name != nil {
		cfg.Profile.Name = *f.Profile.Name
	}
	if f.Profile.InputName != nil {
		cfg.Profile.InputName = *f.Profile.InputName
	}
	if f.Profile.Rank != nil {
		cfg.Profile.Rank = *f.Profile.Rank
	}
	if f.Profile.AllowDynamicBatch != nil {
		cfg.Profile.AllowDynamicBatch = *f.Profile.AllowDynamicBatch
	}
}

func (c *Config) validate() error {
	if len(c.Models) == 0 {
		return fmt.Errorf("config lists no models")
	}
	if c.Profile.InputName == "" {
		return fmt.Errorf("profile has no input_name")
	}
	if c.Profile.Rank <= 0 {
		return fmt.Errorf("profile rank must be positive, got %d", c.Profile.Rank)
	}
	return nil
}
