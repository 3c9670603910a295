package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from the manifest and environment variables.
	// Priority: defaults → Cargo.toml metadata → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	manifestPath string
}

// NewLoader creates a configuration loader reading the given Cargo.toml.
func NewLoader(manifestPath string) Loader {
	return &loader{
		manifestPath: manifestPath,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (SPEC_CHECK_*)
// 2. [package.metadata.spec-check] in the manifest
// 3. Default values
//
// A missing manifest is not an error. Directory existence is not checked
// here because flags may still change the directories; call Validate once
// overrides are applied.
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	// SPEC_CHECK_SRC_DIR, SPEC_CHECK_IGNORED_ATTRIBUTES, ...
	v.SetEnvPrefix("SPEC_CHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.BindEnv("src-dir")
	v.BindEnv("spec-dir")
	v.BindEnv("log-file")
	v.BindEnv("check-private")
	v.BindEnv("ignored-attributes")
	v.BindEnv("exclude")
	v.BindEnv("jobs")

	setDefaults(v)

	metadata, err := readMetadata(l.manifestPath)
	if err != nil {
		return nil, err
	}
	if err := v.MergeConfigMap(metadata); err != nil {
		return nil, fmt.Errorf("failed to merge manifest metadata: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateSettings(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// readMetadata returns the spec-check table of the manifest, or an empty map
// when the manifest or the table does not exist.
func readMetadata(manifestPath string) (map[string]any, error) {
	if _, err := os.Stat(manifestPath); errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, nil
	}

	manifest := viper.New()
	manifest.SetConfigFile(manifestPath)
	manifest.SetConfigType("toml")
	if err := manifest.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", manifestPath, err)
	}

	table := manifest.Sub(MetadataKey)
	if table == nil {
		return map[string]any{}, nil
	}
	return table.AllSettings(), nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("src-dir", defaults.SrcDir)
	v.SetDefault("spec-dir", defaults.SpecDir)
	v.SetDefault("log-file", defaults.LogFile)
	v.SetDefault("check-private", defaults.CheckPrivate)
	v.SetDefault("ignored-attributes", defaults.IgnoredAttributes)
	v.SetDefault("exclude", defaults.Exclude)
	v.SetDefault("jobs", defaults.Jobs)
}

// LoadConfig loads configuration from ./Cargo.toml.
func LoadConfig() (*Config, error) {
	return NewLoader("Cargo.toml").Load()
}

// LoadConfigFromManifest loads configuration from a specific Cargo.toml.
func LoadConfigFromManifest(manifestPath string) (*Config, error) {
	return NewLoader(manifestPath).Load()
}
