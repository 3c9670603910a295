// Package config loads spec-check settings.
//
// Settings are layered, highest priority first:
//  1. Command-line flags (applied by the caller, see ApplyOverrides)
//  2. Environment variables (SPEC_CHECK_*)
//  3. The [package.metadata.spec-check] table of Cargo.toml
//  4. Built-in defaults
package config

import "runtime"

// MetadataKey is the Cargo.toml table that holds spec-check settings.
const MetadataKey = "package.metadata.spec-check"

// Config holds the settings of a spec-check run.
type Config struct {
	SrcDir  string `mapstructure:"src-dir"`  // directory scanned for .rs files
	SpecDir string `mapstructure:"spec-dir"` // directory holding the paired .md files

	// LogFile is the report destination.
	LogFile string `mapstructure:"log-file" validate:"notblank"`

	// CheckPrivate includes non-pub items.
	CheckPrivate bool `mapstructure:"check-private"`

	// IgnoredAttributes are substrings; an attribute containing any of them
	// is left out of attribute comparison.
	IgnoredAttributes []string `mapstructure:"ignored-attributes" validate:"dive,notblank"`

	// Exclude holds glob patterns, relative to SrcDir, of source files to skip.
	Exclude []string `mapstructure:"exclude"`

	// Jobs is the number of file pairs checked in parallel.
	Jobs int `mapstructure:"jobs" validate:"min=1"`
}

// Default returns a configuration with the built-in defaults.
func Default() *Config {
	return &Config{
		SrcDir:            "src",
		SpecDir:           "spec",
		LogFile:           "spec-check.log",
		CheckPrivate:      false,
		IgnoredAttributes: []string{"doc"},
		Exclude:           []string{},
		Jobs:              runtime.NumCPU(),
	}
}

// Overrides carries values set explicitly on the command line. Nil fields
// leave the loaded value untouched.
type Overrides struct {
	SrcDir       *string
	SpecDir      *string
	LogFile      *string
	CheckPrivate *bool
	Jobs         *int

	// ExtraIgnoredAttributes extend the configured list rather than
	// replacing it.
	ExtraIgnoredAttributes []string
}

// ApplyOverrides copies the explicitly set values of o onto c.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.SrcDir != nil {
		c.SrcDir = *o.SrcDir
	}
	if o.SpecDir != nil {
		c.SpecDir = *o.SpecDir
	}
	if o.LogFile != nil {
		c.LogFile = *o.LogFile
	}
	if o.CheckPrivate != nil {
		c.CheckPrivate = *o.CheckPrivate
	}
	if o.Jobs != nil {
		c.Jobs = *o.Jobs
	}
	c.IgnoredAttributes = append(c.IgnoredAttributes, o.ExtraIgnoredAttributes...)
}
