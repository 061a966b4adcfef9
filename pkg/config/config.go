// Package config defines the configuration types for fmtlift.
// These are pure data structures; loading, merging, and environment
// handling live in internal/configloader.
package config

import (
	"fmt"
	"strings"
)

// CallConfig declares an additional formatting call to recognize, on top
// of the built-in ones. Name carries the trailing bang ("log!").
type CallConfig struct {
	Name   string `yaml:"name" toml:"name"`
	Writer bool   `yaml:"writer" toml:"writer"`
}

// BackupsConfig controls sidecar backups when rewriting files.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Mode    string `yaml:"mode" toml:"mode"` // "sidecar" or "none"
}

// VocabConfig carries defaults for the vocab subcommand.
type VocabConfig struct {
	Title    string `yaml:"title" toml:"title"`
	Backlink string `yaml:"backlink" toml:"backlink"`
}

// Config is the root configuration structure for fmtlift.
type Config struct {
	// Extensions lists the file extensions to rewrite, with leading dots.
	Extensions []string `yaml:"extensions" toml:"extensions"`

	// Ignore contains glob patterns for paths to skip. ** matches across
	// directory separators.
	Ignore []string `yaml:"ignore" toml:"ignore"`

	// Calls lists extra formatting calls, merged over the built-ins.
	Calls []CallConfig `yaml:"calls" toml:"calls"`

	// Jobs is the number of parallel workers. 0 means one per CPU.
	Jobs int `yaml:"jobs" toml:"jobs"`

	// Format specifies the report format.
	Format OutputFormat `yaml:"format" toml:"format"`

	// MaxPasses bounds the rewrite fixpoint loop. 0 means the engine
	// default.
	MaxPasses int `yaml:"max_passes" toml:"max_passes"`

	// Backups configures sidecar backups of rewritten files.
	Backups BackupsConfig `yaml:"backups" toml:"backups"`

	// NoCache disables the result cache.
	NoCache bool `yaml:"no_cache" toml:"no_cache"`

	// IncludeVendored rewrites vendored and generated files too.
	IncludeVendored bool `yaml:"include_vendored" toml:"include_vendored"`

	// Vocab carries defaults for vocabulary projection.
	Vocab VocabConfig `yaml:"vocab" toml:"vocab"`

	// CLI-level run modes (not persisted to config files).

	// Check reports files needing normalization without writing.
	Check bool `yaml:"-" toml:"-"`

	// DryRun shows diffs without writing.
	DryRun bool `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with the built-in defaults.
func NewConfig() *Config {
	return &Config{
		Extensions: []string{".rs"},
		Jobs:       0,
		Format:     FormatText,
		MaxPasses:  0,
		Backups: BackupsConfig{
			Enabled: false,
			Mode:    "sidecar",
		},
	}
}

// Validate checks the configuration for values no component can act on.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}
	if c.Format != "" && !c.Format.IsValid() {
		return fmt.Errorf("unknown output format %q (want text, json, or diff)", c.Format)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.MaxPasses < 0 {
		return fmt.Errorf("max_passes must not be negative, got %d", c.MaxPasses)
	}
	switch c.Backups.Mode {
	case "", "sidecar", "none":
	default:
		return fmt.Errorf("unknown backup mode %q (want sidecar or none)", c.Backups.Mode)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	for _, call := range c.Calls {
		if !strings.HasSuffix(call.Name, "!") {
			return fmt.Errorf("call name %q must end with a bang", call.Name)
		}
	}
	return nil
}
