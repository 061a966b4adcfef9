package configloader

import "github.com/yaklabco/fmtlift/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Booleans: override overwrites base only if override is true
//   - Structs: per-field merge, with override's set fields taking precedence
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	// Start with a shallow copy of base
	result := *base

	// Scalars: override overwrites base if set (non-zero value)
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.MaxPasses != 0 {
		result.MaxPasses = override.MaxPasses
	}

	// Booleans: false is the zero value, so only true overrides. A CLI
	// --no-cache wins over the config file, but a file cannot unset a
	// toggle a lower layer enabled.
	if override.Check {
		result.Check = override.Check
	}
	if override.DryRun {
		result.DryRun = override.DryRun
	}
	if override.NoCache {
		result.NoCache = override.NoCache
	}
	if override.IncludeVendored {
		result.IncludeVendored = override.IncludeVendored
	}

	// Backups: merge individual fields
	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.Backups.Enabled {
		result.Backups.Enabled = override.Backups.Enabled
	}

	// Vocab: merge individual fields
	if override.Vocab.Title != "" {
		result.Vocab.Title = override.Vocab.Title
	}
	if override.Vocab.Backlink != "" {
		result.Vocab.Backlink = override.Vocab.Backlink
	}

	// Slices: override replaces base entirely if non-nil
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.Calls != nil {
		result.Calls = override.Calls
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
