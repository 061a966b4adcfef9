// Package driver provides multi-file rewrite orchestration.
package driver

import (
	"github.com/yaklabco/fmtlift/pkg/fmtstr"
	"github.com/yaklabco/fmtlift/pkg/fsutil"
)

// ResultCache is consulted before running the engine and fed the hashes of
// content that needs no rewriting. Implementations must be safe for
// concurrent use; a nil cache disables caching.
type ResultCache interface {
	// Contains reports whether the hash was clean as of the previous run.
	Contains(hash [32]byte) bool

	// Add records a content hash as clean.
	Add(hash [32]byte)
}

// Options controls multi-file rewriting behavior.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory. Explicitly named
	// files bypass the extension filter.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (with leading dot)
	// considered rewritable. Defaults to [".rs"] via DefaultExtensions().
	Extensions []string

	// IgnoreGlobs are glob patterns used to skip files or directories.
	// These merge ignore rules from config and CLI (e.g. --ignore).
	IgnoreGlobs []string

	// IncludeVendored processes vendored and generated files too.
	IncludeVendored bool

	// Check reports files that need rewriting without writing anything.
	Check bool

	// DryRun computes unified diffs without writing anything.
	DryRun bool

	// Backup configures sidecar backups of rewritten files.
	Backup fsutil.BackupConfig

	// Calls is the recognized call set. Nil means fmtstr.DefaultCalls.
	Calls []fmtstr.CallSpec

	// MaxPasses bounds the rewrite loop per file. Zero means the engine
	// default.
	MaxPasses int

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means one per CPU.
	Jobs int

	// Cache is the known-normalized result cache. Nil disables caching.
	Cache ResultCache
}

// DefaultExtensions returns the default set of rewritable file extensions.
func DefaultExtensions() []string {
	return []string{".rs"}
}

// effectiveExtensions returns the extensions to use, defaulting if empty.
func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
