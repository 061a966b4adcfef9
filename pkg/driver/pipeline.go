package driver

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/zeebo/blake3"

	"github.com/yaklabco/fmtlift/pkg/fix"
	"github.com/yaklabco/fmtlift/pkg/fmtstr"
	"github.com/yaklabco/fmtlift/pkg/fsutil"
	"github.com/yaklabco/fmtlift/pkg/langdetect"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// FileResult contains the result of processing a single file through the
// rewrite pipeline.
type FileResult struct {
	// Path is the file path that was processed.
	Path string

	// OriginalInfo is the file state before processing.
	OriginalInfo *fsutil.FileInfo

	// Changed is true if the content differs after normalization.
	Changed bool

	// NewContent is the normalized content (nil if unchanged).
	NewContent []byte

	// Diff is the unified diff for dry-run mode (nil otherwise).
	Diff *fix.Diff

	// CacheHit is true if the file was skipped because its content hash
	// was known clean from a previous run.
	CacheHit bool

	// Skipped is true if the file was skipped for another reason, such
	// as generated content or concurrent modification.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool

	// Passes is the number of rewrite passes the engine ran.
	Passes int

	// Invocations is the number of recognized call sites in the file.
	Invocations int

	// Rewrites holds the rewrites applied, in source order.
	Rewrites []fmtstr.Rewrite

	// EngineSkips holds call sites left untouched because rewriting
	// could not be proven safe.
	EngineSkips []fmtstr.Skip

	// Lifted is the number of expressions moved out of templates.
	Lifted int
}

// Summary returns a human-readable summary of the file result.
func (fr *FileResult) Summary() string {
	if fr.CacheHit {
		return "unchanged (cached)"
	}
	if fr.Skipped {
		return "skipped: " + fr.SkipReason
	}
	if fr.Written {
		if fr.BackupCreated {
			return "rewritten (backup created)"
		}
		return "rewritten"
	}
	if fr.Changed {
		return "changes needed"
	}
	return "ok"
}

// PipelineOptions controls per-file processing behavior.
type PipelineOptions struct {
	// Calls is the recognized call set. Nil means fmtstr.DefaultCalls.
	Calls []fmtstr.CallSpec

	// MaxPasses bounds the rewrite loop. Zero means the engine default.
	MaxPasses int

	// Check reports pending changes without computing diffs or writing.
	Check bool

	// DryRun generates diffs without writing files.
	DryRun bool

	// Backup configures backup behavior.
	Backup fsutil.BackupConfig

	// IncludeVendored disables the generated-file gate.
	IncludeVendored bool

	// Cache is the known-normalized result cache. Nil disables caching.
	Cache ResultCache
}

// DefaultPipelineOptions returns sensible defaults.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Backup: fsutil.DefaultBackupConfig(),
	}
}

// pipelineOptions derives per-file options from run options.
func pipelineOptions(opts Options) PipelineOptions {
	return PipelineOptions{
		Calls:           opts.Calls,
		MaxPasses:       opts.MaxPasses,
		Check:           opts.Check,
		DryRun:          opts.DryRun,
		Backup:          opts.Backup,
		IncludeVendored: opts.IncludeVendored,
		Cache:           opts.Cache,
	}
}

// ProcessFile runs the full rewrite pipeline for a single file.
//
// The pipeline performs the following steps:
//  1. Read and hash the original file.
//  2. Skip if the hash is known clean from a previous run.
//  3. Skip generated files and files that are not the rewritten language.
//  4. Normalize the content to a fixed point.
//  5. Generate diff (if dry-run mode) or stop (if check mode).
//  6. Check for concurrent modifications.
//  7. Create backup (if enabled) and write atomically.
func ProcessFile(ctx context.Context, path string, opts PipelineOptions) (*FileResult, error) {
	result := &FileResult{
		Path: path,
	}

	// Step 1: Read and hash the original file.
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}
	result.OriginalInfo = info

	// Step 2: Consult the cache. A hit means this exact content already
	// normalized to itself; re-record it so it survives into the next
	// snapshot.
	if opts.Cache != nil && opts.Cache.Contains(info.Hash) {
		result.CacheHit = true
		opts.Cache.Add(info.Hash)
		return result, nil
	}

	// Step 3: Content-based gates. These need the file content, so they
	// run here rather than in discovery.
	if !opts.IncludeVendored && langdetect.IsGenerated(path, content) {
		result.Skipped = true
		result.SkipReason = "generated file"
		return result, nil
	}
	if !langdetect.Matches(path, content, langdetect.DefaultLanguage) {
		result.Skipped = true
		result.SkipReason = "not " + langdetect.DefaultLanguage + " source"
		return result, nil
	}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
	default:
	}

	// Step 4: Normalize to a fixed point.
	res := fmtstr.Normalize(string(content), fmtstr.Options{
		Calls:     opts.Calls,
		MaxPasses: opts.MaxPasses,
	})
	result.Passes = res.Passes
	result.Invocations = res.Invocations
	result.Rewrites = res.Rewrites
	result.EngineSkips = res.Skips
	result.Lifted = res.Lifted()

	if !res.Changed {
		// Already in normal form: remember the hash for next time.
		if opts.Cache != nil {
			opts.Cache.Add(info.Hash)
		}
		return result, nil
	}

	result.Changed = true
	newContent := []byte(res.Text)
	result.NewContent = newContent

	// Step 5: Dry-run stops at a diff, check mode stops bare. Dry-run is
	// tested first so check combined with the diff format still produces
	// diffs to show.
	if opts.DryRun {
		result.Diff = fix.GenerateDiff(path, content, newContent)
		return result, nil
	}
	if opts.Check {
		return result, nil
	}

	// Step 6: Check for concurrent modifications before writing.
	modified, err := fsutil.CheckModified(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	// Step 7: Create backup if enabled, then write atomically.
	if opts.Backup.Enabled {
		created, err := fsutil.CreateBackup(ctx, path, opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	if err := fsutil.WriteAtomic(ctx, path, newContent, info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	// The rewritten content is clean: remember its hash so the next run
	// skips the file without re-running the engine.
	if opts.Cache != nil {
		opts.Cache.Add(blake3.Sum256(newContent))
	}

	return result, nil
}

// categorizeError wraps an error with the appropriate pipeline error type.
// It uses errors.Is for robust error detection rather than string matching.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}

	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrWriteFailure)
}
