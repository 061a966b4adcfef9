package driver

// FileOutcome holds the processing outcome for a single file.
type FileOutcome struct {
	// Path is the file path as discovered.
	Path string

	// Result holds the pipeline result. Nil when processing failed.
	Result *FileResult

	// Error holds the processing error, if any.
	Error error
}

// Stats aggregates counters across a run.
type Stats struct {
	// FilesScanned is the number of files picked up by discovery.
	FilesScanned int

	// FilesChanged is the number of files whose content needed rewriting.
	// In fix mode these were written; in check or dry-run mode they were
	// only reported.
	FilesChanged int

	// FilesWritten is the number of changed files actually rewritten on
	// disk. Zero in check and dry-run modes.
	FilesWritten int

	// FilesUnchanged is the number of files already in normal form.
	FilesUnchanged int

	// FilesSkippedCache is the number of files skipped because their
	// content hash was known clean from a previous run.
	FilesSkippedCache int

	// FilesSkipped is the number of files skipped for other reasons,
	// such as generated content, a language mismatch, or concurrent
	// modification.
	FilesSkipped int

	// FilesErrored is the number of files whose processing failed.
	FilesErrored int

	// InvocationsFound is the total number of recognized call sites.
	InvocationsFound int

	// InvocationsRewritten is the number of call sites rewritten.
	InvocationsRewritten int

	// InvocationsSkipped is the number of call sites left untouched
	// because rewriting could not be proven safe.
	InvocationsSkipped int

	// ExpressionsLifted is the total number of expressions moved out of
	// templates into argument lists.
	ExpressionsLifted int
}

// Result holds the aggregate outcome of a run.
type Result struct {
	// Files holds per-file outcomes in discovery order.
	Files []FileOutcome

	// Stats aggregates counters across all files.
	Stats Stats

	// Errors collects per-file processing errors. A failed file never
	// aborts the run.
	Errors []error
}

// HasChanges reports whether any file needed rewriting.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesChanged > 0
}

// HasErrors reports whether any file failed to process.
func (r *Result) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// accumulate folds one file outcome into the aggregate result.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)
	r.Stats.FilesScanned++

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		r.Errors = append(r.Errors, outcome.Error)
		return
	}

	fr := outcome.Result
	if fr == nil {
		return
	}

	r.Stats.InvocationsFound += fr.Invocations
	r.Stats.InvocationsRewritten += len(fr.Rewrites)
	r.Stats.InvocationsSkipped += len(fr.EngineSkips)
	r.Stats.ExpressionsLifted += fr.Lifted

	switch {
	case fr.CacheHit:
		r.Stats.FilesSkippedCache++
	case fr.Skipped:
		r.Stats.FilesSkipped++
	case fr.Changed:
		r.Stats.FilesChanged++
		if fr.Written {
			r.Stats.FilesWritten++
		}
	default:
		r.Stats.FilesUnchanged++
	}
}
