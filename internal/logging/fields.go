// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldCheck   = "check"
	FieldDryRun  = "dry_run"
	FieldJobs    = "jobs"
	FieldFormat  = "format"
	FieldCalls   = "calls"
	FieldNoCache = "no_cache"

	// Statistics fields.
	FieldFilesScanned       = "files_scanned"
	FieldFilesChanged       = "files_changed"
	FieldFilesFromCache     = "files_from_cache"
	FieldFilesErrored       = "files_errored"
	FieldInvocations        = "invocations"
	FieldInvocationsRewrote = "invocations_rewritten"
	FieldInvocationsSkipped = "invocations_skipped"
	FieldExpressionsLifted  = "expressions_lifted"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Call-table fields.
	FieldName   = "name"
	FieldFamily = "family"
	FieldWriter = "writer"

	// Vocabulary fields.
	FieldTerms      = "terms"
	FieldCategories = "categories"
)
