package report

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/fmtlift/pkg/driver"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path          string        `json:"path"`
	Changed       bool          `json:"changed"`
	Written       bool          `json:"written,omitempty"`
	BackupCreated bool          `json:"backupCreated,omitempty"`
	CacheHit      bool          `json:"cacheHit,omitempty"`
	Skipped       bool          `json:"skipped,omitempty"`
	SkipReason    string        `json:"skipReason,omitempty"`
	Passes        int           `json:"passes,omitempty"`
	Rewrites      []JSONRewrite `json:"rewrites,omitempty"`
	Skips         []JSONSkip    `json:"skips,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// JSONRewrite represents a single rewritten call site.
type JSONRewrite struct {
	Call        string   `json:"call"`
	Line        int      `json:"line"`
	Expressions []string `json:"expressions"`
}

// JSONSkip represents a call site left verbatim.
type JSONSkip struct {
	Call   string `json:"call"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked      int `json:"filesChecked"`
	FilesChanged      int `json:"filesChanged"`
	FilesWritten      int `json:"filesWritten"`
	FilesSkipped      int `json:"filesSkipped"`
	FilesFromCache    int `json:"filesFromCache"`
	FilesErrored      int `json:"filesErrored"`
	CallsFound        int `json:"callsFound"`
	CallsRewritten    int `json:"callsRewritten"`
	CallsSkipped      int `json:"callsSkipped"`
	ExpressionsLifted int `json:"expressionsLifted"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *driver.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesChanged, nil
}

// buildOutput maps a run result to the wire shape. The summary comes
// straight from the run stats; per-file entries cover every scanned file,
// including clean and cached ones, so consumers see the full scan set.
func buildOutput(result *driver.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	output.Summary = JSONSummary{
		FilesChecked:      result.Stats.FilesScanned,
		FilesChanged:      result.Stats.FilesChanged,
		FilesWritten:      result.Stats.FilesWritten,
		FilesSkipped:      result.Stats.FilesSkipped,
		FilesFromCache:    result.Stats.FilesSkippedCache,
		FilesErrored:      result.Stats.FilesErrored,
		CallsFound:        result.Stats.InvocationsFound,
		CallsRewritten:    result.Stats.InvocationsRewritten,
		CallsSkipped:      result.Stats.InvocationsSkipped,
		ExpressionsLifted: result.Stats.ExpressionsLifted,
	}

	if len(result.Files) > 0 {
		output.Files = make([]JSONFileResult, 0, len(result.Files))
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{Path: file.Path}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}

		if fr := file.Result; fr != nil {
			fileResult.Changed = fr.Changed
			fileResult.Written = fr.Written
			fileResult.BackupCreated = fr.BackupCreated
			fileResult.CacheHit = fr.CacheHit
			fileResult.Skipped = fr.Skipped
			fileResult.SkipReason = fr.SkipReason
			fileResult.Passes = fr.Passes

			for _, rw := range fr.Rewrites {
				fileResult.Rewrites = append(fileResult.Rewrites, JSONRewrite{
					Call:        rw.Call,
					Line:        rw.Line,
					Expressions: rw.Extracted,
				})
			}
			for _, sk := range fr.EngineSkips {
				fileResult.Skips = append(fileResult.Skips, JSONSkip{
					Call:   sk.Call,
					Line:   sk.Line,
					Reason: string(sk.Reason),
				})
			}
		}

		output.Files = append(output.Files, fileResult)
	}

	return output
}
