package report

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/fmtlift/internal/ui/pretty"
	"github.com/yaklabco/fmtlift/pkg/driver"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *driver.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to process."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		r.reportFile(file)
	}

	if r.opts.ShowSummary {
		if r.opts.Verbose {
			fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
		} else {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
		}
	}

	return result.Stats.FilesChanged, nil
}

// reportFile writes the lines for one file outcome. Clean and cached files
// stay silent; skipped files and per-call skip notes appear only in verbose
// mode.
func (r *TextReporter) reportFile(file driver.FileOutcome) {
	// Handle file errors
	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(file.Path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
		)
		return
	}

	fr := file.Result
	if fr == nil || fr.CacheHit {
		return
	}

	if fr.Skipped {
		if r.opts.Verbose {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(file.Path),
				r.styles.Dim.Render("skipped ("+fr.SkipReason+")"),
			)
		}
		return
	}

	showSkips := r.opts.Verbose && len(fr.EngineSkips) > 0
	if len(fr.Rewrites) == 0 && !showSkips {
		return
	}

	// File header
	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(file.Path, len(fr.Rewrites)))

	for _, rw := range fr.Rewrites {
		fmt.Fprint(r.bw, r.styles.FormatRewrite(file.Path, rw))
	}
	if showSkips {
		for _, sk := range fr.EngineSkips {
			fmt.Fprint(r.bw, r.styles.FormatSkipNote(file.Path, sk))
		}
	}

	// Blank line between files
	fmt.Fprintln(r.bw)
}
