package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/fmtlift/pkg/driver"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "5 rewrites (8 expressions lifted) in 2 files, 1 skipped".
func (s *Styles) FormatSummaryOneLine(stats driver.Stats) string {
	if stats.InvocationsRewritten == 0 {
		msg := s.Success.Render("No changes needed") + s.Dim.Render(fmt.Sprintf(" (%d files checked)", stats.FilesScanned))
		if stats.InvocationsSkipped > 0 {
			msg += ", " + s.Warning.Render(fmt.Sprintf("%d calls skipped", stats.InvocationsSkipped))
		}
		if stats.FilesErrored > 0 {
			errWord := "errors"
			if stats.FilesErrored == 1 {
				errWord = "error"
			}
			msg += ", " + s.Error.Render(fmt.Sprintf("%d %s", stats.FilesErrored, errWord))
		}
		return msg + "\n"
	}

	var parts []string

	rewriteWord := "rewrites"
	if stats.InvocationsRewritten == 1 {
		rewriteWord = "rewrite"
	}
	exprWord := "expressions"
	if stats.ExpressionsLifted == 1 {
		exprWord = "expression"
	}
	fileWord := wordFiles
	if stats.FilesChanged == 1 {
		fileWord = wordFile
	}
	parts = append(parts, fmt.Sprintf("%d %s (%d %s lifted) in %d %s",
		stats.InvocationsRewritten, rewriteWord,
		stats.ExpressionsLifted, exprWord,
		stats.FilesChanged, fileWord))

	// Call sites left verbatim
	if stats.InvocationsSkipped > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d skipped", stats.InvocationsSkipped)))
	}

	// Files actually rewritten on disk
	if stats.FilesWritten > 0 {
		writtenWord := wordFiles
		if stats.FilesWritten == 1 {
			writtenWord = wordFile
		}
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d %s updated", stats.FilesWritten, writtenWord)))
	}

	if stats.FilesErrored > 0 {
		errWord := "errors"
		if stats.FilesErrored == 1 {
			errWord = "error"
		}
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s", stats.FilesErrored, errWord)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats driver.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	// Files
	builder.WriteString("  Files checked:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesScanned)) + "\n")

	if stats.FilesChanged > 0 {
		builder.WriteString("  Files changed:     " +
			s.Failure.Render(strconv.Itoa(stats.FilesChanged)) + "\n")
	}

	if stats.FilesWritten > 0 {
		builder.WriteString("  Files updated:     " +
			s.Success.Render(strconv.Itoa(stats.FilesWritten)) + "\n")
	}

	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:     " +
			s.SummaryValue.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}

	if stats.FilesSkippedCache > 0 {
		builder.WriteString("  From cache:        " +
			s.SummaryValue.Render(strconv.Itoa(stats.FilesSkippedCache)) + "\n")
	}

	if stats.FilesErrored > 0 {
		builder.WriteString("  Errors:            " +
			s.Error.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")

	// Call sites
	builder.WriteString("  Calls found:       " +
		s.SummaryValue.Render(strconv.Itoa(stats.InvocationsFound)) + "\n")

	if stats.InvocationsRewritten > 0 {
		builder.WriteString("    Rewritten:       " +
			s.Success.Render(strconv.Itoa(stats.InvocationsRewritten)) + "\n")
	}
	if stats.InvocationsSkipped > 0 {
		builder.WriteString("    Skipped:         " +
			s.Warning.Render(strconv.Itoa(stats.InvocationsSkipped)) + "\n")
	}
	if stats.ExpressionsLifted > 0 {
		builder.WriteString("    Lifted:          " +
			s.SummaryValue.Render(strconv.Itoa(stats.ExpressionsLifted)) + "\n")
	}

	builder.WriteString("\n")

	// Overall status
	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Completed with errors"))
	case stats.FilesWritten > 0:
		builder.WriteString(s.Success.Render("Normalization applied"))
	case stats.FilesChanged > 0:
		builder.WriteString(s.Warning.Render("Changes needed"))
	default:
		builder.WriteString(s.Success.Render("All files normal"))
	}
	builder.WriteString("\n")

	return builder.String()
}
