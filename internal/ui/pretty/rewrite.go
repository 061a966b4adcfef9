package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/fmtlift/pkg/fmtstr"
)

// FormatRewrite formats a single rewrite for terminal output.
// The same line is used for applied rewrites and for check-mode findings.
func (s *Styles) FormatRewrite(path string, rw fmtstr.Rewrite) string {
	location := fmt.Sprintf("%s:%d", s.FilePath.Render(path), rw.Line)

	exprWord := "expressions"
	if len(rw.Extracted) == 1 {
		exprWord = "expression"
	}
	message := s.Message.Render(fmt.Sprintf("lifted %d %s", len(rw.Extracted), exprWord))
	detail := s.Dim.Render("(" + strings.Join(rw.Extracted, ", ") + ")")

	return fmt.Sprintf("  %s  %s  %s %s\n",
		location,
		s.CallName.Render(rw.Call),
		message,
		detail,
	)
}

// FormatSkipNote formats a call site that was left verbatim.
func (s *Styles) FormatSkipNote(path string, sk fmtstr.Skip) string {
	location := fmt.Sprintf("%s:%d", s.FilePath.Render(path), sk.Line)

	return fmt.Sprintf("  %s  %s  %s %s\n",
		location,
		s.CallName.Render(sk.Call),
		s.Warning.Render("skipped"),
		s.Dim.Render("("+skipPhrase(sk.Reason)+")"),
	)
}

// skipPhrase maps a skip reason to its human-readable form.
func skipPhrase(reason fmtstr.SkipReason) string {
	switch reason {
	case fmtstr.SkipShape:
		return "no leading template string"
	case fmtstr.SkipUnbalanced:
		return "unbalanced delimiters"
	case fmtstr.SkipTemplate:
		return "ambiguous template"
	case fmtstr.SkipPositionalRef:
		return "positional argument reference"
	case fmtstr.SkipSpecArgRef:
		return "argument reference in format spec"
	case fmtstr.SkipNamedArg:
		return "named argument binding"
	case fmtstr.SkipPlaceholderOrder:
		return "placeholder order would change"
	default:
		return string(reason)
	}
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, rewriteCount int) string {
	header := s.FilePath.Render(path)
	if rewriteCount > 0 {
		word := "rewrites"
		if rewriteCount == 1 {
			word = "rewrite"
		}
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", rewriteCount, word))
	}
	return header
}
