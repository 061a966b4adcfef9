package fmtstr

// Span is a half-open byte range [Start, End) into the scanned source.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Text returns the slice of src the span covers.
func (s Span) Text(src string) string {
	return src[s.Start:s.End]
}

// Call families. The family is informational (listing, reporting); the
// scanner only cares about the name and whether a writer argument leads.
const (
	FamilyFormat         = "format"
	FamilyPrintLine      = "print-line"
	FamilyErrorPrintLine = "error-print-line"
	FamilyWriteTo        = "write-to"

	// FamilyCustom marks calls added through configuration.
	FamilyCustom = "custom"
)

// CallSpec describes one recognized formatting call.
type CallSpec struct {
	// Name as written at the call site, including the trailing bang.
	Name string

	// Family groups related calls for listings.
	Family string

	// Writer marks calls whose first argument names the output sink.
	Writer bool
}

// DefaultCalls returns the built-in recognized call set.
func DefaultCalls() []CallSpec {
	return []CallSpec{
		{Name: "format!", Family: FamilyFormat},
		{Name: "print!", Family: FamilyPrintLine},
		{Name: "println!", Family: FamilyPrintLine},
		{Name: "eprint!", Family: FamilyErrorPrintLine},
		{Name: "eprintln!", Family: FamilyErrorPrintLine},
		{Name: "write!", Family: FamilyWriteTo, Writer: true},
		{Name: "writeln!", Family: FamilyWriteTo, Writer: true},
	}
}

// Invocation is one recognized formatting call site. Spans index the source
// text the invocation was scanned from; the invocation itself is never
// mutated, rewriting produces new text for Span.
type Invocation struct {
	// Call is the matched call spec.
	Call CallSpec

	// Span covers the whole call, from the first byte of the name through
	// the closing parenthesis.
	Span Span

	// Template covers the template string body, between the quotes,
	// exclusive.
	Template Span

	// Args covers the explicit arguments: everything after the comma that
	// follows the template's closing quote, up to the closing parenthesis.
	// Meaningful only when HasArgs is set.
	Args Span

	// HasArgs reports whether the call carries explicit arguments.
	HasArgs bool

	// WriterExpr is the trimmed writer expression for the write-to family,
	// empty otherwise.
	WriterExpr string
}

// SkipReason classifies why a candidate call site was left verbatim.
type SkipReason string

// Skip reasons. Every one of these fails open: the candidate is excluded
// from rewriting and the surrounding file is unaffected.
const (
	// SkipShape: the text after the opening parenthesis does not begin
	// with a plain template string literal (raw strings included here).
	SkipShape SkipReason = "shape"

	// SkipUnbalanced: no confidently matched closing delimiter before end
	// of input.
	SkipUnbalanced SkipReason = "unbalanced"

	// SkipTemplate: the template contains an unterminated or ambiguous
	// embedded region.
	SkipTemplate SkipReason = "template"

	// SkipPositionalRef: a placeholder references an argument by index;
	// prepending lifted expressions would shift what it refers to.
	SkipPositionalRef SkipReason = "positional-ref"

	// SkipSpecArgRef: a format spec references an argument
	// (width/precision written as name$ or index$).
	SkipSpecArgRef SkipReason = "spec-arg-ref"

	// SkipNamedArg: the explicit argument list binds names; a lifted
	// identifier could capture one of them.
	SkipNamedArg SkipReason = "named-arg"

	// SkipPlaceholderOrder: a bare placeholder precedes an embedded
	// expression; lifting would reorder what renders where.
	SkipPlaceholderOrder SkipReason = "placeholder-order"
)

// Skip records a candidate call site that was recognized but left verbatim.
type Skip struct {
	// Call is the matched call name.
	Call string

	// Offset is the byte offset of the call name in the scanned text.
	Offset int

	// Line is the 1-based line the call name starts on.
	Line int

	// Reason classifies the skip.
	Reason SkipReason
}
