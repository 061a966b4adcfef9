package fmtstr

import "strings"

// Rewrite is one planned replacement of an invocation's full span.
type Rewrite struct {
	// Span locates the original invocation in the text the rewrite was
	// planned against.
	Span Span

	// Call is the invocation's call name.
	Call string

	// NewText is the replacement for the whole span.
	NewText string

	// Extracted lists the lifted expressions in placeholder order.
	Extracted []string

	// Line is the 1-based line the invocation starts on.
	Line int
}

// assemble builds the replacement text for an invocation from its
// decomposed template. Literal and pass-through segments are re-emitted
// verbatim; embedded expressions become empty placeholders, their specs
// kept, and the expressions are prepended ahead of the explicit arguments.
// The explicit argument text itself is carried over byte for byte.
func assemble(src string, inv Invocation, segs []Segment) (string, []string) {
	var tmpl strings.Builder
	var lifted []string
	for _, seg := range segs {
		if seg.Kind == SegLiteral || seg.PassThrough() {
			tmpl.WriteString(seg.Raw)
			continue
		}
		tmpl.WriteByte('{')
		if seg.Spec != "" {
			tmpl.WriteByte(':')
			tmpl.WriteString(seg.Spec)
		}
		tmpl.WriteByte('}')
		lifted = append(lifted, seg.Expr)
	}

	var b strings.Builder
	b.Grow(inv.Span.Len() + 16)
	b.WriteString(inv.Call.Name)
	b.WriteByte('(')
	if inv.Call.Writer {
		b.WriteString(inv.WriterExpr)
		b.WriteString(", ")
	}
	b.WriteByte('"')
	b.WriteString(tmpl.String())
	b.WriteByte('"')
	for _, e := range lifted {
		b.WriteString(", ")
		b.WriteString(e)
	}
	if inv.HasArgs {
		b.WriteByte(',')
		b.WriteString(inv.Args.Text(src))
	}
	b.WriteByte(')')
	return b.String(), lifted
}
