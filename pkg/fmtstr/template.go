package fmtstr

import (
	"fmt"
	"strings"
)

// SegmentKind discriminates template segments.
type SegmentKind int

const (
	// SegLiteral is plain template text, brace escapes included.
	SegLiteral SegmentKind = iota

	// SegEmbedded is a {...} region.
	SegEmbedded
)

// Segment is one piece of a decomposed template. Raw always holds the
// verbatim source slice, escapes intact, so unmodified segments can be
// re-emitted byte for byte.
type Segment struct {
	Kind SegmentKind
	Raw  string

	// Expr is the embedded expression, trimmed and unescaped. Empty for
	// pass-through placeholders like {} and {:?}.
	Expr string

	// Spec is the format spec after the first top-level colon, verbatim.
	// Leading and trailing bytes are significant (the fill character can
	// be a space), so it is never trimmed.
	Spec string
}

// PassThrough reports whether the segment is a placeholder that consumes an
// argument from the explicit list rather than embedding an expression.
func (s Segment) PassThrough() bool {
	return s.Kind == SegEmbedded && s.Expr == ""
}

// Decompose splits a template body (the text between the quotes, escapes
// still as written) into literal and embedded segments. {{ and }} stay
// inside literal segments; \u{...} escapes never open a region. An
// unterminated or unmatched region is an error.
func Decompose(body string) ([]Segment, error) {
	var segs []Segment
	litStart := 0
	i := 0
	flush := func(end int) {
		if end > litStart {
			segs = append(segs, Segment{Kind: SegLiteral, Raw: body[litStart:end]})
		}
	}
	for i < len(body) {
		switch ch := body[i]; {
		case ch == '\\':
			if i+2 < len(body) && body[i+1] == 'u' && body[i+2] == '{' {
				j := strings.IndexByte(body[i+3:], '}')
				if j < 0 {
					return nil, fmt.Errorf("unterminated unicode escape at offset %d", i)
				}
				i += 3 + j + 1
				continue
			}
			i += 2
		case ch == '{' && i+1 < len(body) && body[i+1] == '{':
			i += 2
		case ch == '}' && i+1 < len(body) && body[i+1] == '}':
			i += 2
		case ch == '{':
			end, err := matchBrace(body, i)
			if err != nil {
				return nil, err
			}
			flush(i)
			seg, err := parseEmbedded(body[i+1 : end])
			if err != nil {
				return nil, err
			}
			seg.Raw = body[i : end+1]
			segs = append(segs, seg)
			litStart = end + 1
			i = end + 1
		case ch == '}':
			return nil, fmt.Errorf("unmatched closing brace at offset %d", i)
		default:
			i++
		}
	}
	flush(len(body))
	return segs, nil
}

// matchBrace returns the index of the brace closing the region opened at
// open. The scan understands the expression's own string and character
// literals as they appear inside a template, where each quote and backslash
// carries one extra level of escaping.
func matchBrace(body string, open int) (int, error) {
	depth := 1
	i := open + 1
	for i < len(body) {
		switch ch := body[i]; {
		case ch == '\\':
			if i+1 < len(body) && body[i+1] == '"' {
				j := skipExprString(body, i+2)
				if j < 0 {
					return 0, fmt.Errorf("unterminated string in expression at offset %d", i)
				}
				i = j
				continue
			}
			i += 2
		case ch == '\'':
			i = skipExprChar(body, i)
		case ch == '{':
			depth++
			i++
		case ch == '}':
			depth--
			if depth == 0 {
				return i, nil
			}
			i++
		default:
			i++
		}
	}
	return 0, fmt.Errorf("unterminated expression at offset %d", open)
}

// skipExprString scans an expression-level string from just after its
// opening \" and returns the index after the closing \", or -1. Inside it,
// \\ is the expression's backslash and escapes whatever unit follows.
func skipExprString(body string, i int) int {
	for i < len(body) {
		if body[i] != '\\' {
			i++
			continue
		}
		if i+1 >= len(body) {
			return -1
		}
		switch body[i+1] {
		case '"':
			return i + 2
		case '\\':
			i += 2
			if i < len(body) && body[i] == '\\' {
				i += 2
			} else {
				i++
			}
		default:
			i += 2
		}
	}
	return -1
}

// skipExprChar scans past a character literal or lifetime starting at the
// quote at i and returns the index to resume from.
func skipExprChar(body string, i int) int {
	j := i + 1
	if j >= len(body) {
		return j
	}
	if isIdentChar(body[j]) && (j+1 >= len(body) || body[j+1] != '\'') {
		// Lifetime: just the quote, the name scans as plain text.
		return j
	}
	for k := j; k < len(body); {
		switch {
		case body[k] == '\\' && k+1 < len(body) && body[k+1] == '\\':
			// Expression-level backslash: it escapes the unit after it.
			k += 2
			if k+1 < len(body) && body[k] == '\\' {
				k += 2
			} else {
				k++
			}
		case body[k] == '\\':
			k += 2
		case body[k] == '\'':
			return k + 1
		default:
			k++
		}
	}
	return len(body)
}

// parseEmbedded splits a region's content into expression and format spec
// at the first top-level colon that is not part of a path separator.
func parseEmbedded(content string) (Segment, error) {
	depth := 0
	i := 0
	exprRaw, spec := content, ""
	for i < len(content) {
		switch ch := content[i]; {
		case ch == '\\':
			if i+1 < len(content) && content[i+1] == '"' {
				j := skipExprString(content, i+2)
				if j < 0 {
					return Segment{}, fmt.Errorf("unterminated string in expression")
				}
				i = j
				continue
			}
			i += 2
		case ch == '\'':
			i = skipExprChar(content, i)
		case ch == '{':
			depth++
			i++
		case ch == '}':
			depth--
			i++
		case ch == ':' && depth == 0:
			if i+1 < len(content) && content[i+1] == ':' {
				i += 2
				continue
			}
			exprRaw, spec = content[:i], content[i+1:]
			i = len(content)
		default:
			i++
		}
	}
	return Segment{
		Kind: SegEmbedded,
		Expr: unescapeExpr(strings.TrimSpace(exprRaw)),
		Spec: spec,
	}, nil
}

// unescapeExpr rewrites template-level escapes back into expression source:
// \" becomes a quote and \\ a single backslash, left to right. Any other
// escape is kept as written.
func unescapeExpr(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}
		switch s[i+1] {
		case '"', '\\':
			b.WriteByte(s[i+1])
			i += 2
		default:
			b.WriteByte(s[i])
			b.WriteByte(s[i+1])
			i += 2
		}
	}
	return b.String()
}

// isPositionalRef reports whether an expression is a bare argument index,
// which refers into the explicit argument list rather than naming a value.
func isPositionalRef(expr string) bool {
	if expr == "" {
		return false
	}
	for i := 0; i < len(expr); i++ {
		if expr[i] < '0' || expr[i] > '9' {
			return false
		}
	}
	return true
}

// specRefsArg reports whether a format spec references an argument, as
// width or precision written name$ or index$.
func specRefsArg(spec string) bool {
	return strings.ContainsRune(spec, '$')
}
