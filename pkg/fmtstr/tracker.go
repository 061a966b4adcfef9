package fmtstr

// Delimiter pairs tracked inside invocations: parentheses for calls and
// grouping, angle brackets for generics. Square brackets and braces are
// deliberately not tracked; the scan fails open on inputs where that matters.

// IsOpener reports whether ch increases nesting depth.
func IsOpener(ch byte) bool {
	return ch == '(' || ch == '<'
}

// IsCloser reports whether ch decreases nesting depth.
func IsCloser(ch byte) bool {
	return ch == ')' || ch == '>'
}

// AdvanceDepth returns the nesting depth after ch. Closers at depth zero
// clamp rather than going negative: a close without a matching open is a
// boundary for the caller to interpret, not an error. A '>' at depth zero is
// almost always a comparison operator and is ignored by the clamp.
func AdvanceDepth(ch byte, depth int) int {
	switch {
	case IsOpener(ch):
		return depth + 1
	case IsCloser(ch):
		if depth > 0 {
			return depth - 1
		}
		return 0
	default:
		return depth
	}
}

// DelimTracker accumulates nesting depth over a left-to-right scan.
// Callers test for their boundary character at depth zero before advancing,
// so "the next comma at depth 0" or "the matching close paren" fall out of
// one loop shape.
type DelimTracker struct {
	depth int
}

// Advance feeds one character and returns the updated depth.
func (t *DelimTracker) Advance(ch byte) int {
	t.depth = AdvanceDepth(ch, t.depth)
	return t.depth
}

// Depth returns the current nesting depth.
func (t *DelimTracker) Depth() int {
	return t.depth
}

// Reset returns the tracker to depth zero.
func (t *DelimTracker) Reset() {
	t.depth = 0
}
