package fmtstr

import "strings"

// SplitArgs splits raw explicit-argument text at top-level commas. Pieces
// are returned verbatim, whitespace and all; commas inside nested
// delimiters, strings, and comments do not split.
func SplitArgs(raw string) []string {
	var parts []string
	var tr DelimTracker
	start := 0
	i := 0
	for i < len(raw) {
		if j := lexSkip(raw, i); j > i {
			i = j
			continue
		}
		ch := raw[i]
		if ch == ',' && tr.Depth() == 0 {
			parts = append(parts, raw[start:i])
			start = i + 1
			i++
			continue
		}
		tr.Advance(ch)
		i++
	}
	parts = append(parts, raw[start:])
	return parts
}

// isNamedArg reports whether one argument piece binds a name, as in
// "width = 8". Comparison and fat-arrow tokens do not count.
func isNamedArg(part string) bool {
	s := strings.TrimSpace(part)
	n := 0
	for n < len(s) && isIdentChar(s[n]) {
		n++
	}
	if n == 0 {
		return false
	}
	for n < len(s) && isSpace(s[n]) {
		n++
	}
	if n >= len(s) || s[n] != '=' {
		return false
	}
	if n+1 < len(s) && (s[n+1] == '=' || s[n+1] == '>') {
		return false
	}
	return true
}

// hasNamedArg reports whether any piece of the explicit list binds a name.
func hasNamedArg(parts []string) bool {
	for _, p := range parts {
		if isNamedArg(p) {
			return true
		}
	}
	return false
}
