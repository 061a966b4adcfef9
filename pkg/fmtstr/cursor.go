package fmtstr

// Lexical skipping for the file-level scan. The scanner must never match
// call names or count delimiters inside comments, string literals, or char
// literals, so every plain-code position is tested with lexSkip first.

// isIdentChar reports whether ch can appear in an identifier.
func isIdentChar(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}

// isSpace reports whether ch is horizontal or vertical whitespace.
func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// lexSkip returns the index just past the lexical atom beginning at i when
// src[i] starts something the scanner must treat as opaque: a comment, a
// string literal (plain, raw, byte), or a char literal. It returns i when
// position i is plain code.
func lexSkip(src string, i int) int {
	switch src[i] {
	case '/':
		if i+1 < len(src) {
			switch src[i+1] {
			case '/':
				return skipLineComment(src, i+2)
			case '*':
				return skipBlockComment(src, i+2)
			}
		}
	case '"':
		return skipString(src, i+1)
	case '\'':
		return skipCharOrLifetime(src, i)
	case 'r', 'b':
		if j, ok := skipPrefixedLiteral(src, i); ok {
			return j
		}
	}
	return i
}

// skipLineComment returns the index of the terminating newline (kept as
// plain code) or end of input.
func skipLineComment(src string, i int) int {
	for i < len(src) && src[i] != '\n' {
		i++
	}
	return i
}

// skipBlockComment consumes a block comment starting just past "/*".
// Block comments nest.
func skipBlockComment(src string, i int) int {
	depth := 1
	for i < len(src) {
		if i+1 < len(src) {
			if src[i] == '/' && src[i+1] == '*' {
				depth++
				i += 2
				continue
			}
			if src[i] == '*' && src[i+1] == '/' {
				depth--
				i += 2
				if depth == 0 {
					return i
				}
				continue
			}
		}
		i++
	}
	return len(src)
}

// skipString consumes a plain (escape-aware) string body starting just past
// the opening quote, returning the index past the closing quote. An
// unterminated string runs to end of input.
func skipString(src string, i int) int {
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return len(src)
}

// skipCharOrLifetime disambiguates a single quote at i: a char literal is
// consumed whole, a lifetime or loop label consumes only the quote.
func skipCharOrLifetime(src string, i int) int {
	if i+1 >= len(src) {
		return i + 1
	}
	next := src[i+1]

	if next == '\\' {
		// Escaped char literal, including \u{...}.
		j := i + 2
		if j < len(src) {
			j++
			if j < len(src) && src[j-1] == 'u' && src[j] == '{' {
				for j < len(src) && src[j] != '}' {
					j++
				}
				if j < len(src) {
					j++
				}
			}
		}
		for j < len(src) && src[j] != '\'' {
			j++
		}
		if j < len(src) {
			j++
		}
		return j
	}

	// An identifier character not closed immediately after is a lifetime
	// ('a, 'static) or loop label; only the quote is consumed.
	if isIdentChar(next) && !(i+2 < len(src) && src[i+2] == '\'') {
		return i + 1
	}

	// Otherwise expect a closing quote within one UTF-8 character.
	limit := i + 5
	if limit > len(src)-1 {
		limit = len(src) - 1
	}
	for j := i + 2; j <= limit; j++ {
		if src[j] == '\'' {
			return j + 1
		}
	}
	return i + 1
}

// skipPrefixedLiteral consumes r"...", r#"..."#, b"...", b'x', and br#"..."#
// literals. Reports false when i does not start such a literal (a plain
// identifier beginning with r or b, or a raw identifier like r#match).
func skipPrefixedLiteral(src string, i int) (int, bool) {
	if i > 0 && isIdentChar(src[i-1]) {
		return 0, false
	}

	j := i + 1
	if src[i] == 'b' {
		if j >= len(src) {
			return 0, false
		}
		switch src[j] {
		case '\'':
			return skipCharOrLifetime(src, j), true
		case '"':
			return skipString(src, j+1), true
		case 'r':
			j++
		default:
			return 0, false
		}
	}

	hashes := 0
	for j < len(src) && src[j] == '#' {
		hashes++
		j++
	}
	if j >= len(src) || src[j] != '"' {
		return 0, false
	}
	return skipRawBody(src, j+1, hashes), true
}

// skipRawBody consumes a raw string body: the close is a quote followed by
// the same number of hashes as the open.
func skipRawBody(src string, j, hashes int) int {
	for j < len(src) {
		if src[j] == '"' {
			k := j + 1
			n := 0
			for k < len(src) && n < hashes && src[k] == '#' {
				n++
				k++
			}
			if n == hashes {
				return k
			}
		}
		j++
	}
	return len(src)
}
