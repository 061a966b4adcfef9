package fmtstr

import "strings"

// Scanner recognizes formatting call sites in source text. It is purely
// lexical: strings, character literals, and comments are skipped, and a
// call name only matches when it stands on its own and is immediately
// followed by an opening parenthesis.
type Scanner struct {
	byName map[string]CallSpec
}

// NewScanner returns a scanner recognizing the given calls.
func NewScanner(calls []CallSpec) *Scanner {
	byName := make(map[string]CallSpec, len(calls))
	for _, c := range calls {
		byName[c.Name] = c
	}
	return &Scanner{byName: byName}
}

// Scan walks src and returns every recognized invocation together with the
// candidates that were recognized but could not be parsed confidently.
// Scanning continues inside parsed invocations, so calls nested in argument
// lists are reported too. Invocations are ordered by position.
func (s *Scanner) Scan(src string) ([]Invocation, []Skip) {
	var invs []Invocation
	var skips []Skip
	i := 0
	for i < len(src) {
		if j := lexSkip(src, i); j > i {
			i = j
			continue
		}
		if !isIdentChar(src[i]) || (i > 0 && isIdentChar(src[i-1])) {
			i++
			continue
		}
		j := i + 1
		for j < len(src) && isIdentChar(src[j]) {
			j++
		}
		if j+1 >= len(src) || src[j] != '!' || src[j+1] != '(' {
			i = j
			continue
		}
		spec, ok := s.byName[src[i:j+1]]
		if !ok {
			i = j
			continue
		}
		parenOpen := j + 1
		inv, skip := parseCall(src, i, parenOpen, spec)
		if skip != nil {
			skips = append(skips, *skip)
		}
		if inv != nil {
			invs = append(invs, *inv)
		}
		i = parenOpen + 1
	}
	return invs, skips
}

// parseCall bounds and shape-checks one candidate whose name starts at
// nameStart and whose opening parenthesis sits at parenOpen. It returns the
// invocation, or a skip describing why the candidate was left verbatim, or
// neither for an empty argument list.
func parseCall(src string, nameStart, parenOpen int, spec CallSpec) (*Invocation, *Skip) {
	reject := func(reason SkipReason) (*Invocation, *Skip) {
		return nil, &Skip{
			Call:   spec.Name,
			Offset: nameStart,
			Line:   1 + strings.Count(src[:nameStart], "\n"),
			Reason: reason,
		}
	}

	closeIdx := matchParen(src, parenOpen)
	if closeIdx < 0 {
		return reject(SkipUnbalanced)
	}
	// Comparison operators in arguments can drag the depth down and close
	// the call early. A premature bound always leaves the parentheses in
	// the span uneven, so reject those before shape parsing.
	if !parensEven(src, parenOpen, closeIdx+1) {
		return reject(SkipUnbalanced)
	}

	k := parenOpen + 1
	inv := Invocation{
		Call: spec,
		Span: Span{Start: nameStart, End: closeIdx + 1},
	}

	if spec.Writer {
		comma := topLevelComma(src, k, closeIdx)
		if comma < 0 {
			return reject(SkipShape)
		}
		writer := strings.TrimSpace(src[k:comma])
		if writer == "" {
			return reject(SkipShape)
		}
		inv.WriterExpr = writer
		k = comma + 1
	}

	k = skipSpaces(src, k, closeIdx)
	if k == closeIdx {
		if spec.Writer {
			return reject(SkipShape)
		}
		// Empty argument list: nothing to do, not worth reporting.
		return nil, nil
	}
	if src[k] != '"' {
		return reject(SkipShape)
	}

	q := k + 1
	for q < closeIdx && src[q] != '"' {
		if src[q] == '\\' {
			q += 2
		} else {
			q++
		}
	}
	if q >= closeIdx {
		return reject(SkipShape)
	}
	inv.Template = Span{Start: k + 1, End: q}

	k = skipSpaces(src, q+1, closeIdx)
	switch {
	case k == closeIdx:
	case src[k] == ',':
		args := Span{Start: k + 1, End: closeIdx}
		if strings.TrimSpace(args.Text(src)) != "" {
			inv.Args = args
			inv.HasArgs = true
		}
	default:
		return reject(SkipShape)
	}
	return &inv, nil
}

// matchParen returns the index of the delimiter closing the parenthesis at
// open, or -1 when the input ends first.
func matchParen(src string, open int) int {
	var tr DelimTracker
	tr.Advance('(')
	i := open + 1
	for i < len(src) {
		if j := lexSkip(src, i); j > i {
			i = j
			continue
		}
		ch := src[i]
		d := tr.Advance(ch)
		if ch == ')' && d == 0 {
			return i
		}
		i++
	}
	return -1
}

// parensEven reports whether the round parentheses in src[from:to] pair up,
// counting only ones in plain code.
func parensEven(src string, from, to int) bool {
	n := 0
	i := from
	for i < to {
		if j := lexSkip(src, i); j > i {
			i = j
			continue
		}
		switch src[i] {
		case '(':
			n++
		case ')':
			n--
		}
		i++
	}
	return n == 0
}

// topLevelComma returns the index of the first comma at delimiter depth zero
// in src[from:to], or -1.
func topLevelComma(src string, from, to int) int {
	var tr DelimTracker
	i := from
	for i < to {
		if j := lexSkip(src, i); j > i {
			i = j
			continue
		}
		ch := src[i]
		if ch == ',' && tr.Depth() == 0 {
			return i
		}
		tr.Advance(ch)
		i++
	}
	return -1
}

// skipSpaces advances past whitespace in src[from:to]. Comments are not
// consumed here: a comment between structural pieces makes the shape
// ambiguous and the candidate is left alone.
func skipSpaces(src string, from, to int) int {
	for from < to && isSpace(src[from]) {
		from++
	}
	return from
}
