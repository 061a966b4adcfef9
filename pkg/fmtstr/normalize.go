// Package fmtstr normalizes formatting calls that embed expressions in
// their templates. A call like println!("{name}!") becomes
// println!("{}!", name): embedded expressions are lifted out of the
// template into arguments prepended ahead of any explicit ones, format
// specs staying behind in the placeholder. Call sites that cannot be
// bounded or decomposed confidently are left byte for byte intact.
package fmtstr

import (
	"strings"

	"github.com/yaklabco/fmtlift/pkg/fix"
)

// DefaultMaxPasses bounds the rewrite loop. Each pass can expose calls
// nested inside the arguments of an outer rewrite, so normalization
// repeats until a pass changes nothing.
const DefaultMaxPasses = 10

// Options configures Normalize.
type Options struct {
	// Calls is the recognized call set. Nil means DefaultCalls.
	Calls []CallSpec

	// MaxPasses bounds the rewrite loop. Zero or negative means
	// DefaultMaxPasses.
	MaxPasses int
}

// Result is the outcome of normalizing one piece of text.
type Result struct {
	// Text is the normalized text. Equal to the input when Changed is
	// false.
	Text string

	// Changed reports whether any rewrite was applied.
	Changed bool

	// Passes is the number of rewrite passes that were applied.
	Passes int

	// Invocations counts the call sites recognized in the input text.
	Invocations int

	// Rewrites lists every applied rewrite across all passes. Spans index
	// the text of the pass each rewrite was planned against.
	Rewrites []Rewrite

	// Skips describes the candidates left verbatim in the final text.
	Skips []Skip
}

// Lifted returns the total number of expressions lifted out of templates.
func (r Result) Lifted() int {
	n := 0
	for _, rw := range r.Rewrites {
		n += len(rw.Extracted)
	}
	return n
}

// Normalize rewrites every confidently parsed invocation in src and
// returns the resulting text. Normalizing the result again changes
// nothing: the loop runs until a pass has no rewrite to apply, and
// overlapping rewrites (an invocation nested in another's arguments) are
// deferred to the pass after the outer one has been rewritten.
func Normalize(src string, opts Options) Result {
	calls := opts.Calls
	if calls == nil {
		calls = DefaultCalls()
	}
	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	sc := NewScanner(calls)

	res := Result{Text: src}
	text := src
	for pass := 0; ; pass++ {
		invs, skips := sc.Scan(text)
		if pass == 0 {
			res.Invocations = len(invs)
		}

		var planned []Rewrite
		var planSkips []Skip
		for _, inv := range invs {
			rw, skip := planRewrite(text, inv)
			if skip != nil {
				planSkips = append(planSkips, *skip)
			}
			if rw != nil {
				planned = append(planned, *rw)
			}
		}

		if len(planned) == 0 || pass >= maxPasses {
			res.Skips = append(skips, planSkips...)
			res.Passes = pass
			break
		}

		byStart := make(map[int]Rewrite, len(planned))
		edits := make([]fix.TextEdit, 0, len(planned))
		for _, rw := range planned {
			byStart[rw.Span.Start] = rw
			edits = append(edits, fix.TextEdit{
				StartOffset: rw.Span.Start,
				EndOffset:   rw.Span.End,
				NewText:     rw.NewText,
			})
		}
		fix.SortEdits(edits)
		accepted, _ := fix.FilterConflicts(edits)
		for _, e := range accepted {
			res.Rewrites = append(res.Rewrites, byStart[e.StartOffset])
		}
		text = string(fix.ApplyEdits([]byte(text), accepted))
	}
	res.Text = text
	res.Changed = len(res.Rewrites) > 0
	return res
}

// planRewrite decides what to do with one parsed invocation: a rewrite
// when the template embeds expressions and every guard passes, a skip when
// a guard fires, neither when there is nothing to lift.
func planRewrite(text string, inv Invocation) (*Rewrite, *Skip) {
	reject := func(reason SkipReason) (*Rewrite, *Skip) {
		return nil, &Skip{
			Call:   inv.Call.Name,
			Offset: inv.Span.Start,
			Line:   1 + strings.Count(text[:inv.Span.Start], "\n"),
			Reason: reason,
		}
	}

	segs, err := Decompose(inv.Template.Text(text))
	if err != nil {
		return reject(SkipTemplate)
	}

	liftable := false
	for _, seg := range segs {
		if seg.Kind == SegEmbedded && seg.Expr != "" {
			liftable = true
			break
		}
	}
	if !liftable {
		return nil, nil
	}

	seenPassThrough := false
	for _, seg := range segs {
		if seg.Kind != SegEmbedded {
			continue
		}
		if specRefsArg(seg.Spec) {
			return reject(SkipSpecArgRef)
		}
		if seg.PassThrough() {
			seenPassThrough = true
			continue
		}
		if isPositionalRef(seg.Expr) {
			return reject(SkipPositionalRef)
		}
		if seenPassThrough {
			// A bare placeholder ahead of this expression would start
			// consuming the lifted arguments.
			return reject(SkipPlaceholderOrder)
		}
	}
	if inv.HasArgs && hasNamedArg(SplitArgs(inv.Args.Text(text))) {
		return reject(SkipNamedArg)
	}

	newText, lifted := assemble(text, inv, segs)
	return &Rewrite{
		Span:      inv.Span,
		Call:      inv.Call.Name,
		NewText:   newText,
		Extracted: lifted,
		Line:      1 + strings.Count(text[:inv.Span.Start], "\n"),
	}, nil
}
