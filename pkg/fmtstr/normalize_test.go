package fmtstr_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/fmtlift/pkg/fmtstr"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lifts an embedded expression",
			in:   `println!("Hello, {name}!");`,
			want: `println!("Hello, {}!", name);`,
		},
		{
			name: "lifted expressions precede explicit arguments",
			in:   `println!("{a} = {b} via {}", ctx);`,
			want: `println!("{} = {} via {}", a, b, ctx);`,
		},
		{
			name: "format spec stays on the placeholder",
			in:   `println!("{value:>8.2}");`,
			want: `println!("{:>8.2}", value);`,
		},
		{
			name: "writer argument stays first",
			in:   `write!(f, "{x}")?;`,
			want: `write!(f, "{}", x)?;`,
		},
		{
			name: "writer with pass-through and lift",
			in:   `writeln!(w, "{x} and {}", y)?;`,
			want: `writeln!(w, "{} and {}", x, y)?;`,
		},
		{
			name: "expression escapes are cooked",
			in:   `println!("{map[\"key\"]}");`,
			want: `println!("{}", map["key"]);`,
		},
		{
			name: "method chain expression",
			in:   `println!("{v.iter().count()}");`,
			want: `println!("{}", v.iter().count());`,
		},
		{
			name: "comparison in explicit arguments",
			in:   `println!("{x}", a > b);`,
			want: `println!("{}", x, a > b);`,
		},
		{
			name: "interior spacing is canonicalized",
			in:   `println!(  "{x}"  );`,
			want: `println!("{}", x);`,
		},
		{
			name: "surrounding code untouched",
			in:   "fn main() {\n    println!(\"start {a}\");\n    let x = 1;\n    println!(\"end {b}\");\n}\n",
			want: "fn main() {\n    println!(\"start {}\", a);\n    let x = 1;\n    println!(\"end {}\", b);\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := fmtstr.Normalize(tt.in, fmtstr.Options{})
			if res.Text != tt.want {
				t.Errorf("Normalize(%q).Text = %q, want %q", tt.in, res.Text, tt.want)
			}
			if !res.Changed {
				t.Error("Changed = false, want true")
			}
			if len(res.Skips) != 0 {
				t.Errorf("Skips = %v, want none", res.Skips)
			}
		})
	}
}

func TestNormalizeUnchanged(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{name: "already normalized", in: `println!("{}", name);`},
		{name: "escaped braces only", in: `println!("{{literal}}");`},
		{name: "no placeholders", in: `println!("plain");`},
		{name: "no formatting calls", in: "let x = 1;\nfn f() {}\n"},
		{name: "empty invocation", in: `println!();`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := fmtstr.Normalize(tt.in, fmtstr.Options{})
			if res.Changed {
				t.Errorf("Changed = true, want false (text %q)", res.Text)
			}
			if res.Text != tt.in {
				t.Errorf("Text = %q, want input unchanged", res.Text)
			}
			if len(res.Skips) != 0 {
				t.Errorf("Skips = %v, want none", res.Skips)
			}
		})
	}
}

func TestNormalizeSkips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want fmtstr.SkipReason
	}{
		{
			name: "positional reference",
			in:   `println!("{0} stays {x}", y);`,
			want: fmtstr.SkipPositionalRef,
		},
		{
			name: "spec references an argument",
			in:   `println!("{x:1$}", width);`,
			want: fmtstr.SkipSpecArgRef,
		},
		{
			name: "named explicit argument",
			in:   `println!("{x}", width = 8);`,
			want: fmtstr.SkipNamedArg,
		},
		{
			name: "pass-through before expression",
			in:   `println!("{} then {x}", y);`,
			want: fmtstr.SkipPlaceholderOrder,
		},
		{
			name: "unterminated region",
			in:   `println!("{x");`,
			want: fmtstr.SkipTemplate,
		},
		{
			name: "raw string template",
			in:   `println!(r#"{x}"#);`,
			want: fmtstr.SkipShape,
		},
		{
			name: "unbalanced angle",
			in:   `println!("{x}", a < b);`,
			want: fmtstr.SkipUnbalanced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := fmtstr.Normalize(tt.in, fmtstr.Options{})
			if res.Changed {
				t.Fatalf("Changed = true, want false (text %q)", res.Text)
			}
			if res.Text != tt.in {
				t.Fatalf("Text = %q, want input unchanged", res.Text)
			}
			if len(res.Skips) != 1 {
				t.Fatalf("Skips = %v, want exactly one", res.Skips)
			}
			if res.Skips[0].Reason != tt.want {
				t.Errorf("skip reason = %s, want %s", res.Skips[0].Reason, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`println!("Hello, {name}!");`,
		`println!("{a} = {b} via {}", ctx);`,
		`println!("{value:>8.2}");`,
		`write!(f, "{x}")?;`,
		`println!("{map[\"key\"]}");`,
		`println!("{0} stays {x}", y);`,
		`println!("{prefix}: {}", format!("{x}"));`,
		"fn main() {\n    println!(\"start {a}\");\n}\n",
	}

	for _, in := range inputs {
		first := fmtstr.Normalize(in, fmtstr.Options{})
		second := fmtstr.Normalize(first.Text, fmtstr.Options{})
		if second.Changed {
			t.Errorf("Normalize(%q) not idempotent: second run produced %q", in, second.Text)
		}
		if second.Text != first.Text {
			t.Errorf("Normalize(%q) text drifted on second run", in)
		}
	}
}

func TestNormalizeNestedTwoPasses(t *testing.T) {
	t.Parallel()

	in := `println!("{prefix}: {}", format!("{x}"));`
	want := `println!("{}: {}", prefix, format!("{}", x));`

	res := fmtstr.Normalize(in, fmtstr.Options{})
	if res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
	if res.Passes != 2 {
		t.Errorf("Passes = %d, want 2", res.Passes)
	}
	if len(res.Rewrites) != 2 {
		t.Fatalf("Rewrites = %d, want 2", len(res.Rewrites))
	}
	if res.Rewrites[0].Call != "println!" || res.Rewrites[1].Call != "format!" {
		t.Errorf("rewrite order = %s, %s", res.Rewrites[0].Call, res.Rewrites[1].Call)
	}
}

func TestNormalizeMaxPasses(t *testing.T) {
	t.Parallel()

	in := `println!("{prefix}: {}", format!("{x}"));`
	res := fmtstr.Normalize(in, fmtstr.Options{MaxPasses: 1})
	if res.Passes != 1 {
		t.Errorf("Passes = %d, want 1", res.Passes)
	}
	if want := `println!("{}: {}", prefix, format!("{x}"));`; res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
}

func TestNormalizeMixedRewriteAndSkip(t *testing.T) {
	t.Parallel()

	in := "println!(\"{a}\");\nprintln!(\"{0}\", b);\n"
	want := "println!(\"{}\", a);\nprintln!(\"{0}\", b);\n"

	res := fmtstr.Normalize(in, fmtstr.Options{})
	if res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
	if len(res.Rewrites) != 1 || len(res.Skips) != 1 {
		t.Fatalf("Rewrites = %d, Skips = %d, want 1 and 1", len(res.Rewrites), len(res.Skips))
	}
	if res.Skips[0].Reason != fmtstr.SkipPositionalRef {
		t.Errorf("skip reason = %s, want %s", res.Skips[0].Reason, fmtstr.SkipPositionalRef)
	}
}

func TestNormalizeStats(t *testing.T) {
	t.Parallel()

	in := "println!(\"{a} {b}\");\nprint!(\"{}\", c);\nprintln!(\"{0}\", d);\n"
	res := fmtstr.Normalize(in, fmtstr.Options{})

	if res.Invocations != 3 {
		t.Errorf("Invocations = %d, want 3", res.Invocations)
	}
	if got := res.Lifted(); got != 2 {
		t.Errorf("Lifted() = %d, want 2", got)
	}
	if len(res.Rewrites) != 1 {
		t.Fatalf("Rewrites = %d, want 1", len(res.Rewrites))
	}
	if res.Rewrites[0].Line != 1 {
		t.Errorf("Line = %d, want 1", res.Rewrites[0].Line)
	}
	if got := res.Rewrites[0].Extracted; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Extracted = %v, want [a b]", got)
	}
}

func TestNormalizeRewriteLines(t *testing.T) {
	t.Parallel()

	in := "fn main() {\n    println!(\"start {a}\");\n    let x = 1;\n    println!(\"end {b}\");\n}\n"
	res := fmtstr.Normalize(in, fmtstr.Options{})
	if len(res.Rewrites) != 2 {
		t.Fatalf("Rewrites = %d, want 2", len(res.Rewrites))
	}
	if res.Rewrites[0].Line != 2 || res.Rewrites[1].Line != 4 {
		t.Errorf("lines = %d, %d, want 2, 4", res.Rewrites[0].Line, res.Rewrites[1].Line)
	}
}

// renderCall flattens a single-invocation statement into the text the call
// would produce, standing in each consumed value's source expression for
// its rendered form. Two statements that render the same way are
// observably equivalent.
func renderCall(t *testing.T, src string) string {
	t.Helper()

	invs, skips := fmtstr.NewScanner(fmtstr.DefaultCalls()).Scan(src)
	if len(invs) != 1 || len(skips) != 0 {
		t.Fatalf("renderCall: Scan(%q) = %d invocations, %d skips", src, len(invs), len(skips))
	}
	inv := invs[0]
	segs, err := fmtstr.Decompose(inv.Template.Text(src))
	if err != nil {
		t.Fatalf("renderCall: Decompose: %v", err)
	}

	var queue []string
	if inv.HasArgs {
		for _, p := range fmtstr.SplitArgs(inv.Args.Text(src)) {
			queue = append(queue, strings.TrimSpace(p))
		}
	}

	var b strings.Builder
	for _, seg := range segs {
		switch {
		case seg.Kind == fmtstr.SegLiteral:
			b.WriteString(seg.Raw)
		case seg.PassThrough():
			if len(queue) == 0 {
				t.Fatalf("renderCall: %q consumes more arguments than it has", src)
			}
			b.WriteString("<" + queue[0] + ">")
			queue = queue[1:]
		default:
			b.WriteString("<" + seg.Expr + ">")
		}
	}
	return b.String()
}

func TestNormalizePreservesRendering(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`println!("Hello, {name}!");`,
		`println!("{a} = {b} via {}", ctx);`,
		`println!("{value:>8.2}");`,
		`write!(f, "{x}")?;`,
		`println!("{map[\"key\"]}");`,
		`println!("{x}", a > b);`,
		`writeln!(w, "{x} and {}", y)?;`,
	}

	for _, in := range inputs {
		res := fmtstr.Normalize(in, fmtstr.Options{})
		if !res.Changed {
			t.Errorf("Normalize(%q) Changed = false, want true", in)
			continue
		}
		before := renderCall(t, in)
		after := renderCall(t, res.Text)
		if before != after {
			t.Errorf("rendering changed for %q:\n  before %q\n  after  %q", in, before, after)
		}
	}
}

func TestNormalizeLeavesOnlyBarePlaceholders(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`println!("Hello, {name}!");`,
		`println!("{a} = {b} via {}", ctx);`,
		`println!("{prefix}: {}", format!("{x}"));`,
	}

	for _, in := range inputs {
		res := fmtstr.Normalize(in, fmtstr.Options{})
		invs, skips := fmtstr.NewScanner(fmtstr.DefaultCalls()).Scan(res.Text)
		if len(skips) != 0 {
			t.Errorf("rescan of %q produced skips: %v", res.Text, skips)
		}
		for _, inv := range invs {
			segs, err := fmtstr.Decompose(inv.Template.Text(res.Text))
			if err != nil {
				t.Errorf("rescan decompose: %v", err)
				continue
			}
			for _, seg := range segs {
				if seg.Kind == fmtstr.SegEmbedded && seg.Expr != "" {
					t.Errorf("normalized %q still embeds %q", res.Text, seg.Expr)
				}
			}
		}
	}
}
