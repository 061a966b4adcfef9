package fix

import (
	"bytes"
	"fmt"
	"strings"
)

// Diff is a unified diff between two versions of one file.
type Diff struct {
	// Path is the file path used in the headers.
	Path string

	// Original and Modified are the compared contents.
	Original []byte
	Modified []byte

	// Hunks are the change hunks with surrounding context.
	Hunks []DiffHunk

	// Additions and Deletions count changed lines across all hunks.
	Additions int
	Deletions int
}

// DiffHunk is one hunk of a unified diff.
type DiffHunk struct {
	// OriginalStart / ModifiedStart are 1-based first line numbers.
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int

	Lines []DiffLine
}

// DiffLine is a single diff line without its +/-/space prefix.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// DiffLineKind classifies a diff line.
type DiffLineKind int

const (
	DiffLineContext DiffLineKind = iota
	DiffLineAdd
	DiffLineRemove
)

// contextLines is the number of unchanged lines shown around each change.
const contextLines = 3

// GenerateDiff builds a unified diff between original and modified.
// Returns nil when the contents are identical.
func GenerateDiff(path string, original, modified []byte) *Diff {
	if bytes.Equal(original, modified) {
		return nil
	}

	ops := computeOps(splitLines(original), splitLines(modified))
	hunks := groupHunks(ops)
	if len(hunks) == 0 {
		return nil
	}

	d := &Diff{
		Path:     path,
		Original: original,
		Modified: modified,
		Hunks:    hunks,
	}
	for _, hunk := range hunks {
		for _, line := range hunk.Lines {
			switch line.Kind {
			case DiffLineAdd:
				d.Additions++
			case DiffLineRemove:
				d.Deletions++
			}
		}
	}
	return d
}

// GitHeader returns the "diff --git" line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String renders the diff in unified format, without the git header.
func (d *Diff) String() string {
	if d == nil || len(d.Hunks) == 0 {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n", path)
	fmt.Fprintf(&b, "+++ b/%s\n", path)

	for _, hunk := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n",
			hunk.OriginalStart, hunk.OriginalCount,
			hunk.ModifiedStart, hunk.ModifiedCount)
		for _, line := range hunk.Lines {
			switch line.Kind {
			case DiffLineContext:
				b.WriteByte(' ')
			case DiffLineAdd:
				b.WriteByte('+')
			case DiffLineRemove:
				b.WriteByte('-')
			}
			b.WriteString(line.Content)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// FullString renders the diff with the git header.
func (d *Diff) FullString() string {
	if d == nil || len(d.Hunks) == 0 {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// HasChanges reports whether the diff contains any hunks.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// splitLines splits content on newlines, dropping the final empty piece of
// newline-terminated content.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	lines := strings.Split(string(content), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// lineOp is one line of the raw diff before hunk grouping.
type lineOp struct {
	kind    DiffLineKind
	content string
}

// computeOps produces the line-level diff by LCS backtracking. Within a
// replaced block removals come before additions.
func computeOps(orig, mod []string) []lineOp {
	n, m := len(orig), len(mod)

	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if orig[i-1] == mod[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}

	rev := make([]lineOp, 0, n+m)
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && orig[i-1] == mod[j-1]:
			rev = append(rev, lineOp{kind: DiffLineContext, content: orig[i-1]})
			i--
			j--
		case j > 0 && (i == 0 || dp[i][j-1] >= dp[i-1][j]):
			rev = append(rev, lineOp{kind: DiffLineAdd, content: mod[j-1]})
			j--
		default:
			rev = append(rev, lineOp{kind: DiffLineRemove, content: orig[i-1]})
			i--
		}
	}

	for a, b := 0, len(rev)-1; a < b; a, b = a+1, b-1 {
		rev[a], rev[b] = rev[b], rev[a]
	}
	return rev
}

// groupHunks turns the raw op stream into context-padded hunks, merging
// changes separated by at most two context windows.
func groupHunks(ops []lineOp) []DiffHunk {
	var changes []int
	for i, op := range ops {
		if op.kind != DiffLineContext {
			changes = append(changes, i)
		}
	}
	if len(changes) == 0 {
		return nil
	}

	var hunks []DiffHunk
	start := changes[0]
	prev := changes[0]
	for _, c := range changes[1:] {
		if c-prev-1 > contextLines*2 {
			hunks = append(hunks, buildHunk(ops, start, prev+1))
			start = c
		}
		prev = c
	}
	hunks = append(hunks, buildHunk(ops, start, prev+1))
	return hunks
}

// buildHunk expands the change range [changeStart, changeEnd) by context
// lines and fills in positions and counts.
func buildHunk(ops []lineOp, changeStart, changeEnd int) DiffHunk {
	start := max(changeStart-contextLines, 0)
	end := min(changeEnd+contextLines, len(ops))

	hunk := DiffHunk{OriginalStart: 1, ModifiedStart: 1}
	for _, op := range ops[:start] {
		if op.kind != DiffLineAdd {
			hunk.OriginalStart++
		}
		if op.kind != DiffLineRemove {
			hunk.ModifiedStart++
		}
	}

	for _, op := range ops[start:end] {
		hunk.Lines = append(hunk.Lines, DiffLine{Kind: op.kind, Content: op.content})
		switch op.kind {
		case DiffLineContext:
			hunk.OriginalCount++
			hunk.ModifiedCount++
		case DiffLineRemove:
			hunk.OriginalCount++
		case DiffLineAdd:
			hunk.ModifiedCount++
		}
	}
	return hunk
}
