// Package textdiff computes line-based unified diffs between the
// original and rewritten versions of a document.
package textdiff

import (
	"fmt"
	"strings"
)

// LineKind classifies a line within a hunk.
type LineKind int

const (
	// KindContext is an unchanged line shown for context.
	KindContext LineKind = iota
	// KindAdd is a line present only in the rewritten version.
	KindAdd
	// KindRemove is a line present only in the original version.
	KindRemove
)

// Line is one line of a hunk, without its +/-/space prefix.
type Line struct {
	Kind    LineKind
	Content string
}

// Hunk is a contiguous run of changes with surrounding context.
// Start positions are 1-based line numbers.
type Hunk struct {
	BeforeStart int
	BeforeCount int
	AfterStart  int
	AfterCount  int
	Lines       []Line
}

// Diff is a unified diff between two versions of one file.
type Diff struct {
	// Path labels the diff headers.
	Path string

	Hunks []Hunk

	// Additions and Deletions count changed lines across all hunks.
	Additions int
	Deletions int
}

// contextLines is how many unchanged lines surround each hunk.
const contextLines = 3

// Compute diffs before against after. It returns nil when the two
// versions split into identical lines.
func Compute(path string, before, after []byte) *Diff {
	origLines := splitLines(before)
	newLines := splitLines(after)
	if equalLines(origLines, newLines) {
		return nil
	}

	hunks := buildHunks(origLines, newLines)
	if len(hunks) == 0 {
		return nil
	}

	d := &Diff{Path: path, Hunks: hunks}
	for _, hunk := range hunks {
		for _, line := range hunk.Lines {
			switch line.Kind {
			case KindAdd:
				d.Additions++
			case KindRemove:
				d.Deletions++
			}
		}
	}
	return d
}

// HasChanges reports whether the diff contains any hunks.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// Unified renders the diff in unified format, including the ---/+++
// file headers.
func (d *Diff) Unified() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n", path)
	fmt.Fprintf(&b, "+++ b/%s\n", path)

	for _, hunk := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n",
			hunk.BeforeStart, hunk.BeforeCount,
			hunk.AfterStart, hunk.AfterCount)
		for _, line := range hunk.Lines {
			switch line.Kind {
			case KindContext:
				b.WriteByte(' ')
			case KindAdd:
				b.WriteByte('+')
			case KindRemove:
				b.WriteByte('-')
			}
			b.WriteString(line.Content)
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// splitLines splits content into lines without the trailing newline.
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

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// op is one raw diff operation before hunk grouping.
type op struct {
	kind    LineKind
	content string
}

// buildHunks turns the two line slices into grouped hunks.
func buildHunks(before, after []string) []Hunk {
	ops := buildOps(before, after, commonSubsequence(before, after))
	if len(ops) == 0 {
		return nil
	}
	return groupOps(ops)
}

// buildOps walks both sides against the common subsequence, emitting
// context lines where all three agree and add/remove lines elsewhere.
func buildOps(before, after, common []string) []op {
	var ops []op
	bi, ai, ci := 0, 0, 0

	for bi < len(before) || ai < len(after) {
		if ci < len(common) && bi < len(before) && ai < len(after) &&
			before[bi] == common[ci] && after[ai] == common[ci] {
			ops = append(ops, op{kind: KindContext, content: before[bi]})
			bi++
			ai++
			ci++
			continue
		}

		for bi < len(before) && (ci >= len(common) || before[bi] != common[ci]) {
			ops = append(ops, op{kind: KindRemove, content: before[bi]})
			bi++
		}
		for ai < len(after) && (ci >= len(common) || after[ai] != common[ci]) {
			ops = append(ops, op{kind: KindAdd, content: after[ai]})
			ai++
		}
	}

	return ops
}

// groupOps clusters change runs into hunks, merging runs whose context
// windows would overlap.
func groupOps(ops []op) []Hunk {
	type span struct{ start, end int }

	var spans []span
	inChange := false
	spanStart := 0
	for i, o := range ops {
		isChange := o.kind != KindContext
		switch {
		case isChange && !inChange:
			spanStart = i
			inChange = true
		case !isChange && inChange:
			spans = append(spans, span{spanStart, i})
			inChange = false
		}
	}
	if inChange {
		spans = append(spans, span{spanStart, len(ops)})
	}
	if len(spans) == 0 {
		return nil
	}

	var hunks []Hunk
	for i := 0; i < len(spans); {
		j := i + 1
		for j < len(spans) && spans[j].start-spans[j-1].end <= contextLines*2 {
			j++
		}
		hunk := makeHunk(ops, spans[i].start, spans[j-1].end)
		if len(hunk.Lines) > 0 {
			hunks = append(hunks, hunk)
		}
		i = j
	}
	return hunks
}

// makeHunk builds one hunk covering ops[changeStart:changeEnd] plus
// context lines on both sides.
func makeHunk(ops []op, changeStart, changeEnd int) Hunk {
	start := max(changeStart-contextLines, 0)
	end := min(changeEnd+contextLines, len(ops))

	hunk := Hunk{BeforeStart: 1, AfterStart: 1}
	for i := range start {
		if ops[i].kind != KindAdd {
			hunk.BeforeStart++
		}
		if ops[i].kind != KindRemove {
			hunk.AfterStart++
		}
	}

	for i := start; i < end; i++ {
		hunk.Lines = append(hunk.Lines, Line{Kind: ops[i].kind, Content: ops[i].content})
		switch ops[i].kind {
		case KindContext:
			hunk.BeforeCount++
			hunk.AfterCount++
		case KindRemove:
			hunk.BeforeCount++
		case KindAdd:
			hunk.AfterCount++
		}
	}

	return hunk
}

// commonSubsequence computes the longest common subsequence of the two
// line slices with the usual dynamic program.
func commonSubsequence(before, after []string) []string {
	blen, alen := len(before), len(after)
	if blen == 0 || alen == 0 {
		return nil
	}

	dp := make([][]int, blen+1)
	for i := range dp {
		dp[i] = make([]int, alen+1)
	}
	for row := 1; row <= blen; row++ {
		for col := 1; col <= alen; col++ {
			if before[row-1] == after[col-1] {
				dp[row][col] = dp[row-1][col-1] + 1
			} else {
				dp[row][col] = max(dp[row-1][col], dp[row][col-1])
			}
		}
	}

	length := dp[blen][alen]
	if length == 0 {
		return nil
	}

	lcs := make([]string, length)
	row, col, idx := blen, alen, length-1
	for row > 0 && col > 0 {
		switch {
		case before[row-1] == after[col-1]:
			lcs[idx] = before[row-1]
			row--
			col--
			idx--
		case dp[row-1][col] > dp[row][col-1]:
			row--
		default:
			col--
		}
	}

	return lcs
}
