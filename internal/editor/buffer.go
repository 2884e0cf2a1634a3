package editor

import (
	"math/bits"
	"strings"
	"unicode/utf8"
)

// leafLines is the target number of lines per leaf. A leaf that grows past
// twice this size is rebuilt into a balanced subtree.
const leafLines = 64

// node is an immutable piece of the line tree. Leaves hold lines; inner nodes
// hold exactly two children. Edits copy the path from the root to the touched
// leaf and share everything else.
type node struct {
	lines       []string
	left, right *node
	count       int
	depth       int
}

func (n *node) leaf() bool { return n.left == nil }

func newLeaf(lines []string) *node {
	return &node{lines: lines, count: len(lines)}
}

func newInner(l, r *node) *node {
	return &node{left: l, right: r, count: l.count + r.count, depth: max(l.depth, r.depth) + 1}
}

// build makes a balanced tree over a private copy of lines.
func build(lines []string) *node {
	if len(lines) <= leafLines {
		return newLeaf(append([]string(nil), lines...))
	}
	mid := len(lines) / 2
	return newInner(build(lines[:mid]), build(lines[mid:]))
}

func (n *node) collect(out []string) []string {
	if n.leaf() {
		return append(out, n.lines...)
	}
	return n.right.collect(n.left.collect(out))
}

func (n *node) line(row int) string {
	for !n.leaf() {
		if row < n.left.count {
			n = n.left
		} else {
			row -= n.left.count
			n = n.right
		}
	}
	return n.lines[row]
}

// replace returns a tree with lines [from, to) swapped for repl.
func (n *node) replace(from, to int, repl []string) *node {
	if n.leaf() {
		out := make([]string, 0, len(n.lines)-(to-from)+len(repl))
		out = append(out, n.lines[:from]...)
		out = append(out, repl...)
		out = append(out, n.lines[to:]...)
		if len(out) > 2*leafLines {
			return build(out)
		}
		return newLeaf(out)
	}
	lc := n.left.count
	switch {
	case to <= lc:
		return join(n.left.replace(from, to, repl), n.right)
	case from >= lc:
		return join(n.left, n.right.replace(from-lc, to-lc, repl))
	default:
		return join(n.left.replace(from, lc, repl), n.right.replace(0, to-lc, nil))
	}
}

func join(l, r *node) *node {
	switch {
	case l.count == 0:
		return r
	case r.count == 0:
		return l
	case l.count+r.count <= leafLines:
		return newLeaf(r.collect(l.collect(make([]string, 0, l.count+r.count))))
	}
	return newInner(l, r)
}

// Buffer is a persistent line tree: one immutable string per line, stored in
// leaves of a few dozen lines. An edit rebuilds only the leaf it touches and
// the inner nodes above it, so Clone is a pointer copy and undo snapshots
// share all untouched lines. Lines are split on '\n' only, which keeps the
// content byte-for-byte identical when written back.
type Buffer struct {
	root *node
}

func NewBuffer(text string) *Buffer {
	return &Buffer{root: build(strings.Split(text, "\n"))}
}

func (b *Buffer) LineCount() int {
	return b.root.count
}

func (b *Buffer) Line(row int) string {
	if row < 0 || row >= b.root.count {
		return ""
	}
	return b.root.line(row)
}

// LineLen is the length of a line in runes.
func (b *Buffer) LineLen(row int) int {
	return utf8.RuneCountInString(b.Line(row))
}

func (b *Buffer) Lines() []string {
	return b.root.collect(make([]string, 0, b.root.count))
}

func (b *Buffer) String() string {
	return strings.Join(b.Lines(), "\n")
}

// Clone returns a buffer sharing the whole tree; later edits to either one
// leave the other untouched.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{root: b.root}
}

// splice swaps lines [from, to) for repl and rebalances when repeated
// splits at one spot have made the tree lopsided.
func (b *Buffer) splice(from, to int, repl ...string) {
	root := b.root.replace(from, to, repl)
	leaves := root.count/leafLines + 1
	if root.depth > 2*bits.Len(uint(leaves))+4 {
		root = build(root.collect(make([]string, 0, root.count)))
	}
	b.root = root
}

func (b *Buffer) setLine(row int, text string) {
	b.splice(row, row+1, text)
}

func (b *Buffer) InsertRune(row, col int, r rune) {
	line := []rune(b.Line(row))
	col = clamp(col, 0, len(line))
	out := make([]rune, 0, len(line)+1)
	out = append(out, line[:col]...)
	out = append(out, r)
	out = append(out, line[col:]...)
	b.setLine(row, string(out))
}

// SplitLine breaks row at col, moving the tail onto a new line below.
func (b *Buffer) SplitLine(row, col int) {
	line := []rune(b.Line(row))
	col = clamp(col, 0, len(line))
	b.splice(row, row+1, string(line[:col]), string(line[col:]))
}

// DeleteBefore removes the rune before (row, col), joining with the previous
// line when col is 0. It returns the new cursor and false when there was
// nothing to delete.
func (b *Buffer) DeleteBefore(row, col int) (int, int, bool) {
	if col > 0 {
		line := []rune(b.Line(row))
		col = clamp(col, 0, len(line))
		b.setLine(row, string(line[:col-1])+string(line[col:]))
		return row, col - 1, true
	}
	if row == 0 {
		return row, col, false
	}
	prev := b.Line(row - 1)
	prevLen := utf8.RuneCountInString(prev)
	b.splice(row-1, row+1, prev+b.Line(row))
	return row - 1, prevLen, true
}

// InsertText inserts text that may span several lines and returns the cursor
// position just after it.
func (b *Buffer) InsertText(row, col int, text string) (int, int) {
	parts := strings.Split(text, "\n")
	line := []rune(b.Line(row))
	col = clamp(col, 0, len(line))
	head, tail := string(line[:col]), string(line[col:])
	if len(parts) == 1 {
		b.setLine(row, head+parts[0]+tail)
		return row, col + utf8.RuneCountInString(parts[0])
	}
	last := parts[len(parts)-1]
	repl := make([]string, 0, len(parts))
	repl = append(repl, head+parts[0])
	repl = append(repl, parts[1:len(parts)-1]...)
	repl = append(repl, last+tail)
	b.splice(row, row+1, repl...)
	return row + len(parts) - 1, utf8.RuneCountInString(last)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
