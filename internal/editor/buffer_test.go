package editor

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
)

func numbered(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	return strings.Join(lines, "\n")
}

func leaves(n *node, out map[*node]bool) {
	if n.leaf() {
		out[n] = true
		return
	}
	leaves(n.left, out)
	leaves(n.right, out)
}

func TestSnapshotSharesUntouchedLines(t *testing.T) {
	s := NewScratch()
	s.Buf = NewBuffer(numbered(10000))
	s.Row, s.Col = 5000, 0

	s.InsertRune('x')
	s.InsertNewline()
	s.Backspace()

	if len(s.undo) != 3 {
		t.Fatalf("undo depth = %d, want 3", len(s.undo))
	}
	before := map[*node]bool{}
	leaves(s.undo[0].buf.root, before)
	after := map[*node]bool{}
	leaves(s.Buf.root, after)

	fresh := 0
	for n := range after {
		if !before[n] {
			fresh++
		}
	}
	if fresh > 2 {
		t.Fatalf("%d of %d leaves were copied by three edits", fresh, len(after))
	}
	if got := s.undo[0].buf.Line(5000); got != "line 5000" {
		t.Fatalf("snapshot line = %q", got)
	}
	if got := s.Buf.Line(5000); got != "xline 5000" {
		t.Fatalf("edited line = %q", got)
	}
	if c := s.Buf.Clone(); c.root != s.Buf.root {
		t.Fatal("clone should share the tree")
	}
}

func TestBufferMatchesPlainLines(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	want := strings.Split(numbered(300), "\n")
	b := NewBuffer(strings.Join(want, "\n"))

	for i := 0; i < 3000; i++ {
		row := rng.Intn(len(want))
		switch rng.Intn(4) {
		case 0:
			b.InsertRune(row, 0, 'a')
			want[row] = "a" + want[row]
		case 1:
			b.SplitLine(row, 1)
			r := []rune(want[row])
			head, tail := string(r[:min(1, len(r))]), string(r[min(1, len(r)):])
			want = append(want[:row], append([]string{head, tail}, want[row+1:]...)...)
		case 2:
			if row == 0 {
				continue
			}
			b.DeleteBefore(row, 0)
			joined := want[row-1] + want[row]
			want = append(want[:row-1], append([]string{joined}, want[row+1:]...)...)
		case 3:
			b.InsertText(row, 0, "p\nq\nr")
			rest := "r" + want[row]
			want = append(want[:row], append([]string{"p", "q", rest}, want[row+1:]...)...)
		}
		if b.LineCount() != len(want) {
			t.Fatalf("step %d: %d lines, want %d", i, b.LineCount(), len(want))
		}
	}
	if got := b.String(); got != strings.Join(want, "\n") {
		t.Fatal("buffer content diverged from plain lines")
	}
	if b.root.depth > 2*16 {
		t.Fatalf("tree depth %d after many edits", b.root.depth)
	}
}

func TestSplitsAtOneSpotStayBalanced(t *testing.T) {
	b := NewBuffer("")
	for i := 0; i < 5000; i++ {
		b.SplitLine(b.LineCount()-1, 0)
	}
	if b.LineCount() != 5001 {
		t.Fatalf("lines = %d", b.LineCount())
	}
	if b.root.depth > 20 {
		t.Fatalf("depth = %d", b.root.depth)
	}
}
