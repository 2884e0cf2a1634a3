// Package tabs keeps the ordered set of open editor buffers and which one is
// on screen.
package tabs

import (
	"github.com/jask/tshell/internal/editor"
	"github.com/jask/tshell/internal/fsguard"
)

// Tabs holds open documents in display order. current is a valid index, or 0
// when there are no tabs.
type Tabs struct {
	docs    []*editor.State
	current int
}

func New() *Tabs {
	return &Tabs{}
}

// OpenOrFocus focuses the tab already showing doc's file, or appends doc as a
// new tab and focuses it. Scratch buffers always get a new tab.
func (t *Tabs) OpenOrFocus(doc *editor.State) *editor.State {
	if doc == nil {
		return t.Current()
	}
	if open := t.Lookup(doc.Path); open != nil {
		t.FocusID(open.ID)
		return open
	}
	t.docs = append(t.docs, doc)
	t.current = len(t.docs) - 1
	return doc
}

// Lookup returns the open document editing path, or nil. Scratch buffers
// never match.
func (t *Tabs) Lookup(path string) *editor.State {
	if path == "" {
		return nil
	}
	want := fsguard.Canonical(path)
	for _, d := range t.docs {
		if d.Path != "" && fsguard.Canonical(d.Path) == want {
			return d
		}
	}
	return nil
}

// IndexOf returns the display position of the tab with the given ID, or -1.
func (t *Tabs) IndexOf(id string) int {
	for i, d := range t.docs {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func (t *Tabs) FocusID(id string) bool {
	return t.Focus(t.IndexOf(id))
}

func (t *Tabs) Next() {
	if len(t.docs) == 0 {
		return
	}
	t.current = (t.current + 1) % len(t.docs)
}

func (t *Tabs) Prev() {
	if len(t.docs) == 0 {
		return
	}
	t.current = (t.current - 1 + len(t.docs)) % len(t.docs)
}

// CloseCurrent removes the visible tab and returns it. The index is clamped to
// the last remaining tab.
func (t *Tabs) CloseCurrent() *editor.State {
	cur := t.Current()
	if cur == nil {
		return nil
	}
	return t.Close(cur.ID)
}

// Close removes the tab with the given ID and returns it, or nil when no tab
// has that ID. Focus stays on the same document when another tab is closed.
func (t *Tabs) Close(id string) *editor.State {
	i := t.IndexOf(id)
	if i < 0 {
		return nil
	}
	focused := t.docs[t.current].ID
	closed := t.docs[i]
	t.docs = append(t.docs[:i], t.docs[i+1:]...)
	if j := t.IndexOf(focused); j >= 0 {
		t.current = j
		return closed
	}
	if t.current >= len(t.docs) {
		t.current = len(t.docs) - 1
	}
	if t.current < 0 {
		t.current = 0
	}
	return closed
}

func (t *Tabs) Focus(i int) bool {
	if i < 0 || i >= len(t.docs) {
		return false
	}
	t.current = i
	return true
}

func (t *Tabs) Current() *editor.State {
	if len(t.docs) == 0 {
		return nil
	}
	return t.docs[t.current]
}

func (t *Tabs) IsEmpty() bool { return len(t.docs) == 0 }
func (t *Tabs) Len() int      { return len(t.docs) }
func (t *Tabs) Index() int    { return t.current }

// IsCurrent reports whether doc is the tab on screen.
func (t *Tabs) IsCurrent(doc *editor.State) bool {
	cur := t.Current()
	return cur != nil && doc != nil && cur.ID == doc.ID
}

// All returns the tabs in display order. The slice must not be modified.
func (t *Tabs) All() []*editor.State { return t.docs }

// Dirty reports whether any open tab has unsaved changes.
func (t *Tabs) Dirty() bool {
	return len(t.Unsaved()) > 0
}

// Unsaved returns the tabs with unsaved changes in display order.
func (t *Tabs) Unsaved() []*editor.State {
	var out []*editor.State
	for _, d := range t.docs {
		if d.Dirty {
			out = append(out, d)
		}
	}
	return out
}
