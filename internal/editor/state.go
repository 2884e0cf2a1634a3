// Package editor holds the text editing engine used by the editor and
// workspace screens: a persistent line buffer plus cursor, scroll,
// undo/redo and search state for one document.
package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jask/tshell/internal/fsguard"
)

// MaxUndo bounds the undo stack; the oldest snapshot is dropped on overflow.
const MaxUndo = 50

// ErrNoPath is returned when saving a scratch buffer.
var ErrNoPath = errors.New("no file path")

type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeCommand
)

func (m Mode) String() string {
	switch m {
	case ModeInsert:
		return "INSERT"
	case ModeCommand:
		return "COMMAND"
	default:
		return "NORMAL"
	}
}

// Match is one search hit: its row, the occurrence index within that row and
// the rune column where it starts.
type Match struct {
	Row   int
	Index int
	Col   int
}

type snapshot struct {
	buf    *Buffer
	row    int
	col    int
	scroll int
	dirty  bool
}

type State struct {
	ID      string
	Path    string
	Buf     *Buffer
	Row     int
	Col     int
	Scroll  int
	Mode    Mode
	CmdLine string
	Dirty   bool

	LastSearch string
	Matches    []Match
	MatchIdx   int

	undo []snapshot
	redo []snapshot
}

// NewScratch returns an empty buffer with no associated file.
func NewScratch() *State {
	return &State{
		ID:       uuid.NewString(),
		Buf:      NewBuffer(""),
		MatchIdx: -1,
	}
}

// Open reads path into a new State. The path must resolve inside root, and
// the State is bound to the resolved path.
func Open(path, root string) (*State, error) {
	canon, err := fsguard.Resolve(root, path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(canon)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	st := NewScratch()
	st.Path = canon
	st.Buf = NewBuffer(string(data))
	return st, nil
}

// Save writes the buffer verbatim to its path.
func (s *State) Save() error {
	if s.Path == "" {
		return ErrNoPath
	}
	if err := os.WriteFile(s.Path, []byte(s.Buf.String()), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", s.Path, err)
	}
	s.Dirty = false
	return nil
}

// SaveAs binds the buffer to a new path inside root and saves it.
func (s *State) SaveAs(path, root string) error {
	canon, err := fsguard.Resolve(root, path)
	if err != nil {
		return err
	}
	prev := s.Path
	s.Path = canon
	if err := s.Save(); err != nil {
		s.Path = prev
		return err
	}
	return nil
}

func (s *State) Title() string {
	if s.Path == "" {
		return "[No Name]"
	}
	return filepath.Base(s.Path)
}

func (s *State) CurrentLine() string {
	return s.Buf.Line(s.Row)
}

func (s *State) UndoDepth() int { return len(s.undo) }
func (s *State) RedoDepth() int { return len(s.redo) }

func (s *State) snap() snapshot {
	return snapshot{buf: s.Buf.Clone(), row: s.Row, col: s.Col, scroll: s.Scroll, dirty: s.Dirty}
}

func (s *State) restore(sn snapshot) {
	s.Buf = sn.buf
	s.Row = sn.row
	s.Col = sn.col
	s.Scroll = sn.scroll
	s.Dirty = sn.dirty
	s.invalidateMatches()
}

func pushBounded(stack []snapshot, sn snapshot) []snapshot {
	stack = append(stack, sn)
	if over := len(stack) - MaxUndo; over > 0 {
		stack = append(stack[:0], stack[over:]...)
	}
	return stack
}

// beginEdit records the pre-edit state and clears the redo history.
func (s *State) beginEdit() {
	s.undo = pushBounded(s.undo, s.snap())
	s.redo = s.redo[:0]
}

func (s *State) endEdit() {
	s.Dirty = true
	s.invalidateMatches()
}

func (s *State) invalidateMatches() {
	s.Matches = nil
	s.MatchIdx = -1
}

func (s *State) InsertRune(r rune) {
	s.beginEdit()
	s.Buf.InsertRune(s.Row, s.Col, r)
	s.Col++
	s.endEdit()
}

func (s *State) InsertNewline() {
	s.beginEdit()
	s.Buf.SplitLine(s.Row, s.Col)
	s.Row++
	s.Col = 0
	s.endEdit()
}

// Backspace deletes the rune before the cursor. At the very start of the
// buffer it does nothing and records no undo step.
func (s *State) Backspace() {
	if s.Row == 0 && s.Col == 0 {
		return
	}
	s.beginEdit()
	s.Row, s.Col, _ = s.Buf.DeleteBefore(s.Row, s.Col)
	if s.Row < s.Scroll {
		s.Scroll = s.Row
	}
	s.endEdit()
}

// InsertText inserts a possibly multi-line string as a single undo step.
func (s *State) InsertText(text string) {
	if text == "" {
		return
	}
	s.beginEdit()
	s.Row, s.Col = s.Buf.InsertText(s.Row, s.Col, text)
	s.endEdit()
}

func (s *State) Undo() {
	if len(s.undo) == 0 {
		return
	}
	prev := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = pushBounded(s.redo, s.snap())
	s.restore(prev)
}

func (s *State) Redo() {
	if len(s.redo) == 0 {
		return
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = pushBounded(s.undo, s.snap())
	s.restore(next)
}
