// Package explorer is a directory browser confined to a root directory.
package explorer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jask/tshell/internal/fsguard"
)

const parentName = ".."

// ErrNoSelection is returned by operations that need a real selected entry.
var ErrNoSelection = errors.New("no entry selected")

type Entry struct {
	Name  string
	IsDir bool
}

// State is the navigator. Cwd is always root or a descendant of it.
type State struct {
	Root       string
	Cwd        string
	Entries    []Entry
	Selected   int
	ShowHidden bool
}

// New opens the navigator at root. The listing error, if any, is returned
// alongside a usable State.
func New(root string) (*State, error) {
	canon := fsguard.Canonical(root)
	s := &State{Root: canon, Cwd: canon}
	return s, s.Refresh()
}

// Refresh re-reads Cwd. Directories come first, then names compare
// case-insensitively. The selection is clamped to the new listing.
func (s *State) Refresh() error {
	items, err := os.ReadDir(s.Cwd)
	if err != nil {
		return fmt.Errorf("read %s: %w", s.Cwd, err)
	}
	entries := make([]Entry, 0, len(items)+1)
	if s.Cwd != s.Root {
		entries = append(entries, Entry{Name: parentName, IsDir: true})
	}
	for _, it := range items {
		name := it.Name()
		if !s.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}
		entries = append(entries, Entry{Name: name, IsDir: isDir(s.Cwd, it)})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		a, b := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if a != b {
			return a < b
		}
		return entries[i].Name < entries[j].Name
	})
	s.Entries = entries
	s.clampSelection()
	return nil
}

// isDir follows symlinks so a link to a directory is browsable.
func isDir(dir string, e os.DirEntry) bool {
	if e.Type()&os.ModeSymlink != 0 {
		info, err := os.Stat(filepath.Join(dir, e.Name()))
		return err == nil && info.IsDir()
	}
	return e.IsDir()
}

func (s *State) clampSelection() {
	if s.Selected >= len(s.Entries) {
		s.Selected = len(s.Entries) - 1
	}
	if s.Selected < 0 {
		s.Selected = 0
	}
}

func (s *State) MoveUp() {
	if s.Selected > 0 {
		s.Selected--
	}
}

func (s *State) MoveDown() {
	if s.Selected+1 < len(s.Entries) {
		s.Selected++
	}
}

func (s *State) ToggleHidden() error {
	cur, _ := s.SelectedEntry()
	s.ShowHidden = !s.ShowHidden
	if err := s.Refresh(); err != nil {
		return err
	}
	s.SelectName(cur.Name)
	return nil
}

// SelectedEntry returns the highlighted entry, if the listing is not empty.
func (s *State) SelectedEntry() (Entry, bool) {
	if len(s.Entries) == 0 {
		return Entry{}, false
	}
	return s.Entries[s.Selected], true
}

// SelectedPath is the full path of the highlighted entry.
func (s *State) SelectedPath() string {
	e, ok := s.SelectedEntry()
	if !ok {
		return ""
	}
	return filepath.Join(s.Cwd, e.Name)
}

// SelectName highlights the entry with the given name when present.
func (s *State) SelectName(name string) bool {
	for i, e := range s.Entries {
		if e.Name == name {
			s.Selected = i
			return true
		}
	}
	return false
}

// Activate opens the highlighted entry. Directories are entered and ".." goes
// up; for a file the path is returned for the caller to open. Targets outside
// the root are refused and leave the State untouched.
func (s *State) Activate() (string, error) {
	e, ok := s.SelectedEntry()
	if !ok {
		return "", nil
	}
	if e.Name == parentName {
		return "", s.GoUp()
	}
	target, err := fsguard.Resolve(s.Root, filepath.Join(s.Cwd, e.Name))
	if err != nil {
		return "", err
	}
	if !e.IsDir {
		return target, nil
	}
	return "", s.enter(target, "")
}

// GoUp moves to the parent directory unless Cwd is already the root. The
// directory just left becomes the selection.
func (s *State) GoUp() error {
	if s.Cwd == s.Root {
		return nil
	}
	parent, err := fsguard.Resolve(s.Root, filepath.Dir(s.Cwd))
	if err != nil {
		return err
	}
	return s.enter(parent, filepath.Base(s.Cwd))
}

// Enter changes directly to dir, used by the cd command and :e.
func (s *State) Enter(dir string) error {
	dir, err := fsguard.Resolve(s.Root, dir)
	if err != nil {
		return err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", dir)
	}
	return s.enter(dir, "")
}

func (s *State) enter(dir, selectName string) error {
	prevCwd, prevSel, prevEntries := s.Cwd, s.Selected, s.Entries
	s.Cwd = dir
	s.Selected = 0
	if err := s.Refresh(); err != nil {
		s.Cwd, s.Selected, s.Entries = prevCwd, prevSel, prevEntries
		return err
	}
	if selectName != "" {
		s.SelectName(selectName)
	}
	return nil
}

// Resolve joins a user-supplied path onto Cwd and returns its canonical form
// once it is known to lie inside the root. The join keeps ".." components so
// they are applied after any symlink before them.
func (s *State) Resolve(p string) (string, error) {
	if !filepath.IsAbs(p) {
		p = s.Cwd + string(filepath.Separator) + p
	}
	return fsguard.Resolve(s.Root, p)
}

// Create makes a file in Cwd, or a directory when name ends with a slash.
func (s *State) Create(name string) error {
	dir := strings.HasSuffix(name, "/")
	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" {
		return fmt.Errorf("create: empty name")
	}
	target, err := s.Resolve(name)
	if err != nil {
		return err
	}
	if dir {
		err = os.MkdirAll(target, 0o755)
	} else {
		var f *os.File
		f, err = os.OpenFile(target, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			err = f.Close()
		}
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if rerr := s.Refresh(); rerr != nil {
		return rerr
	}
	s.SelectName(strings.SplitN(name, "/", 2)[0])
	return nil
}

// Rename renames the highlighted entry within Cwd.
func (s *State) Rename(newName string) error {
	e, ok := s.SelectedEntry()
	if !ok || e.Name == parentName {
		return ErrNoSelection
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("rename: empty name")
	}
	from := filepath.Join(s.Cwd, e.Name)
	if err := fsguard.Check(s.Root, from); err != nil {
		return err
	}
	to, err := s.Resolve(newName)
	if err != nil {
		return err
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("rename %s: %w", e.Name, err)
	}
	if err := s.Refresh(); err != nil {
		return err
	}
	s.SelectName(filepath.Base(to))
	return nil
}

// Delete removes the highlighted entry; directories are removed recursively.
func (s *State) Delete() error {
	e, ok := s.SelectedEntry()
	if !ok || e.Name == parentName {
		return ErrNoSelection
	}
	target := filepath.Join(s.Cwd, e.Name)
	if err := fsguard.Check(s.Root, target); err != nil {
		return err
	}
	var err error
	if e.IsDir {
		err = os.RemoveAll(target)
	} else {
		err = os.Remove(target)
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", e.Name, err)
	}
	return s.Refresh()
}
