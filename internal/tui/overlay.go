package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jask/tshell/internal/editor"
)

// confirmInput applies the pending input overlay and closes it.
func (m *Model) confirmInput() {
	in := m.input
	m.overlay = OverlayNone
	m.input = InputOverlay{}
	text := strings.TrimSpace(in.Buffer)

	switch in.Kind {
	case InputNewEntry:
		if err := m.explorer.Create(in.Buffer); err != nil {
			m.setError(err)
		} else {
			m.log.WithField("name", text).Info("created entry")
			m.setStatus("Created " + text)
		}
		m.refreshExplorer()
	case InputRenameEntry:
		old, _ := m.explorer.SelectedEntry()
		open := m.tabs.Lookup(m.explorer.SelectedPath())
		to, _ := m.explorer.Resolve(text)
		if err := m.explorer.Rename(text); err != nil {
			m.setError(err)
		} else {
			if open != nil && to != "" {
				// the tab follows its file
				open.Path = to
			}
			m.log.WithField("from", old.Name).WithField("to", text).Info("renamed entry")
			m.setStatus(fmt.Sprintf("Renamed %s to %s", old.Name, text))
		}
		m.refreshExplorer()
	case InputDeleteConfirm:
		if text != "y" && text != "Y" {
			m.setStatus("Delete cancelled")
			return
		}
		victim, _ := m.explorer.SelectedEntry()
		if err := m.explorer.Delete(); err != nil {
			m.setError(err)
		} else {
			m.log.WithField("name", victim.Name).Info("deleted entry")
			m.setStatus("Deleted " + victim.Name)
		}
		m.refreshExplorer()
	case InputSearchText:
		ed := m.tabs.Current()
		if ed == nil || in.Buffer == "" {
			return
		}
		if !ed.Find(in.Buffer, m.editorRows()) {
			m.setStatus("No matches for " + in.Buffer)
			return
		}
		m.reportMatch(ed)
	case InputGotoLine:
		ed := m.tabs.Current()
		if ed == nil {
			return
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			m.setErrorText("Not a line number: " + text)
			return
		}
		ed.GotoLine(n, m.editorRows())
	}
}

func matchStatus(ed *editor.State, mt editor.Match) string {
	return fmt.Sprintf("Match %d/%d at %d:%d", ed.MatchIdx+1, len(ed.Matches), mt.Row+1, mt.Col+1)
}
