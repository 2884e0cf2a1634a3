package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/tshell/internal/editor"
)

// runTUICommand handles ':' lines typed in the shell pane.
func (m *Model) runTUICommand(line string) tea.Cmd {
	fields := strings.Fields(strings.TrimPrefix(line, ":"))
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]
	switch name {
	case "q", "quit":
		m.running = false
	case "l", "logs":
		m.showLogs = !m.showLogs
		m.logTop = 0
	case "h", "help":
		if m.overlay == OverlayHelp {
			m.overlay = OverlayNone
		} else {
			m.overlay = OverlayHelp
		}
	case "clear":
		m.panel.Clear()
		m.logTop = 0
		m.setStatus("Logs cleared")
	case "fs", "files":
		m.screen = ScreenWorkspace
		m.focus = FocusExplorer
	case "e", "edit":
		if len(args) == 0 {
			m.term.appendOutput("usage: :e <path>")
			return nil
		}
		path, err := m.explorer.Resolve(strings.Join(args, " "))
		if err != nil {
			m.setError(err)
			return nil
		}
		m.openPath(path)
	case "new":
		m.tabs.OpenOrFocus(editor.NewScratch())
		m.screen = ScreenWorkspace
		m.focus = FocusEditor
	default:
		m.term.appendOutput("Unknown TUI command: :" + name)
	}
	return nil
}

// runEditorCommand runs a command-mode line of the full editor.
func (m *Model) runEditorCommand(ed *editor.State, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if n, err := strconv.Atoi(line); err == nil {
		ed.GotoLine(n, m.editorRows())
		return
	}
	fields := strings.Fields(line)
	name, arg := fields[0], strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
	switch name {
	case "q":
		m.screen = ScreenWorkspace
		m.focus = FocusExplorer
	case "w", "wq":
		if arg != "" {
			path, err := m.explorer.Resolve(arg)
			if err != nil {
				m.setError(err)
				return
			}
			if err := ed.SaveAs(path, m.explorer.Root); err != nil {
				m.setError(err)
				return
			}
			m.setStatus("Saved " + ed.Title())
			m.refreshExplorer()
		} else {
			m.save(ed)
			if m.statusErr {
				return
			}
		}
		if name == "wq" {
			m.screen = ScreenWorkspace
			m.focus = FocusExplorer
		}
	case "e":
		if arg == "" {
			m.setErrorText("usage: e <path>")
			return
		}
		path, err := m.explorer.Resolve(arg)
		if err != nil {
			m.setError(err)
			return
		}
		if m.openPath(path) {
			m.screen = ScreenEditor
		}
	default:
		m.setErrorText("Unknown command: " + name)
	}
}
