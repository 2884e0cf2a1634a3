package tui

import (
	"bytes"
	"errors"
	"io/fs"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/tshell/internal/editor"
	"github.com/jask/tshell/internal/history"
)

// handleKey routes one key. Home comes first, then the help overlay, then the
// input overlay, then the active screen.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	name := msg.String()
	if b := m.keys.Lookup(name); b != nil && b.Action == actionQuit {
		m.running = false
		return nil
	}

	if m.screen == ScreenHome {
		m.handleHomeKey(name)
		return nil
	}

	switch m.overlay {
	case OverlayHelp:
		m.overlay = OverlayNone
		return nil
	case OverlayInput:
		m.handleInputKey(msg)
		return nil
	}

	switch m.screen {
	case ScreenShell:
		return m.handleShellKey(msg)
	case ScreenExplorer:
		m.handleExplorerKey(name, scopeExplorer)
	case ScreenWorkspace:
		if m.focus == FocusEditor {
			m.handleWorkspaceEditorKey(msg)
		} else {
			m.handleExplorerKey(name, scopeWorkspaceFiles)
		}
	case ScreenEditor:
		m.handleEditorKey(msg)
	}
	return nil
}

func (m *Model) handleHomeKey(name string) {
	b := m.keys.Lookup(name, scopeHome)
	if b == nil {
		return
	}
	switch b.Action {
	case actionOpenShell:
		m.screen = ScreenShell
	case actionOpenLogs:
		m.screen = ScreenShell
		m.showLogs = true
	case actionOpenHelp:
		m.screen = ScreenShell
		m.overlay = OverlayHelp
	case actionOpenWorkspc:
		m.screen = ScreenWorkspace
		m.focus = FocusExplorer
	case actionQuit:
		m.running = false
	}
}

// typedText returns the literal text a key inserts, if any.
func typedText(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return "", false
		}
		return string(msg.Runes), true
	case tea.KeySpace:
		return " ", true
	}
	return "", false
}

func (m *Model) openInput(kind InputKind) {
	m.overlay = OverlayInput
	m.input = InputOverlay{Kind: kind}
}

func (m *Model) handleInputKey(msg tea.KeyMsg) {
	if b := m.keys.Lookup(msg.String(), scopeInput); b != nil {
		switch b.Action {
		case actionConfirm:
			m.confirmInput()
		case actionCancel:
			m.overlay = OverlayNone
			m.input = InputOverlay{}
		case actionDeleteBack:
			m.input.Buffer = dropLastRune(m.input.Buffer)
		}
		return
	}
	if text, ok := typedText(msg); ok {
		m.input.Buffer += text
	}
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

func (m *Model) handleShellKey(msg tea.KeyMsg) tea.Cmd {
	b := m.keys.Lookup(msg.String(), scopeShell)
	if b == nil {
		var cmd tea.Cmd
		m.term.input, cmd = m.term.input.Update(msg)
		return cmd
	}
	page := max(1, m.outputRows()-1)
	switch b.Action {
	case actionSubmit:
		return m.submitShell()
	case actionQuit:
		m.running = false
	case actionScrollUp:
		m.term.scrollUp(page)
	case actionScrollDown:
		m.term.scrollDown(page)
	case actionLogsUp:
		if m.showLogs {
			m.logTop = min(m.logTop+1, max(0, m.panel.Len()-1))
		}
	case actionLogsDown:
		if m.showLogs {
			m.logTop = max(0, m.logTop-1)
		}
	case actionHistoryPrev:
		m.term.historyPrev()
	case actionHistoryNext:
		m.term.historyNext()
	case actionClearOutput:
		m.term.clearOutput()
	}
	return nil
}

// submitShell runs the input line. Built-ins and ':' commands run here since
// they touch the panes; programs run in a command and report back through
// shellOutputMsg.
func (m *Model) submitShell() tea.Cmd {
	line := m.term.take()
	if line == "" {
		return nil
	}
	m.term.appendOutput(m.prompt.Render(m.now(), m.explorer.Cwd) + line)
	if m.term.pushHistory(line) {
		if err := m.history.Append(m.ctx, history.SourceTUI, line); err != nil {
			m.log.WithError(err).Warn("history append failed")
		}
	}

	if strings.HasPrefix(line, ":") {
		return m.runTUICommand(line)
	}

	var out bytes.Buffer
	if ok, err := m.exec.Builtin(&out, line); ok {
		m.term.appendOutput(out.String())
		if err != nil {
			m.setErrorText(err.Error())
		}
		return nil
	}

	exec, ctx, dir := m.exec, m.ctx, m.explorer.Cwd
	m.log.WithField("cmd", line).Debug("running")
	return func() tea.Msg {
		var out bytes.Buffer
		err := exec.External(ctx, &out, dir, line)
		return shellOutputMsg{Line: line, Output: out.String(), Err: err}
	}
}

func (m *Model) handleExplorerKey(name, scope string) {
	b := m.keys.Lookup(name, scope)
	if b == nil {
		return
	}
	ex := m.explorer
	switch b.Action {
	case actionMoveDown:
		ex.MoveDown()
	case actionMoveUp:
		ex.MoveUp()
	case actionGoUp:
		if err := ex.GoUp(); err != nil {
			m.setError(err)
		}
		m.followWatch()
	case actionActivate:
		path, err := ex.Activate()
		if err != nil {
			m.setError(err)
			return
		}
		if path == "" {
			m.followWatch()
			return
		}
		m.openPath(path)
	case actionToggleDots:
		if err := ex.ToggleHidden(); err != nil {
			m.setError(err)
		}
	case actionNewEntry:
		m.openInput(InputNewEntry)
	case actionRename, actionDelete:
		e, ok := ex.SelectedEntry()
		if !ok || e.Name == ".." {
			m.setErrorText("Select a file or directory first")
			return
		}
		if b.Action == actionRename {
			m.openInput(InputRenameEntry)
		} else {
			m.openInput(InputDeleteConfirm)
		}
	case actionSwitchFocus:
		m.screen = ScreenWorkspace
		m.focus = FocusEditor
	case actionBack:
		m.screen = ScreenHome
	}
}

// openPath opens path in a tab, or focuses the tab already showing it, and
// moves to the workspace editor. A missing file inside the root opens as an
// empty buffer bound to that path.
func (m *Model) openPath(path string) bool {
	if open := m.tabs.Lookup(path); open != nil {
		m.tabs.FocusID(open.ID)
	} else {
		doc, err := editor.Open(path, m.explorer.Root)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			doc = editor.NewScratch()
			doc.Path = path
		case err != nil:
			m.setError(err)
			return false
		}
		m.tabs.OpenOrFocus(doc)
		m.log.WithField("path", path).Info("opened file")
	}
	m.screen = ScreenWorkspace
	m.focus = FocusEditor
	m.setStatus("Opened " + m.tabs.Current().Title())
	return true
}

// handleEditorShortcut applies the ctrl/alt/function-key bindings shared by
// the workspace editor and the full editor.
func (m *Model) handleEditorShortcut(name string) bool {
	b := m.keys.Lookup(name, scopeEditorShortcuts)
	if b == nil || b.Action == actionQuit {
		return false
	}
	if b.Action == actionCloseTab {
		m.closeTab()
		return true
	}
	ed := m.tabs.Current()
	if ed == nil {
		return true
	}
	rows := m.editorRows()
	switch b.Action {
	case actionSave:
		m.save(ed)
	case actionUndo:
		ed.Undo()
		ed.EnsureVisible(rows)
	case actionRedo:
		ed.Redo()
		ed.EnsureVisible(rows)
	case actionSearch:
		m.openInput(InputSearchText)
	case actionGotoLine:
		m.openInput(InputGotoLine)
	case actionNextMatch, actionPrevMatch:
		m.stepMatch(ed, b.Action == actionNextMatch)
	case actionNextTab:
		m.tabs.Next()
	case actionPrevTab:
		m.tabs.Prev()
	case actionCopyLine:
		if err := m.clip.WriteAll(ed.CurrentLine()); err != nil {
			m.setError(err)
			return true
		}
		m.setStatus("Copied line")
	case actionPaste:
		text, err := m.clip.ReadAll()
		if err != nil {
			m.setError(err)
			return true
		}
		ed.InsertText(text)
		ed.EnsureVisible(rows)
	}
	return true
}

func (m *Model) save(ed *editor.State) {
	if err := ed.Save(); err != nil {
		if errors.Is(err, editor.ErrNoPath) {
			m.setErrorText("No file name, use :w <path>")
			return
		}
		m.setError(err)
		return
	}
	m.log.WithField("path", ed.Path).Info("saved")
	m.setStatus("Saved " + ed.Title())
}

func (m *Model) stepMatch(ed *editor.State, forward bool) {
	var ok bool
	if forward {
		ok = ed.SearchNext(m.editorRows())
	} else {
		ok = ed.SearchPrev(m.editorRows())
	}
	if !ok {
		if ed.LastSearch == "" {
			m.setStatus("No search, press ctrl+f")
		} else {
			m.setStatus("No matches for " + ed.LastSearch)
		}
		return
	}
	m.reportMatch(ed)
}

func (m *Model) reportMatch(ed *editor.State) {
	if mt, ok := ed.CurrentMatch(); ok {
		m.setStatus(matchStatus(ed, mt))
	}
}

// closeTab closes the current tab; with nothing left the explorer takes
// focus.
func (m *Model) closeTab() {
	ed := m.tabs.Current()
	if ed == nil {
		return
	}
	if closed := m.tabs.Close(ed.ID); closed != nil && closed.Dirty {
		m.setStatus("Closed " + closed.Title() + " without saving")
	}
	if m.tabs.IsEmpty() {
		m.screen = ScreenWorkspace
		m.focus = FocusExplorer
	}
}

// applyMotion handles the cursor keys common to every editing scope.
func applyMotion(ed *editor.State, action Action, rows int) bool {
	switch action {
	case actionMoveUp:
		ed.MoveUp()
	case actionMoveDown:
		ed.MoveDown(rows)
	case actionMoveLeft:
		ed.MoveLeft()
	case actionMoveRight:
		ed.MoveRight()
	case actionLineStart:
		ed.LineStart()
	case actionLineEnd:
		ed.LineEnd()
	default:
		return false
	}
	return true
}

// insertTyped inserts what the key types; pasted text is one undo step.
func insertTyped(ed *editor.State, msg tea.KeyMsg, rows int) {
	text, ok := typedText(msg)
	if !ok {
		return
	}
	if msg.Paste || len([]rune(text)) > 1 {
		ed.InsertText(text)
	} else {
		ed.InsertRune([]rune(text)[0])
	}
	ed.EnsureVisible(rows)
}

func (m *Model) handleWorkspaceEditorKey(msg tea.KeyMsg) {
	name := msg.String()
	if m.handleEditorShortcut(name) {
		return
	}
	b := m.keys.Lookup(name, scopeWorkspaceEditor)
	if b != nil && b.Action == actionSwitchFocus {
		m.focus = FocusExplorer
		return
	}
	ed := m.tabs.Current()
	if ed == nil {
		return
	}
	rows := m.editorRows()
	if b == nil {
		insertTyped(ed, msg, rows)
		return
	}
	switch b.Action {
	case actionFullEditor:
		m.screen = ScreenEditor
		ed.Mode = editor.ModeNormal
	case actionNewline:
		ed.InsertNewline()
		ed.EnsureVisible(rows)
	case actionDeleteBack:
		ed.Backspace()
		ed.EnsureVisible(rows)
	default:
		applyMotion(ed, b.Action, rows)
	}
}

func (m *Model) handleEditorKey(msg tea.KeyMsg) {
	name := msg.String()
	if m.handleEditorShortcut(name) {
		return
	}
	ed := m.tabs.Current()
	if ed == nil {
		if b := m.keys.Lookup(name, scopeEditorNormal); b != nil && b.Action == actionBack {
			m.screen = ScreenWorkspace
			m.focus = FocusExplorer
		}
		return
	}
	rows := m.editorRows()
	switch ed.Mode {
	case editor.ModeInsert:
		b := m.keys.Lookup(name, scopeEditorInsert)
		if b == nil {
			insertTyped(ed, msg, rows)
			return
		}
		switch b.Action {
		case actionNormalMode:
			ed.Mode = editor.ModeNormal
		case actionNewline:
			ed.InsertNewline()
			ed.EnsureVisible(rows)
		case actionDeleteBack:
			ed.Backspace()
			ed.EnsureVisible(rows)
		default:
			applyMotion(ed, b.Action, rows)
		}
	case editor.ModeCommand:
		b := m.keys.Lookup(name, scopeEditorCommand)
		if b == nil {
			if text, ok := typedText(msg); ok {
				ed.CmdLine += text
			}
			return
		}
		switch b.Action {
		case actionSubmit:
			line := ed.CmdLine
			ed.CmdLine = ""
			ed.Mode = editor.ModeNormal
			m.runEditorCommand(ed, line)
		case actionCancel:
			ed.CmdLine = ""
			ed.Mode = editor.ModeNormal
		case actionDeleteBack:
			ed.CmdLine = dropLastRune(ed.CmdLine)
		}
	default:
		b := m.keys.Lookup(name, scopeEditorNormal)
		if b == nil {
			return
		}
		switch b.Action {
		case actionInsertMode:
			ed.Mode = editor.ModeInsert
		case actionCommandMode:
			ed.Mode = editor.ModeCommand
			ed.CmdLine = ""
		case actionNextMatch, actionPrevMatch:
			m.stepMatch(ed, b.Action == actionNextMatch)
		case actionBack:
			m.screen = ScreenWorkspace
			m.focus = FocusExplorer
		default:
			applyMotion(ed, b.Action, rows)
		}
	}
}
