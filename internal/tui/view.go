package tui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/jask/tshell/internal/editor"
)

const (
	fallbackWidth  = 80
	fallbackHeight = 24
	// header, status bar and footer
	chromeRows = 3
)

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = fallbackWidth
	}
	if h <= 0 {
		h = fallbackHeight
	}
	return w, h
}

func (m Model) bodyHeight() int {
	_, h := m.size()
	return max(1, h-chromeRows)
}

func (m Model) explorerWidth() int {
	w, _ := m.size()
	return max(20, w*30/100)
}

// editorRows is how many buffer lines the current layout shows.
func (m Model) editorRows() int {
	if m.screen == ScreenEditor {
		return max(1, m.bodyHeight()-2)
	}
	// border, tab bar and info line
	return max(1, m.bodyHeight()-4)
}

func (m Model) logsHeight() int {
	if !m.showLogs {
		return 0
	}
	return max(3, m.bodyHeight()/3)
}

// outputRows is the height of the shell scrollback.
func (m Model) outputRows() int {
	return max(1, m.bodyHeight()-1-m.logsHeight())
}

func (m Model) View() string {
	if !m.running {
		return ""
	}
	w, h := m.size()
	var body string
	switch m.screen {
	case ScreenShell:
		body = m.viewShell(w)
	case ScreenExplorer:
		body = m.viewExplorer(w, m.bodyHeight(), true)
	case ScreenWorkspace:
		left := m.explorerWidth()
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewExplorer(left, m.bodyHeight(), m.focus == FocusExplorer),
			m.viewEditorPane(w-left, m.bodyHeight(), m.focus == FocusEditor),
		)
	case ScreenEditor:
		body = m.viewEditorScreen(w, m.bodyHeight())
	default:
		body = m.viewHome(w, m.bodyHeight())
	}
	body = fitCanvas(body, w, m.bodyHeight())

	view := strings.Join([]string{
		m.viewHeader(w),
		body,
		m.viewStatus(w),
		m.viewFooter(w),
	}, "\n")

	switch m.overlay {
	case OverlayHelp:
		view = renderPopup(view, m.viewHelp(w, h), w, h)
	case OverlayInput:
		view = renderPopup(view, m.viewInput(w), w, h)
	}
	return view
}

func (m Model) viewHeader(w int) string {
	left := headerAppStyle.Render(" "+appName+" ") + headerBarStyle.Render("│ "+m.screen.String())
	if m.screen == ScreenEditor || (m.screen == ScreenWorkspace && m.focus == FocusEditor) {
		if ed := m.tabs.Current(); ed != nil {
			left += headerBarStyle.Render(" │ " + ed.Title())
		}
	}
	right := clockStyle.Render(m.now().Format("15:04:05") + " ")
	gap := w - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		return renderBar(headerBarStyle, w, left)
	}
	return renderBar(headerBarStyle, w, left+headerBarStyle.Render(strings.Repeat(" ", gap))+right)
}

func (m Model) viewStatus(w int) string {
	msg := strings.TrimSpace(m.status)
	if msg == "" {
		msg = "Ready"
	}
	if m.statusErr {
		return renderBar(statusErrBarStyle, w, " "+msg)
	}
	return renderBar(statusBarStyle, w, " "+msg)
}

// activeScopes lists the key scopes in effect, most specific first.
func (m Model) activeScopes() []string {
	if m.overlay == OverlayInput {
		return []string{scopeInput}
	}
	switch m.screen {
	case ScreenShell:
		return []string{scopeShell}
	case ScreenExplorer:
		return []string{scopeExplorer}
	case ScreenWorkspace:
		if m.focus == FocusEditor {
			return []string{scopeWorkspaceEditor, scopeEditorShortcuts}
		}
		return []string{scopeWorkspaceFiles}
	case ScreenEditor:
		mode := scopeEditorNormal
		if ed := m.tabs.Current(); ed != nil {
			switch ed.Mode {
			case editor.ModeInsert:
				mode = scopeEditorInsert
			case editor.ModeCommand:
				mode = scopeEditorCommand
			}
		}
		return []string{mode, scopeEditorShortcuts}
	default:
		return []string{scopeHome}
	}
}

func (m Model) helpModel(w int) help.Model {
	h := m.help
	h.Width = w
	h.Styles.ShortKey = menuKeyStyle.Background(colorMantle)
	h.Styles.ShortDesc = mutedStyle.Background(colorMantle)
	h.Styles.ShortSeparator = mutedStyle.Background(colorMantle)
	h.Styles.Ellipsis = mutedStyle.Background(colorMantle)
	h.Styles.FullKey = menuKeyStyle
	h.Styles.FullDesc = mutedStyle
	h.Styles.FullSeparator = mutedStyle
	return h
}

func (m Model) viewFooter(w int) string {
	h := m.helpModel(w - 1)
	line := h.ShortHelpView(m.keys.HelpBindings(m.activeScopes()...))
	return renderBar(footerStyle, w, " "+line)
}

func renderBar(style lipgloss.Style, width int, text string) string {
	line := ansi.Truncate(strings.ReplaceAll(text, "\n", " "), width, "")
	if w := ansi.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return style.Width(width).MaxWidth(width).Render(line)
}

func (m Model) viewHome(w, h int) string {
	items := []struct{ key, label string }{
		{"1", "Shell"},
		{"2", "Shell with logs"},
		{"3", "Help"},
		{"4", "Quit"},
		{"5", "Workspace"},
	}
	lines := []string{paneTitleStyle.Render(appName), ""}
	for _, it := range items {
		lines = append(lines, menuKeyStyle.Render(it.key)+"  "+menuTextStyle.Render(it.label))
	}
	lines = append(lines, "", mutedStyle.Render("root: "+m.explorer.Root))
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))
}

func (m Model) viewShell(w int) string {
	rows := m.outputRows()
	out := m.term.visible(rows)
	lines := make([]string, 0, rows+1)
	for i := len(out); i < rows; i++ {
		lines = append(lines, "")
	}
	for _, l := range out {
		lines = append(lines, ansi.Truncate(l, w, "…"))
	}
	input := m.prompt.Render(m.now(), m.explorer.Cwd) + m.term.input.View()
	lines = append(lines, ansi.Truncate(input, w, ""))
	if m.showLogs {
		lines = append(lines, m.viewLogs(w, m.logsHeight()))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewLogs(w, h int) string {
	inner := max(1, h-2)
	all := m.panel.Lines()
	end := max(0, len(all)-m.logTop)
	start := max(0, end-(inner-1))
	title := logTitleStyle.Render("Logs")
	if m.logTop > 0 {
		title += mutedStyle.Render(fmt.Sprintf("  (-%d)", m.logTop))
	}
	lines := []string{title}
	for _, l := range all[start:end] {
		style := mutedStyle
		switch {
		case strings.Contains(l, "[WARN]"):
			style = logWarnStyle
		case strings.Contains(l, "[ERROR]"):
			style = logErrStyle
		}
		lines = append(lines, style.Render(runewidth.Truncate(l, w-4, "…")))
	}
	return paneStyle.Width(w - 2).Height(inner).Render(strings.Join(lines, "\n"))
}

func (m Model) viewExplorer(w, h int, focused bool) string {
	ex := m.explorer
	innerW, innerH := max(1, w-2), max(1, h-2)
	rel, err := filepath.Rel(ex.Root, ex.Cwd)
	if err != nil || rel == "." {
		rel = ""
	}
	title := paneTitleStyle.Render(runewidth.Truncate("/"+filepath.ToSlash(rel), innerW, "…"))
	if ex.ShowHidden {
		title += mutedStyle.Render(" (all)")
	}
	lines := []string{title}

	listH := innerH - 1
	start := 0
	if ex.Selected >= listH {
		start = ex.Selected - listH + 1
	}
	for i := start; i < len(ex.Entries) && i < start+listH; i++ {
		e := ex.Entries[i]
		name := e.Name
		style := fileStyle
		if e.IsDir {
			name += "/"
			style = dirStyle
		}
		name = runewidth.FillRight(runewidth.Truncate(" "+name, innerW, "…"), innerW)
		if i == ex.Selected && focused {
			style = selectedStyle
		} else if i == ex.Selected {
			style = style.Underline(true)
		}
		lines = append(lines, style.Render(name))
	}
	if len(ex.Entries) == 0 {
		lines = append(lines, mutedStyle.Render(" (empty)"))
	}

	style := paneStyle
	if focused {
		style = paneFocusStyle
	}
	return style.Width(innerW).Height(innerH).Render(strings.Join(lines, "\n"))
}

func (m Model) viewTabBar(w int) string {
	if m.tabs.IsEmpty() {
		return mutedStyle.Render(runewidth.Truncate(" no open files: pick one, or :e <path> / :new", w, "…"))
	}
	parts := make([]string, 0, m.tabs.Len())
	for _, doc := range m.tabs.All() {
		label := doc.Title()
		if p := doc.Path; p != "" {
			label = filepath.Base(p)
		}
		if doc.Dirty {
			label += dirtyMarkStyle.Render("*")
		}
		if m.tabs.IsCurrent(doc) {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(label))
		}
	}
	return ansi.Truncate(strings.Join(parts, ""), w, "…")
}

func (m Model) viewEditorPane(w, h int, focused bool) string {
	innerW, innerH := max(1, w-2), max(1, h-2)
	lines := []string{m.viewTabBar(innerW)}
	ed := m.tabs.Current()
	rows := max(1, innerH-2)
	if ed != nil {
		lines = append(lines, renderBuffer(ed, innerW, rows, focused)...)
		lines = append(lines, editorInfoStyle.Render(ansi.Truncate(infoLine(ed), innerW, "…")))
	}
	style := paneStyle
	if focused {
		style = paneFocusStyle
	}
	return style.Width(innerW).Height(innerH).Render(strings.Join(fitLines(lines, innerH), "\n"))
}

func (m Model) viewEditorScreen(w, h int) string {
	lines := []string{m.viewTabBar(w)}
	ed := m.tabs.Current()
	if ed == nil {
		return strings.Join(lines, "\n")
	}
	lines = append(lines, renderBuffer(ed, w, max(1, h-2), ed.Mode != editor.ModeCommand)...)
	var info string
	if ed.Mode == editor.ModeCommand {
		info = ":" + ed.CmdLine + cursorStyle.Render(" ")
	} else {
		info = modeStyle.Render(ed.Mode.String()) + " " + editorInfoStyle.Render(infoLine(ed))
	}
	lines = append(lines, ansi.Truncate(info, w, "…"))
	return strings.Join(lines, "\n")
}

func fitLines(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}

func infoLine(ed *editor.State) string {
	s := fmt.Sprintf("%s  Ln %d, Col %d  %d lines", ed.Title(), ed.Row+1, ed.Col+1, ed.Buf.LineCount())
	if ed.Dirty {
		s += "  [+]"
	}
	if mt, ok := ed.CurrentMatch(); ok {
		s += "  " + matchStatus(ed, mt)
	}
	return s
}

type cellMark int

const (
	markNone cellMark = iota
	markMatch
	markCursor
)

// renderBuffer draws rows lines from the scroll position with a line number
// gutter, search hits and, when showCursor is set, the cursor cell.
func renderBuffer(ed *editor.State, width, rows int, showCursor bool) []string {
	n := ed.Buf.LineCount()
	gw := len(strconv.Itoa(n))
	textW := max(1, width-gw-1)
	hscroll := 0
	if ed.Col >= textW {
		hscroll = ed.Col - textW + 1
	}
	qlen := utf8.RuneCountInString(ed.LastSearch)

	out := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		row := ed.Scroll + i
		if row >= n {
			out = append(out, gutterStyle.Render(fmt.Sprintf("%*s ", gw, "~")))
			continue
		}
		gutter := gutterStyle
		if row == ed.Row {
			gutter = gutterCurStyle
		}
		runes := []rune(ed.Buf.Line(row))
		marks := make([]cellMark, len(runes)+1)
		for _, mt := range ed.Matches {
			if mt.Row != row {
				continue
			}
			for c := mt.Col; c < mt.Col+qlen && c < len(runes); c++ {
				marks[c] = markMatch
			}
		}
		if showCursor && row == ed.Row {
			marks[min(ed.Col, len(runes))] = markCursor
		}
		out = append(out, gutter.Render(fmt.Sprintf("%*d ", gw, row+1))+renderCells(runes, marks, hscroll, textW))
	}
	return out
}

func renderCells(runes []rune, marks []cellMark, from, width int) string {
	var b strings.Builder
	var run strings.Builder
	cur := markNone
	flush := func() {
		if run.Len() == 0 {
			return
		}
		switch cur {
		case markMatch:
			b.WriteString(matchStyle.Render(run.String()))
		case markCursor:
			b.WriteString(cursorStyle.Render(run.String()))
		default:
			b.WriteString(run.String())
		}
		run.Reset()
	}
	used := 0
	for c := from; c < len(marks); c++ {
		r := ' '
		if c < len(runes) {
			r = runes[c]
		} else if marks[c] != markCursor {
			break
		}
		if r < 0x20 || r == 0x7f {
			r = ' '
		}
		rw := runewidth.RuneWidth(r)
		if used+rw > width {
			break
		}
		used += rw
		if marks[c] != cur {
			flush()
			cur = marks[c]
		}
		run.WriteRune(r)
	}
	flush()
	return b.String()
}

// viewHelp lists commands and the keys in effect, clipped to fit a popup of
// height h.
func (m Model) viewHelp(w, h int) string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render(appName+" help") + mutedStyle.Render("  press any key to close") + "\n\n")

	b.WriteString(logTitleStyle.Render("Commands") + "\n")
	for _, md := range m.registry.Metadata() {
		fmt.Fprintf(&b, "  %s  %s\n", menuKeyStyle.Render(fmt.Sprintf("%-14s", md.Usage)), md.Description)
	}
	b.WriteString("\n" + logTitleStyle.Render("Pane commands") + "\n")
	for _, c := range [][2]string{
		{":q", "quit"},
		{":l", "toggle the log panel"},
		{":h", "toggle this help"},
		{":clear", "clear the log panel"},
		{":fs", "open the workspace"},
		{":e <path>", "edit a file"},
		{":new", "new scratch buffer"},
	} {
		fmt.Fprintf(&b, "  %s  %s\n", menuKeyStyle.Render(fmt.Sprintf("%-14s", c[0])), c[1])
	}

	b.WriteString("\n" + logTitleStyle.Render("Keys") + "\n")
	groups := make([][]key.Binding, 0, 2)
	for _, scope := range m.activeScopes() {
		if bs := m.keys.HelpBindings(scope); len(bs) > 0 {
			groups = append(groups, bs)
		}
	}
	b.WriteString(m.helpModel(max(20, w-10)).FullHelpView(groups))
	// border and padding take four rows
	return strings.Join(fitLines(strings.Split(b.String(), "\n"), max(1, h-4)), "\n")
}

func (m Model) viewInput(w int) string {
	width := min(60, max(20, w-10))
	field := tail(m.input.Buffer, width-3)
	return strings.Join([]string{
		paneTitleStyle.Render(m.input.Kind.Title()),
		"",
		"> " + field + cursorStyle.Render(" "),
		"",
		mutedStyle.Render("enter confirm · esc cancel"),
	}, "\n")
}

// tail keeps the end of s that fits in width cells.
func tail(s string, width int) string {
	r := []rune(s)
	for len(r) > 0 && runewidth.StringWidth(string(r)) > width {
		r = r[1:]
	}
	return string(r)
}
