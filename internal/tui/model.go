// Package tui is the full-screen interface: a home menu, a shell pane with a
// log panel, a file explorer and a tabbed editor, plus help and input
// overlays on top of them.
package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/jask/tshell/internal/commands"
	"github.com/jask/tshell/internal/config"
	"github.com/jask/tshell/internal/explorer"
	"github.com/jask/tshell/internal/history"
	"github.com/jask/tshell/internal/logging"
	"github.com/jask/tshell/internal/shell"
	"github.com/jask/tshell/internal/tabs"
	"github.com/jask/tshell/internal/theme"
)

const appName = "tshell"

// Clipboard is the system clipboard, replaced by a fake in tests.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)  { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Deps are the collaborators the model needs. Zero values get usable
// defaults.
type Deps struct {
	Ctx       context.Context
	Config    config.Config
	Log       *logrus.Logger
	Panel     *logging.PanelHook
	Prompt    *theme.Prompt
	History   history.Store
	Runner    shell.Runner
	Clipboard Clipboard
	Watcher   *explorer.Watcher
	Now       func() time.Time
}

type Model struct {
	ctx context.Context

	screen  Screen
	focus   Focus
	overlay Overlay
	input   InputOverlay
	running bool

	width  int
	height int

	explorer *explorer.State
	tabs     *tabs.Tabs
	term     *terminal
	showLogs bool
	logTop   int // lines scrolled back in the log panel

	status    string
	statusErr bool

	keys     *KeyRegistry
	registry *commands.Registry
	exec     *shell.Executor
	log      logrus.FieldLogger
	panel    *logging.PanelHook
	prompt   *theme.Prompt
	history  history.Store
	clip     Clipboard
	watcher  *explorer.Watcher
	tick     time.Duration
	now      func() time.Time
	help     help.Model
}

type tickMsg time.Time

type fsEventMsg struct {
	Path string
}

type shellOutputMsg struct {
	Line   string
	Output string
	Err    error
}

// StatusMsg sets the status bar from a command.
type StatusMsg struct {
	Text  string
	IsErr bool
}

// New builds the model. The explorer error is reported in the status bar
// rather than returned so the UI can still start.
func New(d Deps) Model {
	if d.Ctx == nil {
		d.Ctx = context.Background()
	}
	if d.Log == nil {
		d.Log = logging.Discard()
	}
	if d.Panel == nil {
		d.Panel = logging.NewPanelHook(0)
		d.Log.AddHook(d.Panel)
	}
	if d.Prompt == nil {
		d.Prompt = theme.NewPrompt(d.Config.Theme.Path)
	}
	if d.History == nil {
		d.History = history.NewMemory()
	}
	if d.Clipboard == nil {
		d.Clipboard = systemClipboard{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	tick := d.Config.UI.Tick
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}

	m := Model{
		ctx:     d.Ctx,
		screen:  ParseScreen(d.Config.UI.StartScreen),
		running: true,
		tabs:    tabs.New(),
		keys:    NewKeyRegistry(),
		log:     d.Log,
		panel:   d.Panel,
		prompt:  d.Prompt,
		history: d.History,
		clip:    d.Clipboard,
		watcher: d.Watcher,
		tick:    tick,
		now:     d.Now,
		help:    help.New(),
	}

	root := d.Config.Explorer.Root
	ex, err := explorer.New(root)
	if d.Config.Explorer.ShowHidden {
		ex.ShowHidden = true
		err = ex.Refresh()
	}
	m.explorer = ex
	if err != nil {
		m.setError(err)
	}

	// Built-ins only ever run from Update, so they may touch the panes.
	term := newTerminal()
	m.term = term
	watcher, log := d.Watcher, d.Log
	chdir := func(dir string) error {
		target, err := ex.Resolve(dir)
		if err != nil {
			return err
		}
		if err := ex.Enter(target); err != nil {
			return err
		}
		if watcher != nil {
			if err := watcher.Follow(ex.Cwd); err != nil {
				log.WithError(err).Warn("watch failed")
			}
		}
		return nil
	}
	m.registry = commands.NewRegistry(commands.Builtins(commands.Hooks{
		Chdir:  chdir,
		Clear:  func(commands.Env) { term.clearOutput() },
		Prompt: d.Prompt,
	})...)
	m.exec = shell.NewExecutor(m.registry, d.Runner, d.Log)

	limit := d.Config.History.Limit
	if limit <= 0 {
		limit = 500
	}
	if lines, err := d.History.Recent(d.Ctx, limit); err == nil {
		term.setHistory(lines)
	} else {
		d.Log.WithError(err).Warn("history unavailable")
	}

	if m.screen == ScreenWorkspace {
		m.focus = FocusExplorer
	}
	m.followWatch()
	d.Log.WithField("root", ex.Root).Info("tui started")
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.waitFS())
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// waitFS blocks until the watched directory changes.
func (m Model) waitFS() tea.Cmd {
	w := m.watcher
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := w.Wait()
		if !ok {
			return nil
		}
		return fsEventMsg{Path: ev.Name}
	}
}

func (m *Model) followWatch() {
	if m.watcher == nil || m.explorer == nil {
		return
	}
	if err := m.watcher.Follow(m.explorer.Cwd); err != nil {
		m.log.WithError(err).Warn("watch failed")
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	if !m.running {
		return m, tea.Quit
	}
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.term.input.Width = max(10, m.width-4)
		if ed := m.tabs.Current(); ed != nil {
			ed.EnsureVisible(m.editorRows())
		}
		return nil
	case tickMsg:
		return m.tickCmd()
	case fsEventMsg:
		m.refreshExplorer()
		return m.waitFS()
	case shellOutputMsg:
		m.term.appendOutput(msg.Output)
		if msg.Err != nil {
			m.setErrorText(msg.Line + ": " + msg.Err.Error())
		}
		return nil
	case StatusMsg:
		if msg.IsErr {
			m.setErrorText(msg.Text)
		} else {
			m.setStatus(msg.Text)
		}
		return nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

// refreshExplorer re-reads the listing and keeps the highlighted name.
func (m *Model) refreshExplorer() {
	cur, _ := m.explorer.SelectedEntry()
	if err := m.explorer.Refresh(); err != nil {
		m.setError(err)
		return
	}
	m.explorer.SelectName(cur.Name)
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusErr = false
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.log.WithError(err).Warn("operation failed")
	m.setErrorText(err.Error())
}

func (m *Model) setErrorText(text string) {
	m.status = text
	m.statusErr = true
}

// Screen reports the active screen.
func (m Model) Screen() Screen { return m.screen }

func (m Model) Focus() Focus { return m.focus }

func (m Model) Overlay() Overlay { return m.overlay }

func (m Model) Input() InputOverlay { return m.input }

func (m Model) Running() bool { return m.running }

func (m Model) Status() string { return m.status }

func (m Model) Tabs() *tabs.Tabs { return m.tabs }

func (m Model) Explorer() *explorer.State { return m.explorer }

func (m Model) ShowLogs() bool { return m.showLogs }
