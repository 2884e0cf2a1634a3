package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
)

const maxOutputLines = 2000

// terminal is the shell pane: an input line with history and a scrollback.
type terminal struct {
	input   textinput.Model
	output  []string
	scroll  int // lines scrolled back from the bottom
	history []string
	histIdx int
	draft   string
}

func newTerminal() *terminal {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "type a command, or :h for help"
	ti.CharLimit = 4096
	ti.Focus()
	return &terminal{input: ti}
}

func (t *terminal) appendOutput(text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}
	t.output = append(t.output, strings.Split(text, "\n")...)
	if over := len(t.output) - maxOutputLines; over > 0 {
		t.output = append(t.output[:0], t.output[over:]...)
	}
	t.scroll = 0
}

func (t *terminal) clearOutput() {
	t.output = nil
	t.scroll = 0
}

func (t *terminal) scrollUp(n int) {
	t.scroll = min(t.scroll+n, max(0, len(t.output)-1))
}

func (t *terminal) scrollDown(n int) {
	t.scroll = max(0, t.scroll-n)
}

func (t *terminal) setHistory(lines []string) {
	t.history = append([]string(nil), lines...)
	t.histIdx = len(t.history)
}

// pushHistory records line unless it repeats the previous entry.
func (t *terminal) pushHistory(line string) bool {
	t.histIdx = len(t.history)
	if line == "" || (len(t.history) > 0 && t.history[len(t.history)-1] == line) {
		return false
	}
	t.history = append(t.history, line)
	t.histIdx = len(t.history)
	return true
}

func (t *terminal) historyPrev() {
	if len(t.history) == 0 || t.histIdx == 0 {
		return
	}
	if t.histIdx == len(t.history) {
		t.draft = t.input.Value()
	}
	t.histIdx--
	t.input.SetValue(t.history[t.histIdx])
	t.input.CursorEnd()
}

func (t *terminal) historyNext() {
	if t.histIdx >= len(t.history) {
		return
	}
	t.histIdx++
	if t.histIdx == len(t.history) {
		t.input.SetValue(t.draft)
	} else {
		t.input.SetValue(t.history[t.histIdx])
	}
	t.input.CursorEnd()
}

// take returns the trimmed input and resets the line.
func (t *terminal) take() string {
	line := strings.TrimSpace(t.input.Value())
	t.input.Reset()
	t.draft = ""
	return line
}

// visible returns the last height lines, honoring the scroll offset.
func (t *terminal) visible(height int) []string {
	if height <= 0 {
		return nil
	}
	end := len(t.output) - t.scroll
	start := max(0, end-height)
	return t.output[start:end]
}
