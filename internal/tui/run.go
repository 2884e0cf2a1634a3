package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full-screen program and blocks until it quits. The
// terminal is restored by bubbletea on every exit path, panics included.
func Run(d Deps) error {
	m := New(d)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		err = nil
	}
	if fm, ok := final.(Model); ok {
		fm.warnUnsaved()
	}
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	m.log.Info("tui stopped")
	return nil
}

func (m Model) warnUnsaved() {
	unsaved := m.tabs.Unsaved()
	if len(unsaved) == 0 {
		return
	}
	titles := make([]string, 0, len(unsaved))
	for _, d := range unsaved {
		titles = append(titles, d.Title())
	}
	m.log.WithField("tabs", titles).Warn("quit with unsaved changes")
}
