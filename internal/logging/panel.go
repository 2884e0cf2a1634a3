package logging

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultPanelSize is how many entries the log panel keeps.
const DefaultPanelSize = 500

// PanelHook keeps the most recent entries in memory for the log panel.
// logrus fires hooks from whichever goroutine logs, hence the lock.
type PanelHook struct {
	mu    sync.Mutex
	limit int
	lines []string
}

func NewPanelHook(limit int) *PanelHook {
	if limit <= 0 {
		limit = DefaultPanelSize
	}
	return &PanelHook{limit: limit}
}

func (h *PanelHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *PanelHook) Fire(e *logrus.Entry) error {
	line := fmt.Sprintf("%s [%s] %s", e.Time.Format("15:04:05"), levelTag(e.Level), e.Message)
	if err, ok := e.Data[logrus.ErrorKey].(error); ok {
		line += ": " + err.Error()
	}
	h.mu.Lock()
	h.lines = append(h.lines, line)
	if over := len(h.lines) - h.limit; over > 0 {
		h.lines = append(h.lines[:0], h.lines[over:]...)
	}
	h.mu.Unlock()
	return nil
}

// Lines returns a copy of the buffered entries, oldest first.
func (h *PanelHook) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.lines...)
}

func (h *PanelHook) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.lines)
}

func (h *PanelHook) Clear() {
	h.mu.Lock()
	h.lines = nil
	h.mu.Unlock()
}

func levelTag(l logrus.Level) string {
	switch l {
	case logrus.DebugLevel, logrus.TraceLevel:
		return "DEBUG"
	case logrus.WarnLevel:
		return "WARN"
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return "ERROR"
	default:
		return "INFO"
	}
}
