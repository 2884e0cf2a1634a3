// Package theme loads prompt colors from a TOML file and renders the prompt.
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
)

// DefaultPath is where the theme file is looked up relative to the working
// directory.
const DefaultPath = "config/theme.toml"

// ShellName is the first prompt segment.
const ShellName = "tshell>"

// Theme holds one color per prompt segment.
type Theme struct {
	Shell  lipgloss.Color
	Path   lipgloss.Color
	Time   lipgloss.Color
	Symbol lipgloss.Color
}

// ANSI palette indices so the prompt follows the terminal's own color scheme.
var namedColors = map[string]lipgloss.Color{
	"black":         "0",
	"red":           "1",
	"green":         "2",
	"yellow":        "3",
	"blue":          "4",
	"magenta":       "5",
	"cyan":          "6",
	"white":         "7",
	"brightblack":   "8",
	"brightred":     "9",
	"brightgreen":   "10",
	"brightyellow":  "11",
	"brightblue":    "12",
	"brightmagenta": "13",
	"brightcyan":    "14",
	"brightwhite":   "15",
}

func Default() Theme {
	return Theme{
		Shell:  namedColors["brightgreen"],
		Path:   namedColors["brightblue"],
		Time:   namedColors["brightyellow"],
		Symbol: namedColors["brightmagenta"],
	}
}

// ParseColor maps a color name to its palette entry. Hex values are passed
// through; anything else is white.
func ParseColor(name string) lipgloss.Color {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := namedColors[name]; ok {
		return c
	}
	if strings.HasPrefix(name, "#") && (len(name) == 7 || len(name) == 4) {
		return lipgloss.Color(name)
	}
	return namedColors["white"]
}

// Load parses a theme file with [shell], [path], [time] and [symbol] tables,
// each carrying a color key. All four tables are required.
func Load(path string) (Theme, error) {
	if _, err := os.Stat(path); err != nil {
		return Theme{}, fmt.Errorf("theme %s: %w", path, err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return Theme{}, fmt.Errorf("parse theme %s: %w", path, err)
	}
	for _, section := range []string{"shell", "path", "time", "symbol"} {
		if !v.IsSet(section + ".color") {
			return Theme{}, fmt.Errorf("theme %s: missing [%s] color", path, section)
		}
	}
	return Theme{
		Shell:  ParseColor(v.GetString("shell.color")),
		Path:   ParseColor(v.GetString("path.color")),
		Time:   ParseColor(v.GetString("time.color")),
		Symbol: ParseColor(v.GetString("symbol.color")),
	}, nil
}

// Prompt is the shared, reloadable prompt theme. It is read by the renderer and
// replaced by the theme command, so access goes through the lock.
type Prompt struct {
	mu    sync.Mutex
	path  string
	theme Theme
}

// NewPrompt loads path, falling back to the default colors when the file is
// missing or invalid.
func NewPrompt(path string) *Prompt {
	if path == "" {
		path = DefaultPath
	}
	t, err := Load(path)
	if err != nil {
		t = Default()
	}
	return &Prompt{path: path, theme: t}
}

// Reload re-reads the theme file. On error the current theme is kept.
func (p *Prompt) Reload() error {
	p.mu.Lock()
	path := p.path
	p.mu.Unlock()

	t, err := Load(path)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.theme = t
	p.mu.Unlock()
	return nil
}

func (p *Prompt) Theme() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.theme
}

func (p *Prompt) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

// Render builds "tshell> • <dir> <HH:MM:SS> " with each segment colored.
func (p *Prompt) Render(now time.Time, cwd string) string {
	t := p.Theme()
	dir := filepath.Base(cwd)
	if cwd == "" {
		dir = "?"
	}
	seg := func(c lipgloss.Color, s string) string {
		return lipgloss.NewStyle().Foreground(c).Render(s)
	}
	return fmt.Sprintf("%s %s %s %s ",
		seg(t.Shell, ShellName),
		seg(t.Symbol, "•"),
		seg(t.Path, dir),
		seg(t.Time, now.Format("15:04:05")),
	)
}
