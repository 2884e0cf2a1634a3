package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
	colorMuted   = colorSubtext0
	colorBorder  = colorSurface2
	colorTabOff  = colorOverlay1
)

var (
	headerAppStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Background(colorMantle)
	headerBarStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorMantle)
	clockStyle     = lipgloss.NewStyle().Foreground(colorMuted).Background(colorMantle)

	statusBarStyle    = lipgloss.NewStyle().Foreground(colorSuccess).Background(colorSurface0)
	statusErrBarStyle = lipgloss.NewStyle().Foreground(colorError).Background(colorSurface0)
	footerStyle       = lipgloss.NewStyle().Background(colorMantle)

	activeTabStyle = lipgloss.NewStyle().
			Background(colorSurface0).
			Foreground(colorAccent).
			Bold(true).
			Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().
				Background(colorMantle).
				Foreground(colorTabOff).
				Padding(0, 1)
	dirtyMarkStyle = lipgloss.NewStyle().Foreground(colorWarning)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)
	paneFocusStyle = paneStyle.BorderForeground(colorFocus)
	paneTitleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	dirStyle      = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	fileStyle     = lipgloss.NewStyle().Foreground(colorText)
	selectedStyle = lipgloss.NewStyle().Background(colorSurface1).Foreground(colorText).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)

	gutterStyle     = lipgloss.NewStyle().Foreground(colorOverlay0)
	gutterCurStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	cursorStyle     = lipgloss.NewStyle().Reverse(true)
	matchStyle      = lipgloss.NewStyle().Background(colorYellow).Foreground(colorMantle)
	modeStyle       = lipgloss.NewStyle().Foreground(colorMantle).Background(colorFocus).Bold(true).Padding(0, 1)
	editorInfoStyle = lipgloss.NewStyle().Foreground(colorMuted)

	logTitleStyle = lipgloss.NewStyle().Foreground(colorInfo).Bold(true)
	logWarnStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	logErrStyle   = lipgloss.NewStyle().Foreground(colorError)

	menuKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	menuTextStyle = lipgloss.NewStyle().Foreground(colorText)
	popupStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)
)
