package tui

type Screen int

const (
	ScreenHome Screen = iota
	ScreenShell
	ScreenExplorer
	ScreenEditor
	ScreenWorkspace
)

func (s Screen) String() string {
	switch s {
	case ScreenShell:
		return "Shell"
	case ScreenExplorer:
		return "Explorer"
	case ScreenEditor:
		return "Editor"
	case ScreenWorkspace:
		return "Workspace"
	default:
		return "Home"
	}
}

// ParseScreen maps a config value to a screen; unknown names mean Home.
func ParseScreen(name string) Screen {
	switch name {
	case "shell":
		return ScreenShell
	case "explorer":
		return ScreenExplorer
	case "editor":
		return ScreenEditor
	case "workspace":
		return ScreenWorkspace
	default:
		return ScreenHome
	}
}

// Focus picks the active pane of the workspace.
type Focus int

const (
	FocusExplorer Focus = iota
	FocusEditor
)

type Overlay int

const (
	OverlayNone Overlay = iota
	// OverlayHelp swallows exactly one key, whatever it is, then closes.
	OverlayHelp
	// OverlayInput is modal until Enter or Esc.
	OverlayInput
)

type InputKind int

const (
	InputNewEntry InputKind = iota
	InputRenameEntry
	InputDeleteConfirm
	InputSearchText
	InputGotoLine
)

func (k InputKind) Title() string {
	switch k {
	case InputNewEntry:
		return "New file (end with / for a directory)"
	case InputRenameEntry:
		return "Rename"
	case InputDeleteConfirm:
		return "Delete? (y/N)"
	case InputSearchText:
		return "Search"
	case InputGotoLine:
		return "Go to line"
	default:
		return ""
	}
}

// InputOverlay is the pending request and its text.
type InputOverlay struct {
	Kind   InputKind
	Buffer string
}
