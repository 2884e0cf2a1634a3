package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

// KeyRegistry maps key names to actions per scope. The first binding of a key
// in a scope wins; lookups fall back to the global scope.
type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal          = "global"
	scopeHome            = "home"
	scopeInput           = "input"
	scopeShell           = "shell"
	scopeExplorer        = "explorer"
	scopeWorkspaceFiles  = "workspace_files"
	scopeEditorShortcuts = "editor_shortcuts"
	scopeWorkspaceEditor = "workspace_editor"
	scopeEditorNormal    = "editor_normal"
	scopeEditorInsert    = "editor_insert"
	scopeEditorCommand   = "editor_command"
)

const (
	actionQuit        Action = "quit"
	actionOpenShell   Action = "open_shell"
	actionOpenLogs    Action = "open_logs"
	actionOpenHelp    Action = "open_help"
	actionOpenWorkspc Action = "open_workspace"
	actionConfirm     Action = "confirm"
	actionCancel      Action = "cancel"
	actionDeleteBack  Action = "delete_back"
	actionSubmit      Action = "submit"
	actionScrollUp    Action = "scroll_up"
	actionScrollDown  Action = "scroll_down"
	actionLogsUp      Action = "logs_up"
	actionLogsDown    Action = "logs_down"
	actionHistoryPrev Action = "history_prev"
	actionHistoryNext Action = "history_next"
	actionClearOutput Action = "clear_output"
	actionMoveUp      Action = "move_up"
	actionMoveDown    Action = "move_down"
	actionMoveLeft    Action = "move_left"
	actionMoveRight   Action = "move_right"
	actionLineStart   Action = "line_start"
	actionLineEnd     Action = "line_end"
	actionGoUp        Action = "go_up"
	actionActivate    Action = "activate"
	actionToggleDots  Action = "toggle_hidden"
	actionNewEntry    Action = "new_entry"
	actionRename      Action = "rename"
	actionDelete      Action = "delete"
	actionBack        Action = "back"
	actionSwitchFocus Action = "switch_focus"
	actionSave        Action = "save"
	actionUndo        Action = "undo"
	actionRedo        Action = "redo"
	actionSearch      Action = "search"
	actionGotoLine    Action = "goto_line"
	actionNextMatch   Action = "next_match"
	actionPrevMatch   Action = "prev_match"
	actionCloseTab    Action = "close_tab"
	actionNextTab     Action = "next_tab"
	actionPrevTab     Action = "prev_tab"
	actionCopyLine    Action = "copy_line"
	actionPaste       Action = "paste"
	actionFullEditor  Action = "full_editor"
	actionNewline     Action = "newline"
	actionInsertMode  Action = "insert_mode"
	actionCommandMode Action = "command_mode"
	actionNormalMode  Action = "normal_mode"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	reg(scopeGlobal, actionQuit, []string{"ctrl+c"}, "quit")

	reg(scopeHome, actionOpenShell, []string{"1"}, "shell")
	reg(scopeHome, actionOpenLogs, []string{"2"}, "shell + logs")
	reg(scopeHome, actionOpenHelp, []string{"3"}, "help")
	reg(scopeHome, actionOpenWorkspc, []string{"5"}, "workspace")
	reg(scopeHome, actionQuit, []string{"4", "q"}, "quit")

	reg(scopeInput, actionConfirm, []string{"enter"}, "confirm")
	reg(scopeInput, actionCancel, []string{"esc"}, "cancel")
	reg(scopeInput, actionDeleteBack, []string{"backspace"}, "delete")

	reg(scopeShell, actionSubmit, []string{"enter"}, "run")
	reg(scopeShell, actionQuit, []string{"esc"}, "quit")
	reg(scopeShell, actionScrollUp, []string{"pgup"}, "scroll up")
	reg(scopeShell, actionScrollDown, []string{"pgdown"}, "scroll down")
	reg(scopeShell, actionLogsUp, []string{"shift+pgup", "shift+up"}, "logs up")
	reg(scopeShell, actionLogsDown, []string{"shift+pgdown", "shift+down"}, "logs down")
	reg(scopeShell, actionHistoryPrev, []string{"up"}, "history")
	reg(scopeShell, actionHistoryNext, []string{"down"}, "history")
	reg(scopeShell, actionClearOutput, []string{"ctrl+l"}, "clear")

	for _, scope := range []string{scopeExplorer, scopeWorkspaceFiles} {
		reg(scope, actionMoveDown, []string{"j", "down"}, "down")
		reg(scope, actionMoveUp, []string{"k", "up"}, "up")
		reg(scope, actionGoUp, []string{"h", "backspace", "left"}, "parent")
		reg(scope, actionActivate, []string{"l", "enter", "right"}, "open")
		reg(scope, actionToggleDots, []string{"."}, "hidden")
		reg(scope, actionNewEntry, []string{"N"}, "new")
		reg(scope, actionRename, []string{"R"}, "rename")
		reg(scope, actionDelete, []string{"delete"}, "delete")
		reg(scope, actionSwitchFocus, []string{"tab"}, "editor")
		reg(scope, actionBack, []string{"q", "esc"}, "home")
	}

	reg(scopeEditorShortcuts, actionSave, []string{"ctrl+s"}, "save")
	reg(scopeEditorShortcuts, actionUndo, []string{"ctrl+z"}, "undo")
	reg(scopeEditorShortcuts, actionRedo, []string{"ctrl+y"}, "redo")
	reg(scopeEditorShortcuts, actionSearch, []string{"ctrl+f"}, "find")
	reg(scopeEditorShortcuts, actionGotoLine, []string{"ctrl+g"}, "goto")
	reg(scopeEditorShortcuts, actionNextMatch, []string{"ctrl+n"}, "next match")
	reg(scopeEditorShortcuts, actionPrevMatch, []string{"ctrl+p"}, "prev match")
	reg(scopeEditorShortcuts, actionCloseTab, []string{"ctrl+w"}, "close tab")
	reg(scopeEditorShortcuts, actionNextTab, []string{"ctrl+pgdown", "alt+right", "f6"}, "next tab")
	reg(scopeEditorShortcuts, actionPrevTab, []string{"ctrl+pgup", "alt+left", "f5"}, "prev tab")
	reg(scopeEditorShortcuts, actionCopyLine, []string{"ctrl+k"}, "copy line")
	reg(scopeEditorShortcuts, actionPaste, []string{"ctrl+v"}, "paste")

	registerMotion := func(scope string) {
		reg(scope, actionMoveUp, []string{"up"}, "up")
		reg(scope, actionMoveDown, []string{"down"}, "down")
		reg(scope, actionMoveLeft, []string{"left"}, "left")
		reg(scope, actionMoveRight, []string{"right"}, "right")
		reg(scope, actionLineStart, []string{"home"}, "line start")
		reg(scope, actionLineEnd, []string{"end"}, "line end")
	}

	reg(scopeWorkspaceEditor, actionFullEditor, []string{"ctrl+e"}, "full editor")
	reg(scopeWorkspaceEditor, actionSwitchFocus, []string{"tab", "esc"}, "files")
	reg(scopeWorkspaceEditor, actionNewline, []string{"enter"}, "newline")
	reg(scopeWorkspaceEditor, actionDeleteBack, []string{"backspace"}, "delete")
	registerMotion(scopeWorkspaceEditor)

	reg(scopeEditorNormal, actionInsertMode, []string{"i"}, "insert")
	reg(scopeEditorNormal, actionCommandMode, []string{":"}, "command")
	reg(scopeEditorNormal, actionNextMatch, []string{"n"}, "next match")
	reg(scopeEditorNormal, actionPrevMatch, []string{"N"}, "prev match")
	reg(scopeEditorNormal, actionBack, []string{"tab", "esc"}, "workspace")
	reg(scopeEditorNormal, actionMoveLeft, []string{"h"}, "left")
	reg(scopeEditorNormal, actionMoveDown, []string{"j"}, "down")
	reg(scopeEditorNormal, actionMoveUp, []string{"k"}, "up")
	reg(scopeEditorNormal, actionMoveRight, []string{"l"}, "right")
	reg(scopeEditorNormal, actionLineStart, []string{"0"}, "line start")
	reg(scopeEditorNormal, actionLineEnd, []string{"$"}, "line end")
	registerMotion(scopeEditorNormal)

	reg(scopeEditorInsert, actionNormalMode, []string{"esc"}, "normal")
	reg(scopeEditorInsert, actionNewline, []string{"enter"}, "newline")
	reg(scopeEditorInsert, actionDeleteBack, []string{"backspace"}, "delete")
	registerMotion(scopeEditorInsert)

	reg(scopeEditorCommand, actionSubmit, []string{"enter"}, "run")
	reg(scopeEditorCommand, actionCancel, []string{"esc"}, "cancel")
	reg(scopeEditorCommand, actionDeleteBack, []string{"backspace"}, "delete")

	return r
}

func (r *KeyRegistry) Register(b Binding) {
	if r == nil {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" || len(b.Keys) == 0 {
			continue
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		normKeys := normalizeKeyList(b.Keys)
		if len(normKeys) == 0 || r.scopeHasAnyKey(scope, normKeys) {
			continue
		}

		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

// Lookup resolves keyName in the given scopes, in order, then globally.
func (r *KeyRegistry) Lookup(keyName string, scopes ...string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	for _, scope := range scopes {
		if b := r.lookupInScope(keyName, scope); b != nil {
			return b
		}
	}
	return r.lookupInScope(keyName, scopeGlobal)
}

// HelpBindings converts a scope's bindings for bubbles/help.
func (r *KeyRegistry) HelpBindings(scopes ...string) []key.Binding {
	var out []key.Binding
	for _, scope := range scopes {
		for _, b := range r.BindingsForScope(scope) {
			out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
		}
	}
	return out
}

func (r *KeyRegistry) lookupInScope(keyName, scope string) *Binding {
	if scope == "" {
		return nil
	}
	lookup, ok := r.indexByScope[scope]
	if !ok {
		return nil
	}
	return lookup[keyName]
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		ch := trimmed[0]
		if ch >= 'A' && ch <= 'Z' {
			// N and n are different actions.
			return trimmed
		}
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	return s
}
