package tui

import "testing"

func TestKeyRegistryLookupByScope(t *testing.T) {
	r := NewKeyRegistry()

	save := r.Lookup("ctrl+s", scopeWorkspaceEditor, scopeEditorShortcuts)
	if save == nil || save.Action != actionSave {
		t.Fatalf("ctrl+s in editor = %v, want save", save)
	}
	if got := r.Lookup("ctrl+s", scopeExplorer); got != nil {
		t.Fatalf("did not expect ctrl+s in explorer, got %q", got.Action)
	}

	quit := r.Lookup("ctrl+c", scopeExplorer)
	if quit == nil || quit.Action != actionQuit {
		t.Fatal("ctrl+c should quit from any scope")
	}
}

func TestKeyRegistryCaseMatters(t *testing.T) {
	r := NewKeyRegistry()
	if b := r.Lookup("n", scopeEditorNormal); b == nil || b.Action != actionNextMatch {
		t.Fatalf("n = %v, want next match", b)
	}
	if b := r.Lookup("N", scopeEditorNormal); b == nil || b.Action != actionPrevMatch {
		t.Fatalf("N = %v, want prev match", b)
	}
	if b := r.Lookup("Enter", scopeInput); b == nil || b.Action != actionConfirm {
		t.Fatalf("Enter = %v, want confirm", b)
	}
}

func TestKeyRegistryFirstBindingWins(t *testing.T) {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}
	r.Register(Binding{Action: actionSave, Keys: []string{"x"}, Help: "first", Scopes: []string{"a"}})
	r.Register(Binding{Action: actionUndo, Keys: []string{"x"}, Help: "second", Scopes: []string{"a"}})
	r.Register(Binding{Action: actionUndo, Keys: []string{"x"}, Help: "other scope", Scopes: []string{"b"}})

	if got := r.BindingsForScope("a"); len(got) != 1 || got[0].Action != actionSave {
		t.Fatalf("scope a = %+v", got)
	}
	if got := r.BindingsForScope("b"); len(got) != 1 || got[0].Action != actionUndo {
		t.Fatalf("scope b = %+v", got)
	}
}

func TestHelpBindingsUseFirstKey(t *testing.T) {
	r := NewKeyRegistry()
	bs := r.HelpBindings(scopeExplorer)
	if len(bs) == 0 {
		t.Fatal("explorer has no help bindings")
	}
	h := bs[0].Help()
	if h.Key != "j" || h.Desc != "down" {
		t.Fatalf("first help = %q %q, want j down", h.Key, h.Desc)
	}
}

func TestEveryRegisteredScopeIsRouted(t *testing.T) {
	routed := map[string]bool{
		scopeGlobal: true, scopeHome: true, scopeInput: true, scopeShell: true,
		scopeExplorer: true, scopeWorkspaceFiles: true, scopeEditorShortcuts: true,
		scopeWorkspaceEditor: true, scopeEditorNormal: true, scopeEditorInsert: true,
		scopeEditorCommand: true,
	}
	r := NewKeyRegistry()
	for scope, bs := range r.bindingsByScope {
		if !routed[scope] {
			t.Errorf("scope %q has bindings but is never looked up", scope)
		}
		for _, b := range bs {
			for _, k := range b.Keys {
				if got := r.Lookup(k, scope); got == nil || got.Action != b.Action {
					t.Errorf("%s: key %q does not resolve to %q", scope, k, b.Action)
				}
			}
		}
	}
}
