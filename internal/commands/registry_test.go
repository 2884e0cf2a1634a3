package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/tshell/internal/theme"
)

func newTestRegistry(h Hooks) *Registry {
	return NewRegistry(Builtins(h)...)
}

func TestSuggest(t *testing.T) {
	reg := newTestRegistry(Hooks{})
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"hlep", "help", true},
		{"helo", "hello", true},
		{"cdd", "cd", true},
		{"zzzzz", "", false},
	}
	for _, tc := range cases {
		got, ok := reg.Suggest(tc.in)
		require.Equal(t, tc.ok, ok, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestSuggestTieBreaksLexicographically(t *testing.T) {
	reg := NewRegistry(Command{Name: "bat"}, Command{Name: "cat"}, Command{Name: "ant"})
	got, ok := reg.Suggest("xat")
	require.True(t, ok)
	require.Equal(t, "bat", got)
}

func TestExecuteResolvesAliases(t *testing.T) {
	var cleared int
	reg := newTestRegistry(Hooks{Clear: func(Env) { cleared++ }})
	var out bytes.Buffer

	ok, err := reg.Execute(&out, "cls", nil)
	require.True(t, ok)
	require.NoError(t, err)
	require.Equal(t, 1, cleared)

	ok, err = reg.Execute(&out, "nope", nil)
	require.False(t, ok)
	require.NoError(t, err)

	ok, err = reg.Execute(&out, "hello", nil)
	require.True(t, ok)
	require.NoError(t, err)
	require.Contains(t, out.String(), "Hello from tshell!")
}

func TestRegisterOverwrites(t *testing.T) {
	reg := NewRegistry(Command{Name: "x", Description: "first"}, Command{Name: "x", Description: "second"})
	md := reg.Metadata()
	require.Len(t, md, 1)
	require.Equal(t, "second", md[0].Description)
	require.Equal(t, "x", md[0].Usage)
}

func TestHelp(t *testing.T) {
	reg := newTestRegistry(Hooks{})
	var out bytes.Buffer
	_, err := reg.Execute(&out, "h", nil)
	require.NoError(t, err)
	for _, name := range reg.Names() {
		require.Contains(t, out.String(), name)
	}

	out.Reset()
	_, err = reg.Execute(&out, "help", []string{"cd"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage: cd <path>")

	out.Reset()
	_, err = reg.Execute(&out, "help", []string{"hlep"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Did you mean: help?")
}

func TestCdUsesHook(t *testing.T) {
	var got string
	reg := newTestRegistry(Hooks{Chdir: func(d string) error { got = d; return nil }})
	_, err := reg.Execute(&bytes.Buffer{}, "cd", []string{"src"})
	require.NoError(t, err)
	require.Equal(t, "src", got)

	_, err = reg.Execute(&bytes.Buffer{}, "cd", nil)
	require.True(t, errors.Is(err, ErrUsage))
}

func TestThemeReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.toml")
	body := "[shell]\ncolor = \"red\"\n[path]\ncolor = \"blue\"\n[time]\ncolor = \"cyan\"\n[symbol]\ncolor = \"green\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	prompt := theme.NewPrompt(path)
	reg := newTestRegistry(Hooks{Prompt: prompt})

	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(body, "red", "yellow", 1)), 0o644))
	var out bytes.Buffer
	_, err := reg.Execute(&out, "theme", []string{"reload"})
	require.NoError(t, err)
	require.Equal(t, theme.ParseColor("yellow"), prompt.Theme().Shell)

	_, err = reg.Execute(&out, "theme", nil)
	require.True(t, errors.Is(err, ErrUsage))
}
