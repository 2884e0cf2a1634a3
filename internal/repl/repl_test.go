package repl

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/jask/tshell/internal/commands"
	"github.com/jask/tshell/internal/history"
	"github.com/jask/tshell/internal/shell"
	"github.com/jask/tshell/internal/theme"
)

type nopRunner struct{ names []string }

func (n *nopRunner) Run(_ context.Context, _, name string, _ []string) ([]byte, []byte, error) {
	n.names = append(n.names, name)
	return []byte("ran " + name), nil, nil
}

func newREPL(t *testing.T, input string) (*REPL, *bytes.Buffer, *history.Memory, *nopRunner) {
	t.Helper()
	var out bytes.Buffer
	runner := &nopRunner{}
	reg := commands.NewRegistry(commands.Builtins(commands.Hooks{})...)
	mem := history.NewMemory()
	return &REPL{
		In:      strings.NewReader(input),
		Out:     &out,
		Exec:    shell.NewExecutor(reg, runner, nil),
		Prompt:  theme.NewPrompt(filepath.Join(t.TempDir(), "missing.toml")),
		History: mem,
		Now:     func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) },
	}, &out, mem, runner
}

func TestRunStopsAtExit(t *testing.T) {
	r, out, mem, runner := newREPL(t, "hello\n\nuname\nexit\nnever\n")
	require.NoError(t, r.Run(context.Background()))

	text := ansi.Strip(out.String())
	require.Contains(t, text, banner)
	require.Contains(t, text, "Hello from tshell!")
	require.Contains(t, text, "ran uname")
	require.Contains(t, text, "12:00:00")
	require.Equal(t, []string{"uname"}, runner.names)

	got, err := mem.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, []string{"hello", "uname"}, got)
}

func TestRunEndsOnEOF(t *testing.T) {
	r, _, _, runner := newREPL(t, "uname")
	require.NoError(t, r.Run(context.Background()))
	require.Equal(t, []string{"uname"}, runner.names)
}

func TestRunHonoursCancel(t *testing.T) {
	r, _, _, _ := newREPL(t, "")
	pr, pw := io.Pipe()
	defer pw.Close()
	r.In = pr
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, r.Run(ctx))
}
