package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/tshell/internal/commands"
)

type fakeRunner struct {
	calls  []string
	dir    string
	stdout string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args []string) ([]byte, []byte, error) {
	f.calls = append(f.calls, fmt.Sprintf("%s %v", name, args))
	f.dir = dir
	return []byte(f.stdout), nil, f.err
}

func TestBuiltinsRunBeforeExternal(t *testing.T) {
	runner := &fakeRunner{}
	ex := NewExecutor(commands.NewRegistry(commands.Builtins(commands.Hooks{})...), runner, nil)
	var out bytes.Buffer
	require.NoError(t, ex.Execute(context.Background(), &out, "  hello  "))
	require.Contains(t, out.String(), "Hello from tshell!")
	require.Empty(t, runner.calls)

	require.NoError(t, ex.Execute(context.Background(), &out, "   "))
	require.Empty(t, runner.calls)
}

func TestExternalOutputAndDir(t *testing.T) {
	runner := &fakeRunner{stdout: "a.txt"}
	ex := NewExecutor(commands.NewRegistry(), runner, nil)
	ex.Dir = func() string { return "/work" }
	var out bytes.Buffer
	require.NoError(t, ex.Execute(context.Background(), &out, "ls -la"))
	require.Equal(t, []string{"ls [-la]"}, runner.calls)
	require.Equal(t, "/work", runner.dir)
	require.Equal(t, "a.txt\n", out.String())
}

func TestNotFoundSuggests(t *testing.T) {
	runner := &fakeRunner{err: fmt.Errorf("hlep: %w", ErrCommandNotFound)}
	ex := NewExecutor(commands.NewRegistry(commands.Builtins(commands.Hooks{})...), runner, nil)
	var out bytes.Buffer
	err := ex.Execute(context.Background(), &out, "hlep me")
	require.True(t, errors.Is(err, ErrCommandNotFound))
	require.Contains(t, out.String(), "command not found: hlep")
	require.Contains(t, out.String(), "did you mean: help?")
}

func TestBuiltinErrorIsReported(t *testing.T) {
	ex := NewExecutor(commands.NewRegistry(commands.Builtins(commands.Hooks{})...), &fakeRunner{}, nil)
	var out bytes.Buffer
	err := ex.Execute(context.Background(), &out, "cd")
	require.True(t, errors.Is(err, commands.ErrUsage))
	require.Contains(t, out.String(), "error: usage: cd <path>")
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, _, err := ExecRunner{}.Run(context.Background(), "", "definitely-not-a-real-binary-xyz", nil)
	require.True(t, errors.Is(err, ErrCommandNotFound))
}

func TestBuiltinSkipsUnknownNames(t *testing.T) {
	ex := NewExecutor(commands.NewRegistry(commands.Builtins(commands.Hooks{})...), &fakeRunner{}, nil)
	var out bytes.Buffer
	ok, err := ex.Builtin(&out, "ls -la")
	require.False(t, ok)
	require.NoError(t, err)
	require.Empty(t, out.String())

	ok, err = ex.Builtin(&out, "h")
	require.True(t, ok)
	require.NoError(t, err)
	require.Contains(t, out.String(), "hello")
}
