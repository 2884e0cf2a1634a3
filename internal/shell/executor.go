// Package shell runs one input line: a registered built-in when the name
// resolves, an external program otherwise.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jask/tshell/internal/commands"
)

// ErrCommandNotFound is returned when neither a built-in nor a program on PATH
// matches the command name.
var ErrCommandNotFound = errors.New("command not found")

// Runner starts external programs.
type Runner interface {
	Run(ctx context.Context, dir, name string, args []string) (stdout, stderr []byte, err error)
}

// ExecRunner runs programs with os/exec and waits for them to finish.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args []string) ([]byte, []byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, ErrCommandNotFound)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err := cmd.Run()
	return out.Bytes(), errOut.Bytes(), err
}

type Executor struct {
	Registry *commands.Registry
	Runner   Runner
	Log      logrus.FieldLogger
	// Dir returns the working directory for external programs. Nil means the
	// process working directory.
	Dir func() string
}

func NewExecutor(reg *commands.Registry, runner Runner, log logrus.FieldLogger) *Executor {
	if runner == nil {
		runner = ExecRunner{}
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Executor{Registry: reg, Runner: runner, Log: log}
}

// Execute runs line and writes everything the user should see to w. The
// returned error is for logging; it has already been reported on w.
func (e *Executor) Execute(ctx context.Context, w io.Writer, line string) error {
	if ok, err := e.Builtin(w, line); ok {
		return err
	}
	dir := ""
	if e.Dir != nil {
		dir = e.Dir()
	}
	return e.External(ctx, w, dir, line)
}

// Builtin runs line when its first word names a registered command. It
// reports false for blank lines and unknown names.
func (e *Executor) Builtin(w io.Writer, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true, nil
	}
	if e.Registry == nil {
		return false, nil
	}
	name, args := fields[0], fields[1:]
	ok, err := e.Registry.Execute(w, name, args)
	if ok && err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		e.Log.WithError(err).WithField("cmd", name).Warn("builtin failed")
	}
	return ok, err
}

// External runs line as a program in dir. It touches nothing but w and the
// runner, so it is safe to call off the UI goroutine.
func (e *Executor) External(ctx context.Context, w io.Writer, dir, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]
	stdout, stderr, err := e.Runner.Run(ctx, dir, name, args)
	if len(stdout) > 0 {
		writeBlock(w, stdout)
	}
	if len(stderr) > 0 {
		writeBlock(w, stderr)
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrCommandNotFound):
		fmt.Fprintf(w, "command not found: %s\n", name)
		if s, ok := e.suggest(name); ok {
			fmt.Fprintf(w, "did you mean: %s?\n", s)
		}
		e.Log.WithField("cmd", name).Info("unknown command")
		return fmt.Errorf("%s: %w", name, ErrCommandNotFound)
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintf(w, "%s exited with status %d\n", name, exitErr.ExitCode())
		} else {
			fmt.Fprintf(w, "%s: %v\n", name, err)
		}
		e.Log.WithError(err).WithField("cmd", name).Warn("external command failed")
		return err
	}
}

func (e *Executor) suggest(name string) (string, bool) {
	if e.Registry == nil {
		return "", false
	}
	return e.Registry.Suggest(name)
}

func writeBlock(w io.Writer, b []byte) {
	_, _ = w.Write(b)
	if b[len(b)-1] != '\n' {
		_, _ = io.WriteString(w, "\n")
	}
}
