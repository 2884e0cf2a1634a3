// Package repl is the line-oriented prompt used when stdin is not a terminal
// or when the plain mode is requested.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jask/tshell/internal/history"
	"github.com/jask/tshell/internal/logging"
	"github.com/jask/tshell/internal/shell"
	"github.com/jask/tshell/internal/theme"
)

const banner = "Welcome to tshell. Type `help` for commands, `exit` to quit."

type REPL struct {
	In      io.Reader
	Out     io.Writer
	Exec    *shell.Executor
	Prompt  *theme.Prompt
	History history.Store
	Log     logrus.FieldLogger
	Now     func() time.Time
}

type readResult struct {
	line string
	err  error
	eof  bool
}

// Run loops until exit, end of input or ctx cancellation.
func (r *REPL) Run(ctx context.Context) error {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	if r.Log == nil {
		r.Log = logging.Discard()
	}
	fmt.Fprintln(r.Out, banner)

	lines := make(chan readResult, 1)
	next := make(chan struct{})
	go r.read(lines, next)
	defer close(next)

	for {
		cwd, _ := os.Getwd()
		if r.Prompt != nil {
			fmt.Fprint(r.Out, r.Prompt.Render(now(), cwd))
		}

		var res readResult
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.Out)
			return nil
		case res = <-lines:
		}
		if res.eof {
			fmt.Fprintln(r.Out)
			return nil
		}
		if res.err != nil {
			fmt.Fprintf(r.Out, "read error: %v\n", res.err)
			r.Log.WithError(res.err).Warn("prompt read failed")
			next <- struct{}{}
			continue
		}

		line := strings.TrimSpace(res.line)
		switch {
		case line == "":
		case line == "exit":
			return nil
		default:
			if r.History != nil {
				if err := r.History.Append(ctx, history.SourceREPL, line); err != nil {
					r.Log.WithError(err).Warn("history append failed")
				}
			}
			_ = r.Exec.Execute(ctx, r.Out, line)
		}
		next <- struct{}{}
	}
}

// maxReadErrors ends the loop when input keeps failing.
const maxReadErrors = 3

// read hands one line at a time to Run and waits for it to be consumed, so
// nothing is read past "exit".
func (r *REPL) read(out chan<- readResult, next <-chan struct{}) {
	sc := bufio.NewScanner(r.In)
	failures := 0
	for {
		var res readResult
		switch {
		case sc.Scan():
			res.line = sc.Text()
			failures = 0
		case sc.Err() != nil:
			res.err = sc.Err()
			failures++
			// a scanner stops for good after an error
			sc = bufio.NewScanner(r.In)
		default:
			res.eof = true
		}
		if failures > maxReadErrors {
			res = readResult{eof: true}
		}
		out <- res
		if res.eof {
			return
		}
		if _, ok := <-next; !ok {
			return
		}
	}
}
