package commands

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jask/tshell/internal/theme"
)

// ErrUsage is returned when a built-in gets the wrong arguments.
var ErrUsage = errors.New("usage")

// ClearSequence erases a plain terminal and homes the cursor.
const ClearSequence = "\x1b[2J\x1b[1;1H"

// Hooks lets the host decide what cd and clear act on. Nil fields fall back
// to the process working directory and ClearSequence.
type Hooks struct {
	Chdir  func(dir string) error
	Clear  func(env Env)
	Prompt *theme.Prompt
}

// Builtins returns cd, clear, hello and help, plus theme when a prompt is set.
func Builtins(h Hooks) []Command {
	chdir := h.Chdir
	if chdir == nil {
		chdir = os.Chdir
	}
	clearFn := h.Clear
	if clearFn == nil {
		clearFn = func(env Env) { fmt.Fprint(env.Out, ClearSequence) }
	}

	cmds := []Command{
		{
			Name:        "cd",
			Description: "Change the current directory.",
			Usage:       "cd <path>",
			Run: func(env Env, args []string) error {
				if len(args) == 0 {
					return fmt.Errorf("%w: cd <path>", ErrUsage)
				}
				if err := chdir(args[0]); err != nil {
					return fmt.Errorf("cd: %w", err)
				}
				return nil
			},
		},
		{
			Name:        "clear",
			Description: "Clear the terminal screen.",
			Aliases:     []string{"cls"},
			Run: func(env Env, _ []string) error {
				clearFn(env)
				return nil
			},
		},
		{
			Name:        "hello",
			Description: "Print a greeting.",
			Run: func(env Env, _ []string) error {
				fmt.Fprintln(env.Out, "Hello from tshell!")
				return nil
			},
		},
		{
			Name:        "help",
			Description: "List commands or describe one.",
			Usage:       "help [command]",
			Aliases:     []string{"h"},
			Run:         runHelp,
		},
	}
	if h.Prompt != nil {
		prompt := h.Prompt
		cmds = append(cmds, Command{
			Name:        "theme",
			Description: "Manage the prompt theme.",
			Usage:       "theme reload",
			Run: func(env Env, args []string) error {
				if len(args) == 0 || args[0] != "reload" {
					return fmt.Errorf("%w: theme reload", ErrUsage)
				}
				if err := prompt.Reload(); err != nil {
					return fmt.Errorf("could not reload theme: %w", err)
				}
				fmt.Fprintln(env.Out, "Theme reloaded.")
				return nil
			},
		})
	}
	return cmds
}

func runHelp(env Env, args []string) error {
	reg := env.Registry
	if len(args) > 0 {
		if c, ok := reg.Lookup(args[0]); ok {
			fmt.Fprintf(env.Out, "%s: %s\nUsage: %s\n", c.Name, c.Description, c.Usage)
			return nil
		}
		fmt.Fprintf(env.Out, "Unknown command: %s\n", args[0])
		if s, ok := reg.Suggest(args[0]); ok {
			fmt.Fprintf(env.Out, "Did you mean: %s?\n", s)
		}
		return nil
	}
	fmt.Fprintln(env.Out, "Available commands:")
	tw := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	for _, md := range reg.Metadata() {
		fmt.Fprintf(tw, "  %s\t%s\t(usage: %s)\n", md.Name, md.Description, md.Usage)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(env.Out, "\nTip: `help <command>` shows details.")
	return nil
}
