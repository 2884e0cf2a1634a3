package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "dev"

type options struct {
	root   string
	config string
	debug  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:     "tshell",
		Short:   "A terminal shell with a file explorer and a tabbed editor",
		Long:    "tshell runs a full-screen shell, explorer and editor when attached to a terminal, and a plain prompt otherwise.",
		Version: version,
		Args:    cobra.NoArgs,
		// Errors are printed once by main.
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
				return runTUI(cmd.Context(), opts)
			}
			return runREPL(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.root, "root", "", "directory the explorer and editor are confined to (default $HOME)")
	root.PersistentFlags().StringVar(&opts.config, "config", "", "config file (default $TSHELL_CONFIG or ~/.config/tshell/config.toml)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "log at debug level")

	root.AddCommand(&cobra.Command{
		Use:   "tui",
		Short: "Run the full-screen interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "repl",
		Short: "Run the plain line prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd.Context(), opts)
		},
	})
	return root
}
