package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/jask/tshell/internal/commands"
	"github.com/jask/tshell/internal/config"
	"github.com/jask/tshell/internal/explorer"
	"github.com/jask/tshell/internal/history"
	"github.com/jask/tshell/internal/logging"
	"github.com/jask/tshell/internal/repl"
	"github.com/jask/tshell/internal/shell"
	"github.com/jask/tshell/internal/theme"
	"github.com/jask/tshell/internal/tui"
)

// runtime is everything both front ends share.
type runtime struct {
	cfg     config.Config
	log     *logrus.Logger
	panel   *logging.PanelHook
	prompt  *theme.Prompt
	history history.Store
	closers []io.Closer
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			r.log.WithError(err).Warn("close failed")
		}
	}
}

// loadConfig reads the config file and applies the flags. On first run with
// the default location a config with the defaults is written for the user to
// edit; seedErr reports a failed write, which is not fatal.
func loadConfig(opts options) (cfg config.Config, seedErr error, err error) {
	path := opts.config
	if path == "" {
		path = config.Path()
	}
	cfg, err = config.LoadFile(path)
	if err != nil {
		return cfg, nil, err
	}
	if _, statErr := os.Stat(path); statErr != nil && opts.config == "" {
		if err := config.Save(path, cfg); err != nil {
			seedErr = fmt.Errorf("write default config %s: %w", path, err)
		}
	}
	if opts.root != "" {
		cfg.Explorer.Root = opts.root
	}
	return cfg, seedErr, nil
}

func setup(opts options) (*runtime, error) {
	cfg, seedErr, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	log, closer, err := logging.New(logging.Options{Path: cfg.Log.Path, Level: cfg.Log.Level, Debug: opts.debug})
	if err != nil {
		return nil, err
	}
	rt := &runtime{
		cfg:     cfg,
		log:     log,
		panel:   logging.NewPanelHook(logging.DefaultPanelSize),
		prompt:  theme.NewPrompt(cfg.Theme.Path),
		closers: []io.Closer{closer},
	}
	log.AddHook(rt.panel)
	if seedErr != nil {
		log.WithError(seedErr).Warn("continuing without a config file")
	}

	if _, err := theme.Load(cfg.Theme.Path); err != nil {
		log.WithError(err).Info("using the default theme")
	}

	db, err := history.Open(cfg.History.Path)
	if err != nil {
		log.WithError(err).Warn("history database unavailable, keeping history in memory")
		rt.history = history.NewMemory()
	} else {
		rt.history = db
		rt.closers = append(rt.closers, db)
	}
	return rt, nil
}

func runTUI(ctx context.Context, opts options) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	var watcher *explorer.Watcher
	if rt.cfg.Explorer.Watch {
		watcher, err = explorer.NewWatcher()
		if err != nil {
			rt.log.WithError(err).Warn("file watching disabled")
		} else {
			rt.closers = append(rt.closers, watcher)
		}
	}

	err = tui.Run(tui.Deps{
		Ctx:     ctx,
		Config:  rt.cfg,
		Log:     rt.log,
		Panel:   rt.panel,
		Prompt:  rt.prompt,
		History: rt.history,
		Watcher: watcher,
	})
	if err != nil {
		rt.log.WithError(err).Error("tui exited with an error")
	}
	return err
}

func runREPL(ctx context.Context, opts options) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	reg := commands.NewRegistry(commands.Builtins(commands.Hooks{Prompt: rt.prompt})...)
	r := &repl.REPL{
		In:      os.Stdin,
		Out:     os.Stdout,
		Exec:    shell.NewExecutor(reg, shell.ExecRunner{}, rt.log),
		Prompt:  rt.prompt,
		History: rt.history,
		Log:     rt.log,
	}
	if err := r.Run(ctx); err != nil {
		return fmt.Errorf("repl: %w", err)
	}
	return nil
}
