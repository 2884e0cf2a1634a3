package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/tshell/internal/config"
	"github.com/jask/tshell/internal/history"
)

func TestRootCommandWiring(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	require.Contains(t, names, "tui")
	require.Contains(t, names, "repl")
	for _, f := range []string{"root", "config", "debug"} {
		require.NotNil(t, cmd.PersistentFlags().Lookup(f), f)
	}
}

func TestLoadConfigRootFlagWins(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "none.toml")
	cfg, seedErr, err := loadConfig(options{config: missing, root: dir})
	require.NoError(t, err)
	require.NoError(t, seedErr)
	require.Equal(t, dir, cfg.Explorer.Root)
	require.NoFileExists(t, missing)
}

func TestSetupUsesConfiguredPaths(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, config.Save(cfgPath, config.Config{
		Explorer: config.ExplorerConfig{Root: dir},
		UI:       config.UIConfig{Tick: time.Second, StartScreen: "shell"},
		Theme:    config.ThemeConfig{Path: filepath.Join(dir, "theme.toml")},
		History:  config.HistoryConfig{Path: filepath.Join(dir, "history.db"), Limit: 10},
		Log:      config.LogConfig{Path: filepath.Join(dir, "tshell.log"), Level: "debug"},
	}))

	rt, err := setup(options{config: cfgPath})
	require.NoError(t, err)
	defer rt.Close()

	_, isDB := rt.history.(*history.DB)
	require.True(t, isDB)
	require.Equal(t, "shell", rt.cfg.UI.StartScreen)
	require.FileExists(t, filepath.Join(dir, "tshell.log"))
	// the missing theme is reported on the panel
	require.Positive(t, rt.panel.Len())
}

func TestFirstRunWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "config.toml")
	t.Setenv("TSHELL_CONFIG", path)

	cfg, seedErr, err := loadConfig(options{root: dir})
	require.NoError(t, err)
	require.NoError(t, seedErr)
	require.FileExists(t, path)
	require.Equal(t, dir, cfg.Explorer.Root)

	// the flag does not leak into the written file
	saved, err := config.LoadFile(path)
	require.NoError(t, err)
	require.NotEqual(t, dir, saved.Explorer.Root)
}

func TestFirstRunWriteFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	t.Setenv("TSHELL_CONFIG", filepath.Join(blocker, "config.toml"))

	_, seedErr, err := loadConfig(options{root: dir})
	require.NoError(t, err)
	require.Error(t, seedErr)
}
