package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/tshell/internal/fsguard"
)

// Config holds application configuration.
type Config struct {
	Explorer ExplorerConfig `mapstructure:"explorer"`
	UI       UIConfig       `mapstructure:"ui"`
	Theme    ThemeConfig    `mapstructure:"theme"`
	History  HistoryConfig  `mapstructure:"history"`
	Log      LogConfig      `mapstructure:"log"`
}

// ExplorerConfig holds file browser settings. Root confines every file the
// application reads or writes.
type ExplorerConfig struct {
	Root       string `mapstructure:"root"`
	ShowHidden bool   `mapstructure:"show_hidden"`
	Watch      bool   `mapstructure:"watch"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Tick        time.Duration `mapstructure:"tick"`
	StartScreen string        `mapstructure:"start_screen"`
}

type ThemeConfig struct {
	Path string `mapstructure:"path"`
}

// HistoryConfig holds sqlite history settings.
type HistoryConfig struct {
	Path  string `mapstructure:"path"`
	Limit int    `mapstructure:"limit"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "tshell")
}

// Path is the config file location: $TSHELL_CONFIG, or
// ~/.config/tshell/config.toml.
func Path() string {
	if p := os.Getenv("TSHELL_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "tshell", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix TSHELL_.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile is Load with an explicit config file. A missing file is not an
// error; a malformed one is.
func LoadFile(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("explorer.root", fsguard.DefaultRoot())
	v.SetDefault("explorer.show_hidden", false)
	v.SetDefault("explorer.watch", true)
	v.SetDefault("ui.tick", 100*time.Millisecond)
	v.SetDefault("ui.start_screen", "home")
	v.SetDefault("theme.path", "config/theme.toml")
	v.SetDefault("history.path", filepath.Join(dataDir(), "history.db"))
	v.SetDefault("history.limit", 500)
	v.SetDefault("log.path", filepath.Join(dataDir(), "tshell.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")
	v.SetConfigFile(path)

	v.SetEnvPrefix("TSHELL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.Tick <= 0 {
		c.UI.Tick = 100 * time.Millisecond
	}
	return c, nil
}

// Save writes the provided config to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("explorer.root", cfg.Explorer.Root)
	v.Set("explorer.show_hidden", cfg.Explorer.ShowHidden)
	v.Set("explorer.watch", cfg.Explorer.Watch)
	v.Set("ui.tick", cfg.UI.Tick.String())
	v.Set("ui.start_screen", cfg.UI.StartScreen)
	v.Set("theme.path", cfg.Theme.Path)
	v.Set("history.path", cfg.History.Path)
	v.Set("history.limit", cfg.History.Limit)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
