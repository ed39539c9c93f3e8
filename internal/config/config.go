package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents catchup's configuration from config.toml.
type Config struct {
	Library LibraryConfig `toml:"library"`
	Sync    SyncConfig    `toml:"sync"`
	TUI     TUIConfig     `toml:"tui"`
}

// LibraryConfig points at the on-disk library root.
type LibraryConfig struct {
	Path string `toml:"path"` // empty means the XDG data directory default
}

// SyncConfig tunes synchronization behavior.
type SyncConfig struct {
	ItemLimit      int  `toml:"item_limit"`      // retention cap for downloaded streams
	TimeoutSeconds int  `toml:"timeout_seconds"` // HTTP timeout for feeds and payloads
	ASCIINames     bool `toml:"ascii_names"`     // strip non-ASCII from item names
}

// TUIConfig holds presentation settings.
type TUIConfig struct {
	Theme string `toml:"theme"`
}

// Themes lists the selectable TUI color schemes.
var Themes = []string{"catppuccin", "monochrome", "light"}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Sync: SyncConfig{
			ItemLimit:      1000000,
			TimeoutSeconds: 30,
		},
		TUI: TUIConfig{
			Theme: "catppuccin",
		},
	}
}

// Load reads configuration from the standard XDG config path, merging the
// file over the defaults. A missing file is not an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	config := Defaults()
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Path returns the config file location under XDG_CONFIG_HOME.
func Path() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "catchup", "config.toml"), nil
}

func (c *Config) validate() error {
	if c.Sync.ItemLimit < 1 {
		return fmt.Errorf("sync.item_limit must be at least 1, got %d", c.Sync.ItemLimit)
	}
	if c.Sync.TimeoutSeconds < 1 {
		return fmt.Errorf("sync.timeout_seconds must be at least 1, got %d", c.Sync.TimeoutSeconds)
	}
	for _, theme := range Themes {
		if c.TUI.Theme == theme {
			return nil
		}
	}
	return fmt.Errorf("unknown tui.theme %q", c.TUI.Theme)
}

// Timeout returns the HTTP timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Sync.TimeoutSeconds) * time.Second
}

// LibraryRoot resolves the library location: the configured path when set,
// otherwise catchup's directory under XDG_DATA_HOME.
func (c *Config) LibraryRoot() (string, error) {
	if c.Library.Path != "" {
		return c.Library.Path, nil
	}
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "catchup"), nil
}

// StateDir returns catchup's directory under XDG_STATE_HOME, used for log
// files.
func StateDir() (string, error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "catchup"), nil
}
