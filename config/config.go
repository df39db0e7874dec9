// Package config loads the toolchain's TOML configuration file, in the
// teacher's style: a struct of nested, toml-tagged sections with sensible
// defaults that a missing file falls back to.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the assembler/VM/debugger/REPL's configurable knobs.
type Config struct {
	Execution struct {
		HeapInitialSize uint32 `toml:"heap_initial_size"`
		StackCapacity   uint32 `toml:"stack_capacity"`
		DefaultEntry    string `toml:"default_entry"`
	} `toml:"execution"`

	Display struct {
		NumberFormat string `toml:"number_format"` // hex, dec, both
		ColorOutput  bool   `toml:"color_output"`
	} `toml:"display"`

	Debugger struct {
		HistorySize int  `toml:"history_size"`
		ShowSource  bool `toml:"show_source"`
	} `toml:"debugger"`

	REPL struct {
		HistorySize int `toml:"history_size"`
	} `toml:"repl"`
}

// DefaultConfig returns a Config populated with the toolchain's defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.HeapInitialSize = 64
	cfg.Execution.StackCapacity = 2097152
	cfg.Execution.DefaultEntry = "0x0"

	cfg.Display.NumberFormat = "hex"
	cfg.Display.ColorOutput = true

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.ShowSource = true

	cfg.REPL.HistorySize = 1000

	return cfg
}

// GetConfigPath returns the platform-specific default config file path.
func GetConfigPath() string {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		if dir == "" {
			return "config.toml"
		}
		dir = filepath.Join(dir, "epie")
	case "darwin", "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		dir = filepath.Join(home, ".config", "epie")
	default:
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// GetLogPath returns the platform-specific default directory for the
// virtual machine's event log and debugger session traces.
func GetLogPath() string {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			return "logs"
		}
		dir = filepath.Join(dir, "epie", "logs")
	case "darwin", "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		dir = filepath.Join(home, ".local", "share", "epie", "logs")
	default:
		return "logs"
	}
	return dir
}

// Load reads configuration from the platform default path.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads configuration from path. A missing file is not an error:
// it yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes c to the platform default config path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes c to path as TOML, creating parent directories as needed.
func (c *Config) SaveTo(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
