// Package config loads and saves the emulator's TOML configuration file,
// following the same load-defaults/decode-file/save pattern the teacher
// repo uses for its own config (BurntSushi/toml, platform-specific path
// helpers).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the emulator's persisted settings.
type Config struct {
	// Timing settings (spec.md §4.C, §5).
	Timing struct {
		WallClockThrottle bool `toml:"wall_clock_throttle"`
		SliceWordTimes    int  `toml:"slice_word_times"`
		MaxWordTimes      uint64 `toml:"max_word_times"` // 0 = unbounded
	} `toml:"timing"`

	// IO settings (spec.md §4.E, §6).
	IO struct {
		TapeDirectory  string `toml:"tape_directory"`
		AutoReload     bool   `toml:"auto_reload"`
		TypewriterEcho bool   `toml:"typewriter_echo"`
	} `toml:"io"`

	// Trace settings (Component F: trace output).
	Trace struct {
		Enabled    bool   `toml:"enabled"`
		OutputFile string `toml:"output_file"`
		MaxEntries int    `toml:"max_entries"`
	} `toml:"trace"`

	// Panel settings (spec.md §6 "Control-panel contract").
	Panel struct {
		ComputeSwitch string `toml:"compute_switch"` // OFF, GO, BP
		EnableSwitch  string `toml:"enable_switch"`  // OFF, ON
		PunchSwitch   string `toml:"punch_switch"`   // OFF, PUNCH, REWIND
		BellAudible   bool   `toml:"bell_audible"`
	} `toml:"panel"`

	// Debugger settings for the interactive REPL.
	Debugger struct {
		HistorySize int `toml:"history_size"` // commands retained for the "history" REPL command
	} `toml:"debugger"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Timing.WallClockThrottle = true
	cfg.Timing.SliceWordTimes = 400
	cfg.Timing.MaxWordTimes = 0

	cfg.IO.TapeDirectory = "."
	cfg.IO.AutoReload = true
	cfg.IO.TypewriterEcho = true

	cfg.Trace.Enabled = false
	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.MaxEntries = 100000

	cfg.Panel.ComputeSwitch = "OFF"
	cfg.Panel.EnableSwitch = "OFF"
	cfg.Panel.PunchSwitch = "OFF"
	cfg.Panel.BellAudible = true

	cfg.Debugger.HistorySize = 200

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "g15emu")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "g15emu")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "g15emu", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "g15emu", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file.
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

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
