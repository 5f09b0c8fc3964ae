// Package config loads tally.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the name searched for when no --config is given.
const FileName = "tally.toml"

// DefaultErrorMessage is shown when an evaluation fails.
const DefaultErrorMessage = "Something went wrong"

type Config struct {
	Display DisplayConfig `toml:"display"`
	UI      UIConfig      `toml:"ui"`
	Trace   TraceConfig   `toml:"trace"`
	Batch   BatchConfig   `toml:"batch"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-"`
}

type DisplayConfig struct {
	ErrorMessage string `toml:"error_message"`
	Width        int    `toml:"width"`
}

type UIConfig struct {
	Mode string `toml:"mode"`
}

type TraceConfig struct {
	Level    string `toml:"level"`
	Output   string `toml:"output"`
	Mode     string `toml:"mode"`
	Format   string `toml:"format"`
	RingSize int    `toml:"ring_size"`
}

type BatchConfig struct {
	Jobs int `toml:"jobs"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Display: DisplayConfig{ErrorMessage: DefaultErrorMessage, Width: 24},
		UI:      UIConfig{Mode: "auto"},
		Trace:   TraceConfig{Level: "off", Mode: "stream", Format: "auto", RingSize: 1024},
		Batch:   BatchConfig{Jobs: runtime.GOMAXPROCS(0)},
	}
}

// Find walks up from startDir looking for tally.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path on top of Default. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads explicit when set, otherwise the nearest tally.toml above
// startDir, otherwise the defaults.
func Resolve(explicit, startDir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Display.Width < 8 {
		return fmt.Errorf("[display].width must be at least 8, got %d", c.Display.Width)
	}
	switch strings.ToLower(c.UI.Mode) {
	case "", "auto", "on", "off":
	default:
		return fmt.Errorf("[ui].mode must be auto, on or off, got %q", c.UI.Mode)
	}
	if c.Trace.RingSize < 0 {
		return fmt.Errorf("[trace].ring_size must not be negative")
	}
	if c.Batch.Jobs < 0 {
		return fmt.Errorf("[batch].jobs must not be negative")
	}
	return nil
}
