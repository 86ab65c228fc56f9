// Package config loads tir.toml, the per-project defaults of the tir tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"tir/internal/trace"
)

// FileName is the config file looked up from the working directory upward.
const FileName = "tir.toml"

// DiagnosticFormats lists the accepted diagnostics.format values.
var DiagnosticFormats = []string{"pretty", "short", "json"}

// Config mirrors tir.toml. Path is empty when defaults are in effect.
type Config struct {
	Opt         Opt         `toml:"opt"`
	Trace       Trace       `toml:"trace"`
	Diagnostics Diagnostics `toml:"diagnostics"`

	Path string `toml:"-"`
}

// Opt holds the [opt] section.
type Opt struct {
	Passes   []string `toml:"passes"`
	Validate bool     `toml:"validate"`
	Emit     string   `toml:"emit"` // text|bytecode
	Jobs     int      `toml:"jobs"` // 0 = GOMAXPROCS
}

// Trace holds the [trace] section.
type Trace struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Mode   string `toml:"mode"`   // stream|ring|both
	Format string `toml:"format"` // auto|text|ndjson
}

// Diagnostics holds the [diagnostics] section.
type Diagnostics struct {
	Max    int    `toml:"max"`
	Color  string `toml:"color"`  // auto|on|off
	Format string `toml:"format"` // pretty|short|json
}

// Default returns the settings used without a config file.
func Default() Config {
	return Config{
		Opt:         Opt{Emit: "text"},
		Trace:       Trace{Level: "off", Output: "-", Mode: "stream", Format: "auto"},
		Diagnostics: Diagnostics{Max: 100, Color: "auto", Format: "pretty"},
	}
}

// Find walks up from startDir to locate tir.toml.
func Find(startDir string) (path string, ok bool, err error) {
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

// Load decodes path over the defaults. Keys it does not know are errors.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Discover loads the nearest tir.toml above startDir, or the defaults.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks enumerated values and ranges.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains([]string{"text", "bytecode"}, c.Opt.Emit) {
		errs = append(errs, fmt.Errorf("opt.emit: %q (expected text|bytecode)", c.Opt.Emit))
	}
	if c.Opt.Jobs < 0 {
		errs = append(errs, fmt.Errorf("opt.jobs: %d is negative", c.Opt.Jobs))
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		errs = append(errs, fmt.Errorf("trace.level: %w", err))
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		errs = append(errs, fmt.Errorf("trace.mode: %w", err))
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		errs = append(errs, fmt.Errorf("trace.format: %w", err))
	}
	if c.Diagnostics.Max < 0 {
		errs = append(errs, fmt.Errorf("diagnostics.max: %d is negative", c.Diagnostics.Max))
	}
	if !slices.Contains([]string{"auto", "on", "off"}, c.Diagnostics.Color) {
		errs = append(errs, fmt.Errorf("diagnostics.color: %q (expected auto|on|off)", c.Diagnostics.Color))
	}
	if !slices.Contains(DiagnosticFormats, c.Diagnostics.Format) {
		errs = append(errs, fmt.Errorf("diagnostics.format: %q (expected %s)", c.Diagnostics.Format, strings.Join(DiagnosticFormats, "|")))
	}
	return errors.Join(errs...)
}
