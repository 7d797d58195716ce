// Package config loads loom.toml, the VM host configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the loaded contents of a loom.toml file.
type Config struct {
	GC    GC    `toml:"gc"`
	Trace Trace `toml:"trace"`

	// Dir is the directory containing loom.toml (set at load time).
	Dir string `toml:"-"`
}

// GC configures the collector's threshold adaptation. Which of the two
// collection policies (mark-every-step vs threshold-based) runs is
// decided at build time by the debug_gc build tag, not here — GC.Constant
// only tunes the threshold-based policy's growth constant.
type GC struct {
	// Constant is C in threshold = 3*visits + C. Zero means "use the
	// package default".
	Constant int `toml:"constant"`
}

// Trace configures per-instruction execution tracing.
type Trace struct {
	Enabled bool `toml:"enabled"`
}

// Load parses a loom.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "loom.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return &c, nil
}

// FindAndLoad walks up from startDir looking for a loom.toml file, then
// loads and returns it. Returns nil, nil if none is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "loom.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Default returns the configuration a host with no loom.toml should
// run with.
func Default() *Config {
	return &Config{}
}
