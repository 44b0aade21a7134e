// Package config loads the optional nu-parser.toml file that seeds defaults
// for the CLI flags. Flags always win over the file; the file wins over the
// built-in defaults.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the config file the CLI looks for in the working directory.
const FileName = "nu-parser.toml"

// Config carries the tunables of the command-line driver.
type Config struct {
	// Color is one of auto, on, off.
	Color string `toml:"color"`
	// MaxErrors caps how many diagnostics the pretty renderer prints.
	// Zero means no cap.
	MaxErrors int `toml:"max_errors"`
	// NoPrint suppresses the per-pass display dumps.
	NoPrint bool `toml:"no_print"`
	// Parallel compiles each input file with its own compiler on its own
	// goroutine.
	Parallel bool `toml:"parallel"`
	// CacheDir overrides the snapshot cache location; empty uses the
	// standard user cache directory.
	CacheDir string `toml:"cache_dir"`
	// Cache enables the snapshot result cache.
	Cache bool `toml:"cache"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Color:     "auto",
		MaxErrors: 100,
	}
}

// Load reads a config file, layering it over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Discover loads nu-parser.toml from the working directory when present,
// falling back to the defaults otherwise.
func Discover() (Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Default(), nil //nolint:nilerr // no cwd means no config file
	}
	path := filepath.Join(wd, FileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), err
	}
	return Load(path)
}
