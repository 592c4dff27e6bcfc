// Package config loads checker settings from an .rbstyle.toml file
// found by walking up from the working directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"rbstyle/internal/rules/modulestyle"
)

// FileName is the manifest the loader searches for.
const FileName = ".rbstyle.toml"

// Config is the fully validated checker configuration.
type Config struct {
	// Path is the manifest the config came from; empty for defaults.
	Path string
	// ModuleStyle is the enforced declaration style.
	ModuleStyle modulestyle.Style
	// Exclude lists glob patterns of paths to skip, matched against
	// slash-separated paths relative to the config directory.
	Exclude []string
}

type rawConfig struct {
	Rules struct {
		ModuleStyle struct {
			Enforced string `toml:"enforced"`
		} `toml:"module-style"`
	} `toml:"rules"`
	Exclude []string `toml:"exclude"`
}

// Default returns the configuration used when no manifest exists.
func Default() Config {
	return Config{ModuleStyle: modulestyle.StyleModuleFunction}
}

// Find walks up from startDir to locate the manifest.
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

// Load parses and validates the manifest at path. Invalid settings
// fail here, before any rule is constructed.
func Load(path string) (Config, error) {
	var raw rawConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	cfg := Default()
	cfg.Path = path

	if meta.IsDefined("rules", "module-style", "enforced") {
		style, err := modulestyle.ParseStyle(strings.TrimSpace(raw.Rules.ModuleStyle.Enforced))
		if err != nil {
			return Config{}, fmt.Errorf("%s: rules.module-style.enforced: %w", path, err)
		}
		cfg.ModuleStyle = style
	}
	if meta.IsDefined("exclude") {
		cfg.Exclude = raw.Exclude
	}
	return cfg, nil
}

// Discover finds and loads the manifest governing startDir, falling
// back to defaults when none exists.
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

// Excluded reports whether relPath (slash-separated) matches one of
// the exclude patterns.
func (c Config) Excluded(relPath string) bool {
	for _, pat := range c.Exclude {
		if ok, err := filepath.Match(pat, relPath); err == nil && ok {
			return true
		}
		// Also match against the basename so `*_generated.rb` works
		// anywhere in the tree.
		if ok, err := filepath.Match(pat, filepath.Base(relPath)); err == nil && ok {
			return true
		}
	}
	return false
}
