// Package project locates and loads docfence.toml.
package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"docfence/internal/classify"
	"docfence/internal/repair"
)

// DefaultDocsDir is the documentation root used when nothing is configured.
const DefaultDocsDir = "docs/src"

// ErrInvalidConfig is wrapped by every validation failure in Load.
var ErrInvalidConfig = errors.New("invalid docfence.toml")

// Config is the parsed docfence.toml. Path and Root are empty for the
// built-in defaults.
type Config struct {
	Path string `toml:"-"`
	Root string `toml:"-"`
	// ToolDir is the directory of the running executable; the CLI sets it.
	ToolDir string `toml:"-"`

	Docs     DocsConfig     `toml:"docs"`
	Classify ClassifyConfig `toml:"classify"`
	Repair   RepairConfig   `toml:"repair"`
}

// DocsConfig is the [docs] section.
type DocsConfig struct {
	Roots      []string `toml:"roots"`
	Extensions []string `toml:"extensions"`
}

// ClassifyConfig is the [classify] section.
type ClassifyConfig struct {
	Language     string   `toml:"language"`
	Ignore       string   `toml:"ignore"`
	Output       string   `toml:"output"`
	Crates       []string `toml:"crates"`
	Placeholders []string `toml:"placeholders"`
}

// RepairConfig is the [repair] section.
type RepairConfig struct {
	Tag string `toml:"tag"`
}

// Default returns the configuration used when no docfence.toml exists.
func Default() *Config {
	opts := classify.DefaultOptions()
	return &Config{
		Docs: DocsConfig{Extensions: []string{".md"}},
		Classify: ClassifyConfig{
			Language:     opts.Language,
			Ignore:       opts.IgnoreAttr,
			Output:       opts.OutputTag,
			Crates:       opts.Crates,
			Placeholders: opts.Placeholders,
		},
		Repair: RepairConfig{Tag: repair.DefaultTag},
	}
}

// Load parses path. Keys that are not present keep their defaults; present
// keys must not be blank.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	cfg.Path = abs
	cfg.Root = filepath.Dir(abs)

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: %w: unknown key %s", path, ErrInvalidConfig, undecoded[0])
	}

	strs := []struct {
		section, key string
		value        string
	}{
		{"classify", "language", cfg.Classify.Language},
		{"classify", "ignore", cfg.Classify.Ignore},
		{"classify", "output", cfg.Classify.Output},
		{"repair", "tag", cfg.Repair.Tag},
	}
	for _, s := range strs {
		if meta.IsDefined(s.section, s.key) && strings.TrimSpace(s.value) == "" {
			return nil, fmt.Errorf("%s: %w: [%s].%s must not be empty", path, ErrInvalidConfig, s.section, s.key)
		}
	}
	if meta.IsDefined("docs", "roots") {
		for _, r := range cfg.Docs.Roots {
			if strings.TrimSpace(r) == "" {
				return nil, fmt.Errorf("%s: %w: [docs].roots contains an empty entry", path, ErrInvalidConfig)
			}
		}
	}
	if meta.IsDefined("docs", "extensions") && len(cfg.Docs.Extensions) == 0 {
		return nil, fmt.Errorf("%s: %w: [docs].extensions must not be empty", path, ErrInvalidConfig)
	}
	return cfg, nil
}

// Discover loads docfence.toml from startDir or its parents, falling back to
// Default when none exists.
func Discover(startDir string) (*Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// ClassifyOptions converts the [classify] section.
func (c *Config) ClassifyOptions() classify.Options {
	return classify.Options{
		Language:     strings.TrimSpace(c.Classify.Language),
		IgnoreAttr:   strings.TrimSpace(c.Classify.Ignore),
		OutputTag:    strings.TrimSpace(c.Classify.Output),
		Crates:       c.Classify.Crates,
		Placeholders: c.Classify.Placeholders,
	}
}

// RootCandidates lists the documentation roots to try, in order. An explicit
// directory wins outright; otherwise the configured roots, resolved against
// the config directory, are tried, then docs/src under the project root, under
// ToolDir and finally under the working directory.
func (c *Config) RootCandidates(explicit string) []string {
	if explicit != "" {
		return []string{explicit}
	}
	if len(c.Docs.Roots) > 0 {
		out := make([]string, 0, len(c.Docs.Roots))
		for _, r := range c.Docs.Roots {
			out = append(out, c.resolve(r))
		}
		return out
	}
	fallback := filepath.FromSlash(DefaultDocsDir)
	var out []string
	for _, base := range []string{c.Root, c.ToolDir} {
		if base == "" {
			continue
		}
		candidate := filepath.Join(base, fallback)
		if !slices.Contains(out, candidate) {
			out = append(out, candidate)
		}
	}
	return append(out, fallback)
}

func (c *Config) resolve(p string) string {
	p = filepath.FromSlash(strings.TrimSpace(p))
	if filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, p)
}
