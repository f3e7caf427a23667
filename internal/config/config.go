// Package config loads the userdocs build configuration.
//
// Settings come from, in increasing order of precedence:
//   - built-in defaults
//   - a TOML or YAML file (userdocs.toml by default)
//   - USERDOCS_* environment variables
//   - command-line flags (applied by the caller)
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no configuration file is named explicitly.
const DefaultFile = "userdocs.toml"

// Config is the complete build configuration.
type Config struct {
	// BaseDir is the root input paths are resolved against.
	BaseDir string `toml:"basedir" yaml:"basedir"`
	// OutDir is where pages, indices and JSON files are written.
	OutDir string `toml:"outdir" yaml:"outdir"`
	// ReplaceExt replaces the source extension on generated pages.
	ReplaceExt string `toml:"replace_ext" yaml:"replace_ext"`

	// Include and Exclude are glob patterns matched against file and
	// directory names.
	Include []string `toml:"include" yaml:"include"`
	Exclude []string `toml:"exclude" yaml:"exclude"`

	// MaxDepth caps the index levels; combinations have at most MaxDepth-1 tags.
	MaxDepth int `toml:"max_depth" yaml:"max_depth"`
	// Underlines holds one heading underline character per index level.
	Underlines string `toml:"underlines" yaml:"underlines"`

	// Section titles rewritten on every page.
	ShortDescription string `toml:"short_description" yaml:"short_description"`
	SeeAlso          string `toml:"see_also" yaml:"see_also"`

	Index IndexConfig `toml:"index" yaml:"index"`
}

// IndexConfig holds the header of generated index pages.
type IndexConfig struct {
	Title       string `toml:"title" yaml:"title"`
	Description string `toml:"description" yaml:"description"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseDir:          ".",
		OutDir:           "userdocs",
		ReplaceExt:       ".rst",
		Include:          []string{"*.py", "*.h", "*.cxx"},
		Exclude:          []string{"*.swp", ".git", "venv", "conda", "_doxygen", "build"},
		MaxDepth:         4,
		Underlines:       "=-~",
		ShortDescription: "Short description",
		SeeAlso:          "See also",
		Index: IndexConfig{
			Title: "Model directory",
			Description: "The model directory is organized and autogenerated by keywords. " +
				"Models that contain a specific keyword will be listed under that word.",
		},
	}
}

// Load returns the defaults overlaid with the file at path. The format is
// chosen by extension. An empty path reads DefaultFile if it exists.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		path = DefaultFile
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			sort.Strings(keys)
			return Config{}, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
		}
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from USERDOCS_* environment variables.
func (c *Config) ApplyEnv() {
	c.BaseDir = envOr("USERDOCS_BASEDIR", c.BaseDir)
	c.OutDir = envOr("USERDOCS_OUTDIR", c.OutDir)
	c.ReplaceExt = envOr("USERDOCS_REPLACE_EXT", c.ReplaceExt)
	c.Include = envList("USERDOCS_INCLUDE", c.Include)
	c.Exclude = envList("USERDOCS_EXCLUDE", c.Exclude)
	c.MaxDepth = envInt("USERDOCS_MAX_DEPTH", c.MaxDepth)
}

// Validate reports settings that would make a build meaningless.
func (c Config) Validate() error {
	if c.OutDir == "" {
		return fmt.Errorf("outdir is required")
	}
	if c.BaseDir == "" {
		return fmt.Errorf("basedir is required")
	}
	if !strings.HasPrefix(c.ReplaceExt, ".") {
		return fmt.Errorf("replace_ext must start with a dot, got %q", c.ReplaceExt)
	}
	if len(c.Include) == 0 {
		return fmt.Errorf("at least one include pattern is required")
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be at least 1, got %d", c.MaxDepth)
	}
	// The identity index uses one level for the page title and one for the
	// tag headings.
	if n := utf8.RuneCountInString(c.Underlines); n < 2 {
		return fmt.Errorf("underlines needs at least 2 characters, got %d", n)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
