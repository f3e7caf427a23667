package build

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"
)

// patterns is a compiled list of name globs.
type patterns []glob.Glob

func compilePatterns(pats []string) (patterns, error) {
	out := make(patterns, 0, len(pats))
	for _, p := range pats {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func (ps patterns) match(name string) bool {
	for _, g := range ps {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// filter decides which directories are walked and which files are sources.
type filter struct {
	include patterns
	exclude patterns
}

func newFilter(include, exclude []string) (*filter, error) {
	inc, err := compilePatterns(include)
	if err != nil {
		return nil, err
	}
	exc, err := compilePatterns(exclude)
	if err != nil {
		return nil, err
	}
	return &filter{include: inc, exclude: exc}, nil
}

// skipDir reports whether a directory with the given name is pruned.
func (f *filter) skipDir(name string) bool {
	return f.exclude.match(name)
}

// keepFile reports whether a file with the given name is a source.
func (f *filter) keepFile(name string) bool {
	return !f.exclude.match(name) && f.include.match(name)
}

// prunedDir reports whether rel, a directory relative to the scan root, or
// any of its parents is pruned.
func (f *filter) prunedDir(rel string) bool {
	for _, dir := range strings.Split(filepath.ToSlash(rel), "/") {
		if f.skipDir(dir) {
			return true
		}
	}
	return false
}

// keepPath applies the filter to a file path relative to the scan root.
func (f *filter) keepPath(rel string) bool {
	dir, name := filepath.Split(rel)
	if dir != "" && f.prunedDir(filepath.Clean(dir)) {
		return false
	}
	return f.keepFile(name)
}

// SourceFiles walks root and returns the paths, relative to root, of all
// regular files matching an include pattern and no exclude pattern.
// Directories matching an exclude pattern are not descended into.
func SourceFiles(fs afero.Fs, root string, include, exclude []string, log *slog.Logger) ([]string, error) {
	f, err := newFilter(include, exclude)
	if err != nil {
		return nil, err
	}

	var files []string
	err = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}

		if info.IsDir() {
			if path != root && f.skipDir(info.Name()) {
				log.Debug("ignoring directory", "path", path)
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() || !f.keepFile(info.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}
