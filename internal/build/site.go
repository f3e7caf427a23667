package build

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"
)

// Site is the set of files produced by one build, keyed by name relative to
// the output directory.
type Site struct {
	files map[string][]byte
}

// NewSite returns an empty output set.
func NewSite() *Site {
	return &Site{files: make(map[string][]byte)}
}

// Add stores content under name and reports whether an earlier file of the
// same name was replaced.
func (s *Site) Add(name string, content []byte) bool {
	_, exists := s.files[name]
	s.files[name] = content
	return exists
}

// Names returns all file names, sorted.
func (s *Site) Names() []string {
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of files.
func (s *Site) Len() int {
	return len(s.files)
}

// Write creates dir if needed and writes every file into it.
func (s *Site) Write(fs afero.Fs, dir string) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	for _, name := range s.Names() {
		path := filepath.Join(dir, name)
		if err := afero.WriteFile(fs, path, s.files[name], 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// Stale describes a generated file that differs from what is on disk.
type Stale struct {
	Name    string
	Missing bool
	Diff    string
}

// Check compares every file with its counterpart in dir without writing.
func (s *Site) Check(fs afero.Fs, dir string) ([]Stale, error) {
	var stale []Stale
	for _, name := range s.Names() {
		path := filepath.Join(dir, name)
		current, err := afero.ReadFile(fs, path)
		if errors.Is(err, os.ErrNotExist) {
			stale = append(stale, Stale{Name: name, Missing: true})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		want := s.files[name]
		if bytes.Equal(current, want) {
			continue
		}

		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(current)),
			B:        difflib.SplitLines(string(want)),
			FromFile: path,
			ToFile:   path + " (generated)",
			Context:  3,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to diff %s: %w", path, err)
		}
		stale = append(stale, Stale{Name: name, Diff: diff})
	}
	return stale, nil
}
