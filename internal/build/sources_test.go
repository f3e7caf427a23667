package build

import (
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	defaultInclude = []string{"*.py", "*.h", "*.cxx"}
	defaultExclude = []string{"*.swp", ".git", "venv", "conda", "_doxygen", "build"}
)

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for name, data := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(data), 0o644))
	}
}

func TestSourceFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/a.h":                 "",
		"/src/models/b.py":         "",
		"/src/models/c.cxx":        "",
		"/src/models/c.cxx.swp":    "",
		"/src/README.md":           "",
		"/src/build/gen.h":         "",
		"/src/.git/hooks/x.py":     "",
		"/src/venv/lib/site.py":    "",
		"/src/nested/build/deep.h": "",
	})

	files, err := SourceFiles(fs, "/src", defaultInclude, defaultExclude, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.h", "models/b.py", "models/c.cxx"}, files)
}

func TestSourceFilesRootMatchingExclude(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/build/a.h": ""})

	files, err := SourceFiles(fs, "/build", defaultInclude, defaultExclude, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.h"}, files)
}

func TestSourceFilesErrors(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := SourceFiles(fs, "/missing", defaultInclude, defaultExclude, discardLogger())
	assert.Error(t, err)

	_, err = SourceFiles(fs, "/", []string{"[*.h"}, nil, discardLogger())
	assert.ErrorContains(t, err, "invalid pattern")
}

func TestFilterKeepPath(t *testing.T) {
	f, err := newFilter(defaultInclude, defaultExclude)
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"a.h", true},
		{"models/b.py", true},
		{"models/b.py.swp", false},
		{"notes.txt", false},
		{"build/a.h", false},
		{"models/venv/a.py", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, f.keepPath(tt.path))
		})
	}

	assert.True(t, f.prunedDir("models/conda"))
	assert.False(t, f.prunedDir("models/neurons"))
}
