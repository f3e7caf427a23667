package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestBuildAndCheck(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.MkdirAll("src", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("src", "iaf.h"),
		[]byte("/* BeginUserDocs: neuron, integrate-and-fire\nbody\nEndUserDocs */\n"), 0o644))

	common := []string{"--quiet", "--basedir", "src", "--outdir", "docs", "--ext", ".txt"}

	out, err := execute(t, append([]string{"build"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Build Complete")

	page, err := os.ReadFile(filepath.Join("docs", "iaf.txt"))
	require.NoError(t, err)
	assert.Equal(t, "body\n", string(page))
	assert.FileExists(t, filepath.Join("docs", "index_neuron.txt"))
	assert.FileExists(t, filepath.Join("docs", "toc-tree.json"))

	_, err = execute(t, append([]string{"build", "--check"}, common...)...)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join("docs", "iaf.txt"), []byte("stale\n"), 0o644))
	out, err = execute(t, append([]string{"build", "--check"}, common...)...)
	require.Error(t, err)
	assert.Contains(t, out, "iaf.txt")

	out, err = execute(t, append([]string{"tags"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "integrate-and-fire")
}

func TestInvalidConfig(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("userdocs.toml", []byte("max_depth = 0\n"), 0o644))

	_, err := execute(t, "tags", "--quiet")
	assert.Error(t, err)
}
