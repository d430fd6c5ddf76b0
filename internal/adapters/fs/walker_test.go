package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.rsplug.dev/rsplug/internal/adapters/fs"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestWalker_SkipsGitAndSortsOutput(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"lua/plugin.lua":    "return {}",
		"doc/plugin.txt":    "tags",
		".git/HEAD":         "ref: refs/heads/main",
		"plugin/after.vim":  "set nocompatible",
	})

	w := fs.NewWalker()
	var got []string
	for p := range w.WalkFiles(root, nil) {
		got = append(got, p)
	}

	assert.Equal(t, []string{"doc/plugin.txt", "lua/plugin.lua", "plugin/after.vim"}, got)
}

func TestWalker_HonorsIgnoreMatcher(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md":     "docs",
		"build/out.o":   "binary",
		"lua/keep.lua":  "keep",
	})

	ign := fs.New([]string{"build/"})
	w := fs.NewWalker()

	var got []string
	for p := range w.WalkFiles(root, ign) {
		got = append(got, p)
	}

	assert.Equal(t, []string{"README.md", "lua/keep.lua"}, got)
}
