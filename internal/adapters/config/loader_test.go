package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.rsplug.dev/rsplug/internal/adapters/config"
	"go.rsplug.dev/rsplug/internal/core/domain"
)

func writeDoc(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_ParsesRefSpecVariants(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "a.yaml", `
plugins:
  - repo: "neovim/nvim-lspconfig"
  - repo: "nvim-telescope/telescope.nvim@v0.1.8"
  - repo: "folke/lazy.nvim@release-*"
  - repo: "folke/noice.nvim@0123456789abcdef0123456789abcdef01234567"
`)

	loader := config.New()
	specs, err := loader.Load([]string{path})
	require.NoError(t, err)
	require.Len(t, specs, 4)

	assert.Equal(t, domain.RefDefault, specs[0].RefSpec.Kind)
	assert.Equal(t, domain.RefTag, specs[1].RefSpec.Kind)
	assert.Equal(t, "v0.1.8", specs[1].RefSpec.Name)
	assert.Equal(t, domain.RefTagGlob, specs[2].RefSpec.Kind)
	assert.Equal(t, domain.RefCommit, specs[3].RefSpec.Kind)
}

func TestLoad_OnMapShapes(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "a.yaml", `
plugins:
  - repo: "a/b"
    on_map: "<leader>ff"
  - repo: "c/d"
    on_map:
      n: "<leader>e"
      nv: ["<leader>x", "<leader>y"]
`)

	loader := config.New()
	specs, err := loader.Load([]string{path})
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, domain.ModeMap{'n': {"<leader>ff"}}, specs[0].Triggers.OnMap)

	want := domain.ModeMap{
		'n': {"<leader>e", "<leader>x", "<leader>y"},
		'v': {"<leader>x", "<leader>y"},
	}
	assert.Equal(t, want, specs[1].Triggers.OnMap)
}

func TestLoad_ConfigOnlyWithoutRepo(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "a.yaml", `
plugins:
  - name: "my-settings"
    lua_before: "vim.g.mapleader = ' '"
`)

	loader := config.New()
	specs, err := loader.Load([]string{path})
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.True(t, specs[0].ConfigOnly)
	assert.Equal(t, "my-settings", specs[0].ID)
}

func TestLoad_MissingRepoWithoutScriptFieldsFails(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "a.yaml", `
plugins:
  - name: "bare"
`)

	loader := config.New()
	_, err := loader.Load([]string{path})
	require.ErrorIs(t, err, domain.ErrConfigSchema)
}

func TestLoad_UnknownFieldFails(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "a.yaml", `
plugins:
  - repo: "a/b"
    on_cmdd: "Typo"
`)

	loader := config.New()
	_, err := loader.Load([]string{path})
	require.ErrorIs(t, err, domain.ErrConfigSchema)
}

func TestLoad_DuplicateIDFails(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "a.yaml", `
plugins:
  - repo: "a/b"
  - repo: "c/b"
`)

	loader := config.New()
	_, err := loader.Load([]string{path})
	require.ErrorIs(t, err, domain.ErrConfigDuplicateID)
}

func TestLoad_ConcatenatesPreservingOrderAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	p1 := writeDoc(t, dir, "a.yaml", "plugins:\n  - repo: \"z/first\"\n")
	p2 := writeDoc(t, dir, "b.yaml", "plugins:\n  - repo: \"z/second\"\n")

	loader := config.New()
	specs, err := loader.Load([]string{p1, p2})
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "first", specs[0].ID)
	assert.Equal(t, "second", specs[1].ID)
}
