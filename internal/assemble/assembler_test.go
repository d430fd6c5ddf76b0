package assemble_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.rsplug.dev/rsplug/internal/adapters/fs"
	"go.rsplug.dev/rsplug/internal/assemble"
	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.rsplug.dev/rsplug/internal/merge"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestAssembler_ProducesPackTreeAndHelptags(t *testing.T) {
	checkoutDir := t.TempDir()
	writeFiles(t, checkoutDir, map[string]string{
		"lua/init.lua": "return {}",
		"doc/foo.txt":  "*foo-cmd* does a thing\n",
	})

	specA := domain.PluginSpec{ID: "a", Triggers: domain.TriggerSet{OnCmd: []string{"Foo"}}}
	graph, err := domain.BuildGraph([]domain.PluginSpec{specA})
	require.NoError(t, err)

	plan := &domain.MergePlan{
		Groups:  []domain.MergeGroup{{Name: "_gen_0", Members: []string{"a"}, Eager: false}},
		GroupOf: map[string]string{"a": "_gen_0"},
	}
	dirs := merge.CheckoutDirs{"a": checkoutDir}

	outRoot := filepath.Join(t.TempDir(), "out")
	asm := assemble.New(fs.NewVerifier())

	require.NoError(t, asm.Assemble(context.Background(), outRoot, graph, plan, dirs, nil))

	groupDir := filepath.Join(outRoot, "pack", "_gen", "opt", "_gen_0")
	assert.FileExists(t, filepath.Join(groupDir, "lua", "init.lua"))
	assert.FileExists(t, filepath.Join(groupDir, "doc", "tags"))

	tags, err := os.ReadFile(filepath.Join(groupDir, "doc", "tags"))
	require.NoError(t, err)
	assert.Contains(t, string(tags), "foo-cmd\tfoo.txt\t/*foo-cmd*")
}

func TestAssembler_ReplacesExistingTreeWithoutLeftovers(t *testing.T) {
	checkoutDir := t.TempDir()
	writeFiles(t, checkoutDir, map[string]string{"lua/init.lua": "return {}"})

	specA := domain.PluginSpec{ID: "a", Triggers: domain.TriggerSet{OnCmd: []string{"Foo"}}}
	graph, err := domain.BuildGraph([]domain.PluginSpec{specA})
	require.NoError(t, err)

	plan := &domain.MergePlan{
		Groups:  []domain.MergeGroup{{Name: "_gen_0", Members: []string{"a"}, Eager: false}},
		GroupOf: map[string]string{"a": "_gen_0"},
	}
	dirs := merge.CheckoutDirs{"a": checkoutDir}

	outRoot := filepath.Join(t.TempDir(), "out")
	writeFiles(t, outRoot, map[string]string{"pack/_gen/opt/_gen_0/lua/stale.lua": "return {}"})

	asm := assemble.New(fs.NewVerifier())
	require.NoError(t, asm.Assemble(context.Background(), outRoot, graph, plan, dirs, nil))

	assert.NoFileExists(t, filepath.Join(outRoot, "pack", "_gen", "opt", "_gen_0", "lua", "stale.lua"))
	assert.FileExists(t, filepath.Join(outRoot, "pack", "_gen", "opt", "_gen_0", "lua", "init.lua"))
	assert.NoDirExists(t, outRoot+".old")
	assert.NoDirExists(t, outRoot+".next")
}
