package merge_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.rsplug.dev/rsplug/internal/merge"
)

func checkout(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestPlan_MergesDisjointPluginsWithIdenticalTriggers(t *testing.T) {
	a := domain.PluginSpec{ID: "a", Triggers: domain.TriggerSet{OnCmd: []string{"Foo"}}}
	b := domain.PluginSpec{ID: "b", Triggers: domain.TriggerSet{OnCmd: []string{"Foo"}}}

	graph, err := domain.BuildGraph([]domain.PluginSpec{a, b})
	require.NoError(t, err)

	dirs := merge.CheckoutDirs{
		"a": checkout(t, map[string]string{"lua/a.lua": "return {}"}),
		"b": checkout(t, map[string]string{"lua/b.lua": "return {}"}),
	}

	plan, err := merge.Plan(graph, dirs)
	require.NoError(t, err)
	require.Len(t, plan.Groups, 1)
	assert.ElementsMatch(t, []string{"a", "b"}, plan.Groups[0].Members)
	assert.Equal(t, "_gen_0", plan.GroupOf["a"])
}

func TestPlan_SplitsOnPathCollision(t *testing.T) {
	a := domain.PluginSpec{ID: "a", Triggers: domain.TriggerSet{OnCmd: []string{"Foo"}}}
	b := domain.PluginSpec{ID: "b", Triggers: domain.TriggerSet{OnCmd: []string{"Foo"}}}

	graph, err := domain.BuildGraph([]domain.PluginSpec{a, b})
	require.NoError(t, err)

	dirs := merge.CheckoutDirs{
		"a": checkout(t, map[string]string{"lua/shared.lua": "return {}"}),
		"b": checkout(t, map[string]string{"lua/shared.lua": "return {}"}),
	}

	plan, err := merge.Plan(graph, dirs)
	require.NoError(t, err)
	require.Len(t, plan.Groups, 2)
}

func TestPlan_SeparatesByTriggerSet(t *testing.T) {
	a := domain.PluginSpec{ID: "a", Triggers: domain.TriggerSet{OnCmd: []string{"Foo"}}}
	b := domain.PluginSpec{ID: "b", Start: true, Triggers: domain.TriggerSet{Start: true}}

	graph, err := domain.BuildGraph([]domain.PluginSpec{a, b})
	require.NoError(t, err)

	dirs := merge.CheckoutDirs{
		"a": checkout(t, map[string]string{"lua/a.lua": "return {}"}),
		"b": checkout(t, map[string]string{"lua/b.lua": "return {}"}),
	}

	plan, err := merge.Plan(graph, dirs)
	require.NoError(t, err)
	require.Len(t, plan.Groups, 2)
	assert.NotEqual(t, plan.GroupOf["a"], plan.GroupOf["b"])
}

func TestPlan_NumbersEagerGroupsBeforeLazyOnes(t *testing.T) {
	// "a" sorts before "z" in DAG position (neither depends on the
	// other, so the topological tie-break is lexicographic by id), but
	// "z" is eager and "a" is lazy, so "z" must still claim _gen_0.
	a := domain.PluginSpec{ID: "a", Triggers: domain.TriggerSet{OnCmd: []string{"Foo"}}}
	z := domain.PluginSpec{ID: "z", Start: true, Triggers: domain.TriggerSet{Start: true}}

	graph, err := domain.BuildGraph([]domain.PluginSpec{a, z})
	require.NoError(t, err)
	require.Less(t, graph.Position("a"), graph.Position("z"))

	dirs := merge.CheckoutDirs{
		"a": checkout(t, map[string]string{"lua/a.lua": "return {}"}),
		"z": checkout(t, map[string]string{"lua/z.lua": "return {}"}),
	}

	plan, err := merge.Plan(graph, dirs)
	require.NoError(t, err)
	require.Len(t, plan.Groups, 2)
	assert.Equal(t, "_gen_0", plan.GroupOf["z"])
	assert.Equal(t, "_gen_1", plan.GroupOf["a"])
}
