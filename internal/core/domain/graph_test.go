package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.rsplug.dev/rsplug/internal/core/domain"
)

func spec(id string, with ...string) domain.PluginSpec {
	return domain.PluginSpec{ID: id, With: with}
}

func TestBuildGraph_TopoOrderDeterministic(t *testing.T) {
	specs := []domain.PluginSpec{
		spec("c", "a", "b"),
		spec("b", "a"),
		spec("a"),
		spec("d"),
	}

	g, err := domain.BuildGraph(specs)
	require.NoError(t, err)

	order := g.Order()
	// a and b must precede c; d has no constraints but ties break
	// lexicographically among ready nodes.
	posA, posB, posC := g.Position("a"), g.Position("b"), g.Position("c")
	assert.Less(t, posA, posB)
	assert.Less(t, posB, posC)
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)
}

func TestBuildGraph_Cycle(t *testing.T) {
	specs := []domain.PluginSpec{
		spec("a", "b"),
		spec("b", "c"),
		spec("c", "a"),
	}

	_, err := domain.BuildGraph(specs)
	require.ErrorIs(t, err, domain.ErrConfigCycle)
}

func TestBuildGraph_UnknownDependency(t *testing.T) {
	_, err := domain.BuildGraph([]domain.PluginSpec{spec("a", "ghost")})
	require.ErrorIs(t, err, domain.ErrConfigUnknownDep)
}

func TestBuildGraph_DuplicateID(t *testing.T) {
	_, err := domain.BuildGraph([]domain.PluginSpec{spec("a"), spec("a")})
	require.ErrorIs(t, err, domain.ErrConfigDuplicateID)
}

func TestGraph_Dependents(t *testing.T) {
	g, err := domain.BuildGraph([]domain.PluginSpec{
		spec("a"),
		spec("b", "a"),
		spec("c", "a"),
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"b", "c"}, g.Dependents("a"))
	assert.Empty(t, g.Dependents("b"))
}
