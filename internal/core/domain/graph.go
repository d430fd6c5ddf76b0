package domain

import (
	"iter"
	"slices"

	"go.trai.ch/zerr"
)

// Graph is the dependency DAG built from a flat list of
// PluginSpecs, resolving each plugin's `with` list into edges.
type Graph struct {
	plugins        map[string]PluginSpec
	edges          map[string][]string // id -> dependency ids
	executionOrder []string
}

// BuildGraph resolves `with` references into a DAG, validates it is
// acyclic, and computes a deterministic topological order (dependencies
// first; ties broken by id lexicographically).
func BuildGraph(specs []PluginSpec) (*Graph, error) {
	g := &Graph{
		plugins: make(map[string]PluginSpec, len(specs)),
		edges:   make(map[string][]string, len(specs)),
	}

	for _, spec := range specs {
		if _, exists := g.plugins[spec.ID]; exists {
			return nil, zerr.With(zerr.Wrap(ErrConfigDuplicateID, "duplicate plugin id"), "id", spec.ID)
		}
		g.plugins[spec.ID] = spec
	}

	for _, spec := range specs {
		for _, dep := range spec.With {
			if _, ok := g.plugins[dep]; !ok {
				return nil, zerr.With(zerr.With(zerr.Wrap(ErrConfigUnknownDep, "with reference does not resolve"), "id", spec.ID), "dependency", dep)
			}
			g.edges[spec.ID] = append(g.edges[spec.ID], dep)
		}
	}

	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// validate performs a DFS cycle check and populates executionOrder.
func (g *Graph) validate() error {
	ids := make([]string, 0, len(g.plugins))
	for id := range g.plugins {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	state := make(map[string]int, len(g.plugins))
	order := make([]string, 0, len(g.plugins))
	var path []string

	var visit func(id string) error
	visit = func(id string) error {
		state[id] = visiting
		path = append(path, id)

		deps := append([]string(nil), g.edges[id]...)
		slices.Sort(deps)
		for _, dep := range deps {
			switch state[dep] {
			case visiting:
				return g.cycleError(path, dep)
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		state[id] = visited
		path = path[:len(path)-1]
		order = append(order, id)
		return nil
	}

	for _, id := range ids {
		if state[id] == unvisited {
			if err := visit(id); err != nil {
				return err
			}
		}
	}

	g.executionOrder = order
	return nil
}

func (g *Graph) cycleError(path []string, dep string) error {
	start := 0
	for i, node := range path {
		if node == dep {
			start = i
			break
		}
	}
	cycle := append(append([]string(nil), path[start:]...), dep)
	return zerr.With(zerr.Wrap(ErrConfigCycle, "with graph contains a cycle"), "cycle", slices.Clone(cycle))
}

// Get returns the plugin with the given id.
func (g *Graph) Get(id string) (PluginSpec, bool) {
	p, ok := g.plugins[id]
	return p, ok
}

// Set replaces the stored PluginSpec for id, used by the orchestrator to
// patch in RequireModules after checkout.
func (g *Graph) Set(spec PluginSpec) {
	g.plugins[spec.ID] = spec
}

// Dependencies returns the (unordered) dependency ids of id.
func (g *Graph) Dependencies(id string) []string {
	return g.edges[id]
}

// Count returns the number of plugins in the graph.
func (g *Graph) Count() int {
	return len(g.plugins)
}

// Walk iterates plugins in topological order (dependencies first).
// It assumes BuildGraph succeeded.
func (g *Graph) Walk() iter.Seq[PluginSpec] {
	return func(yield func(PluginSpec) bool) {
		for _, id := range g.executionOrder {
			if !yield(g.plugins[id]) {
				return
			}
		}
	}
}

// Order returns the topological order of plugin ids.
func (g *Graph) Order() []string {
	return slices.Clone(g.executionOrder)
}

// Position returns the index of id in the topological order, or -1.
func (g *Graph) Position(id string) int {
	return slices.Index(g.executionOrder, id)
}

// Dependents returns the ids of plugins that declare id in their `with`
// list (the inverse of Dependencies), used by the scheduler to release
// downstream work when id completes.
func (g *Graph) Dependents(id string) []string {
	var out []string
	for _, candidate := range g.executionOrder {
		if slices.Contains(g.edges[candidate], id) {
			out = append(out, candidate)
		}
	}
	return out
}
