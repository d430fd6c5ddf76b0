// Package scriptgen renders the runtime-side glue
// scripts (manifest, dispatcher, per-trigger-kind tables, mode-change
// listener) from the merge plan, via pre-declared templates.
package scriptgen

import (
	"slices"
	"strings"

	"go.rsplug.dev/rsplug/internal/core/domain"
)

// Build assembles a domain.ScriptBundle from the dependency graph and
// the merge plan produced by package merge.
func Build(graph *domain.Graph, plan *domain.MergePlan) *domain.ScriptBundle {
	bundle := domain.NewScriptBundle()

	for _, group := range plan.Groups {
		bundle.Manifest[group.Name] = buildSetupScript(graph, group)
		if group.Eager {
			bundle.StartGroups = append(bundle.StartGroups, group.Name)
		}
	}

	for _, group := range plan.Groups {
		for _, id := range group.Members {
			spec, ok := graph.Get(id)
			if !ok {
				continue
			}

			// A trigger on P must load every transitive `with`-dependency's
			// group before P's own group, in topo order, so the runtime
			// dispatcher packadds dependencies before the plugin that
			// needs them.
			withIDs := append(transitiveWith(graph, id), id)
			for _, groupName := range plan.GroupsOf(withIDs) {
				appendAll(bundle.OnEvent, spec.Triggers.OnEvent, groupName)
				appendAll(bundle.OnCmd, spec.Triggers.OnCmd, groupName)
				appendAll(bundle.OnFT, spec.Triggers.OnFT, groupName)
				appendAll(bundle.Require, spec.Triggers.RequireModules, groupName)

				for mode, patterns := range spec.Triggers.OnMap {
					if bundle.OnMap[mode] == nil {
						bundle.OnMap[mode] = make(map[string][]string)
					}
					appendAll(bundle.OnMap[mode], patterns, groupName)
				}
			}
		}
	}

	return bundle
}

// transitiveWith returns every plugin id reachable from id via `with`
// edges, ordered by ascending DAG position (dependencies of
// dependencies first), with no duplicates and excluding id itself.
func transitiveWith(graph *domain.Graph, id string) []string {
	seen := map[string]bool{id: true}
	var out []string

	var visit func(string)
	visit = func(current string) {
		for _, dep := range graph.Dependencies(current) {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			out = append(out, dep)
			visit(dep)
		}
	}
	visit(id)

	slices.SortFunc(out, func(a, b string) int {
		return graph.Position(a) - graph.Position(b)
	})
	return out
}

func buildSetupScript(graph *domain.Graph, group domain.MergeGroup) domain.SetupScript {
	var before, after, source []string
	for _, id := range group.Members {
		spec, ok := graph.Get(id)
		if !ok {
			continue
		}
		if spec.LuaBefore != "" {
			before = append(before, spec.LuaBefore)
		}
		if spec.LuaAfter != "" {
			after = append(after, spec.LuaAfter)
		}
		if spec.LuaStart != "" {
			source = append(source, spec.LuaStart)
		}
	}
	return domain.SetupScript{
		LuaBefore: strings.Join(before, "\n"),
		LuaAfter:  strings.Join(after, "\n"),
		LuaSource: strings.Join(source, "\n"),
	}
}

func appendAll(dst map[string][]string, keys []string, groupName string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if slices.Contains(dst[key], groupName) {
			continue
		}
		dst[key] = append(dst[key], groupName)
	}
}
