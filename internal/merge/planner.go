// Package merge decides which plugins may share a single
// generated pack entry per lazy-load trigger set without file
// collisions, minimizing the editor's runtime path set.
package merge

import (
	"sort"
	"strconv"

	"go.rsplug.dev/rsplug/internal/adapters/fs"
	"go.rsplug.dev/rsplug/internal/core/domain"
)

// CheckoutDirs maps a plugin id to the root of its checked-out working
// tree, as reported by ports.RepoSyncResult.Dir.
type CheckoutDirs map[string]string

// Plan buckets specs by effective trigger set, then greedily bin-packs
// each bucket by pack-visible path disjointness.
func Plan(graph *domain.Graph, dirs CheckoutDirs) (*domain.MergePlan, error) {
	order := graph.Order()
	walker := fs.NewWalker()

	pathSets := make(map[string]map[string]bool, len(order))
	for _, id := range order {
		spec, _ := graph.Get(id)
		dir, ok := dirs[id]
		if !ok || spec.ConfigOnly {
			pathSets[id] = map[string]bool{}
			continue
		}
		ignore := fs.New(spec.Ignore)
		set := make(map[string]bool)
		for path := range walker.WalkFiles(dir, ignore) {
			set[path] = true
		}
		pathSets[id] = set
	}

	type bucket struct {
		groups []*groupBuilder
	}
	buckets := make(map[string]*bucket)
	var bucketOrder []string

	for _, id := range order {
		spec, _ := graph.Get(id)
		key := spec.EffectiveTriggerKey()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
			bucketOrder = append(bucketOrder, key)
		}

		placed := false
		for _, g := range b.groups {
			if disjoint(g.paths, pathSets[id]) {
				g.add(id, pathSets[id])
				placed = true
				break
			}
		}
		if !placed {
			g := newGroupBuilder(spec.Triggers)
			g.add(id, pathSets[id])
			b.groups = append(b.groups, g)
		}
	}

	var allGroups []*groupBuilder
	for _, key := range bucketOrder {
		allGroups = append(allGroups, buckets[key].groups...)
	}

	// Eager groups are numbered before lazy ones regardless of DAG
	// position; ties within a class break by ascending first-member
	// position.
	sort.SliceStable(allGroups, func(i, j int) bool {
		ei, ej := allGroups[i].trigger.IsEager(), allGroups[j].trigger.IsEager()
		if ei != ej {
			return ei
		}
		return graph.Position(allGroups[i].members[0]) < graph.Position(allGroups[j].members[0])
	})

	plan := &domain.MergePlan{GroupOf: make(map[string]string, len(order))}
	for k, g := range allGroups {
		name := "_gen_" + strconv.Itoa(k)
		mg := domain.MergeGroup{
			Name:    name,
			Members: g.members,
			Eager:   g.trigger.IsEager(),
			Trigger: g.trigger,
		}
		plan.Groups = append(plan.Groups, mg)
		for _, id := range g.members {
			plan.GroupOf[id] = name
		}
	}

	return plan, nil
}

type groupBuilder struct {
	members []string
	paths   map[string]bool
	trigger domain.TriggerSet
}

func newGroupBuilder(trigger domain.TriggerSet) *groupBuilder {
	return &groupBuilder{paths: make(map[string]bool), trigger: trigger}
}

func (g *groupBuilder) add(id string, paths map[string]bool) {
	g.members = append(g.members, id)
	for p := range paths {
		g.paths[p] = true
	}
}

func disjoint(a, b map[string]bool) bool {
	for p := range b {
		if a[p] {
			return false
		}
	}
	return true
}

