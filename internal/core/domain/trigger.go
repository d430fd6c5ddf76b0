package domain

import (
	"slices"
	"strconv"
	"strings"
)

// triggerSetKey builds a deterministic string key for a TriggerSet,
// used as the map key for the merge planner's bucketing pass. Two
// TriggerSets that are equal as multisets produce the same key
// regardless of input order.
func triggerSetKey(t TriggerSet) string {
	var b strings.Builder

	writeSortedSet(&b, "event", t.OnEvent)
	writeSortedSet(&b, "cmd", t.OnCmd)
	writeSortedSet(&b, "ft", t.OnFT)
	writeSortedSet(&b, "require", t.RequireModules)

	modes := make([]byte, 0, len(t.OnMap))
	for m := range t.OnMap {
		modes = append(modes, m)
	}
	slices.Sort(modes)
	b.WriteString("map[")
	for _, m := range modes {
		patterns := append([]string(nil), t.OnMap[m]...)
		slices.Sort(patterns)
		b.WriteByte(m)
		b.WriteByte(':')
		b.WriteString(strings.Join(patterns, ","))
		b.WriteByte(';')
	}
	b.WriteByte(']')

	return b.String()
}

func writeSortedSet(b *strings.Builder, label string, values []string) {
	sorted := append([]string(nil), values...)
	slices.Sort(sorted)
	b.WriteString(label)
	b.WriteByte('[')
	b.WriteString(strconv.Itoa(len(sorted)))
	b.WriteByte(']')
	b.WriteString(strings.Join(sorted, ","))
	b.WriteByte(';')
}
