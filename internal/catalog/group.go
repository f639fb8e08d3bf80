package catalog

import (
	"slices"

	"github.com/soyeahso/azent/internal/domain"
)

// Group is one category and its agents in input order.
type Group struct {
	Category string
	Agents   []domain.Agent
}

// GroupByCategory partitions agents by category key. Groups appear in the
// order their category is first seen; agents keep their input order.
func GroupByCategory(agents []domain.Agent) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, a := range agents {
		key := a.CategoryKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Category: key})
		}
		groups[i].Agents = append(groups[i].Agents, a)
	}
	return groups
}

// Categories returns the distinct category keys sorted alphabetically.
func Categories(agents []domain.Agent) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, a := range agents {
		key := a.CategoryKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
