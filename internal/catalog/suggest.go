package catalog

import (
	"github.com/sahilm/fuzzy"

	"github.com/soyeahso/azent/internal/domain"
)

const maxSuggestions = 3

// FacetValues returns the values offered for facet f: the fixed menu
// followed by any extra values present in agents, without duplicates.
func FacetValues(f domain.Facet, agents []domain.Agent) []string {
	seen := make(map[string]struct{})
	var values []string
	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	for _, v := range f.Options() {
		add(v)
	}
	for _, a := range agents {
		add(a.FacetValue(f))
	}
	return values
}

// Suggest proposes known values of facet f that fuzzily match input, best
// first. An exact match yields nothing since there is nothing to correct.
func Suggest(f domain.Facet, input string, agents []domain.Agent) []string {
	if input == "" {
		return nil
	}
	values := FacetValues(f, agents)
	for _, v := range values {
		if v == input {
			return nil
		}
	}
	matches := fuzzy.Find(input, values)
	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
