// Package catalog derives listing views from an agent collection. Every
// function here is pure: inputs are never mutated and results are recomputed
// from scratch on each call.
package catalog

import "github.com/soyeahso/azent/internal/domain"

// Matches reports whether a passes every facet of fs. A facet selecting any
// value always passes; a concrete value must equal the agent's field exactly.
func Matches(a domain.Agent, fs domain.FilterState) bool {
	for _, f := range domain.Facets {
		if !fs.Selection(f).Admits(a.FacetValue(f)) {
			return false
		}
	}
	return true
}

// Filter returns the agents matching fs in their original order.
func Filter(agents []domain.Agent, fs domain.FilterState) []domain.Agent {
	out := make([]domain.Agent, 0, len(agents))
	for _, a := range agents {
		if Matches(a, fs) {
			out = append(out, a)
		}
	}
	return out
}
