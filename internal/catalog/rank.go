package catalog

import (
	"slices"

	"github.com/soyeahso/azent/internal/domain"
)

// TopByLikes returns up to n agents ordered by likes descending. Ties keep
// their input order. Absent or negative likes rank as zero.
func TopByLikes(agents []domain.Agent, n int) []domain.Agent {
	if n <= 0 {
		return []domain.Agent{}
	}
	sorted := slices.Clone(agents)
	slices.SortStableFunc(sorted, func(a, b domain.Agent) int {
		return b.LikeCount() - a.LikeCount()
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
