package analysis

import (
	"sort"

	"facilitydash/domain/facility"
)

// DefaultTopN is the size of the top facilities table
const DefaultTopN = 10

// TopN returns at most n facilities ordered by Score descending.
// Ties keep input order; missing scores sort last.
func TopN(facilities []facility.Facility, n int) []facility.Facility {
	sorted := make([]facility.Facility, len(facilities))
	copy(sorted, facilities)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.HasScore() {
			return false
		}
		if !b.HasScore() {
			return true
		}
		return a.Score > b.Score
	})

	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
