package itinerary

import (
	"sort"

	"github.com/homiapp/planner-api/internal/domain"
)

// SortedByTime returns a copy of items ordered by their "HH:MM" clock time
// ascending. Zero-padded times make plain string comparison correct. The
// sort is stable, so activities sharing a time keep their insertion order.
// The input slice is never modified.
func SortedByTime(items []domain.Activity) []domain.Activity {
	out := make([]domain.Activity, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out
}
