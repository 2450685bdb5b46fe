package schedule

import (
	"sort"
	"time"

	"github.com/rdleal/intervalst/interval"
)

// Conflict is a pair of active occurrences whose time ranges overlap, such
// as a rehearsal booked over a gig. First starts no later than Second.
type Conflict struct {
	First  Occurrence
	Second Occurrence
}

// Conflicts reports overlapping pairs among active occurrences. Ranges are
// half-open, so back-to-back bookings do not conflict.
func Conflicts(items []Occurrence) []Conflict {
	active := ActiveOnly(items)
	SortOccurrences(active)

	// Equal slots share one tree key; the multi-value tree keeps every index.
	tree := interval.NewMultiValueSearchTreeWithOptions[int](
		func(x, y time.Time) int { return x.Compare(y) },
		interval.TreeWithIntervalPoint(),
	)
	type pair struct{ first, second int }
	pairs := make([]pair, 0)

	for idx, item := range active {
		if !item.End.After(item.Start) {
			continue
		}
		last := item.End.Add(-time.Nanosecond)

		if overlaps, ok := tree.AllIntersections(item.Start, last); ok {
			for _, other := range overlaps {
				pairs = append(pairs, pair{first: other, second: idx})
			}
		}
		if err := tree.Insert(item.Start, last, idx); err != nil {
			continue
		}
	}

	if len(pairs) == 0 {
		return nil
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].second != pairs[j].second {
			return pairs[i].second < pairs[j].second
		}
		return pairs[i].first < pairs[j].first
	})

	conflicts := make([]Conflict, 0, len(pairs))
	for _, p := range pairs {
		conflicts = append(conflicts, Conflict{First: active[p.first], Second: active[p.second]})
	}
	return conflicts
}
