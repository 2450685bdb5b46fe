package schedule

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

func SortOccurrences(items []Occurrence) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Start.Equal(items[j].Start) {
			return items[i].Start.Before(items[j].Start)
		}
		if rankI, rankJ := typeRank(items[i].Type), typeRank(items[j].Type); rankI != rankJ {
			return rankI < rankJ
		}
		if !strings.EqualFold(items[i].Title, items[j].Title) {
			return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
		}
		return items[i].EventID < items[j].EventID
	})
}

func ActiveOnly(items []Occurrence) []Occurrence {
	if len(items) == 0 {
		return nil
	}

	filtered := make([]Occurrence, 0, len(items))
	for _, item := range items {
		if item.Cancelled() {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func Upcoming(items []Occurrence, now time.Time, within time.Duration, maxItems int) []Occurrence {
	if len(items) == 0 || maxItems <= 0 {
		return nil
	}

	copyItems := candidates(items, now, within)
	if len(copyItems) > maxItems {
		copyItems = copyItems[:maxItems]
	}
	return copyItems
}

func NextWithin(items []Occurrence, now time.Time, within time.Duration) (Occurrence, bool) {
	found := candidates(items, now, within)
	if len(found) == 0 {
		return Occurrence{}, false
	}
	return found[0], true
}

// candidates keeps occurrences still running at now or starting by now+within.
func candidates(items []Occurrence, now time.Time, within time.Duration) []Occurrence {
	if len(items) == 0 {
		return nil
	}

	windowEnd := now.Add(within)
	found := make([]Occurrence, 0, len(items))
	for _, item := range items {
		if !item.End.After(now) {
			continue
		}
		if item.Start.After(windowEnd) {
			continue
		}
		found = append(found, item)
	}

	SortOccurrences(found)
	return found
}

func CountdownText(now time.Time, item Occurrence) string {
	if !item.Start.After(now) {
		return "now"
	}
	return HumanizeDuration(item.Start.Sub(now))
}

func HumanizeDuration(d time.Duration) string {
	if d <= 0 {
		return "now"
	}

	minutes := int(math.Ceil(d.Minutes()))
	days := minutes / (24 * 60)
	remaining := minutes % (24 * 60)
	hours := remaining / 60
	mins := remaining % 60

	parts := make([]string, 0, 3)
	if days > 0 {
		parts = append(parts, strconv.Itoa(days)+"d")
	}
	if hours > 0 {
		parts = append(parts, strconv.Itoa(hours)+"h")
	}
	if mins > 0 {
		parts = append(parts, strconv.Itoa(mins)+"m")
	}
	if len(parts) == 0 {
		parts = append(parts, "0m")
	}
	return strings.Join(parts, " ")
}
