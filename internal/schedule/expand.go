package schedule

import (
	"strings"
	"time"

	"github.com/shulck/Band-Sync3-sub001/internal/recurrence"
)

// ExpandEvents merges single and recurring events into the occurrences that
// start inside [windowStart, windowEnd), sorted for display.
func ExpandEvents(events []Event, windowStart, windowEnd time.Time) []Occurrence {
	return expandEvents(events, windowStart, windowEnd, func(event Event, series recurrence.Series) []time.Time {
		return series.Expand(windowStart, windowEnd)
	})
}

// ExpandEventsCached is ExpandEvents with recurring expansions served from
// cache. The cache is keyed on the window widened to whole UTC days, so
// callers that slide the window by minutes keep hitting the same entry.
func ExpandEventsCached(cache *recurrence.Cache, events []Event, windowStart, windowEnd time.Time) []Occurrence {
	if cache == nil {
		return ExpandEvents(events, windowStart, windowEnd)
	}
	cacheStart, cacheEnd := dayAligned(windowStart, windowEnd)
	return expandEvents(events, windowStart, windowEnd, func(event Event, series recurrence.Series) []time.Time {
		return clip(cache.Expand(event.ID, series, cacheStart, cacheEnd), windowStart, windowEnd)
	})
}

func dayAligned(windowStart, windowEnd time.Time) (time.Time, time.Time) {
	const day = 24 * time.Hour
	start := windowStart.UTC().Truncate(day)
	end := windowEnd.UTC().Truncate(day)
	if end.Before(windowEnd) {
		end = end.Add(day)
	}
	return start, end
}

func clip(dates []time.Time, windowStart, windowEnd time.Time) []time.Time {
	out := dates[:0]
	for _, t := range dates {
		if inWindow(t, windowStart, windowEnd) {
			out = append(out, t)
		}
	}
	return out
}

type expander func(event Event, series recurrence.Series) []time.Time

func expandEvents(events []Event, windowStart, windowEnd time.Time, expand expander) []Occurrence {
	if len(events) == 0 || !windowStart.Before(windowEnd) {
		return nil
	}

	occurrences := make([]Occurrence, 0, len(events))
	for _, event := range events {
		if strings.TrimSpace(event.ID) == "" {
			continue
		}

		series, recurring := event.Series()
		if !recurring {
			if start := event.LocalDate(); inWindow(start, windowStart, windowEnd) {
				occurrences = append(occurrences, occurrenceFromEvent(event, start))
			}
			continue
		}

		for _, start := range expand(event, series) {
			occurrences = append(occurrences, occurrenceFromEvent(event, start))
		}
	}

	unique := dedupeOccurrences(occurrences)
	SortOccurrences(unique)
	return unique
}

func inWindow(t, windowStart, windowEnd time.Time) bool {
	return !t.Before(windowStart) && t.Before(windowEnd)
}

func occurrenceFromEvent(event Event, start time.Time) Occurrence {
	mapURL, eventURL, provider := DeriveLinks(event)
	return Occurrence{
		EventID:   event.ID,
		GroupID:   event.GroupID,
		Title:     sanitize(fallback(event.Title, TypeLabel(event.Type))),
		Type:      normalizeType(event.Type),
		Status:    strings.ToLower(sanitize(event.Status)),
		Location:  sanitize(event.Location),
		Notes:     strings.TrimSpace(event.Notes),
		Start:     start,
		End:       start.Add(event.Duration()),
		Recurring: event.IsRecurring,
		MapURL:    mapURL,
		EventURL:  eventURL,
		Provider:  provider,
	}
}

func dedupeOccurrences(items []Occurrence) []Occurrence {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(items))
	results := make([]Occurrence, 0, len(items))
	for _, item := range items {
		key := item.Key()
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		results = append(results, item)
	}
	return results
}

func sanitize(value string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(value)), " ")
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}
