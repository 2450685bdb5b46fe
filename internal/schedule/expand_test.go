package schedule

import (
	"testing"
	"time"

	"github.com/shulck/Band-Sync3-sub001/internal/recurrence"
)

func date(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func TestExpandEvents_MergesSingleAndRecurring(t *testing.T) {
	t.Parallel()

	end := date(2024, 1, 14, 0)
	events := []Event{
		{
			ID:                   "rehearsal",
			Title:                "Rehearsal",
			Type:                 TypeRehearsal,
			Date:                 date(2024, 1, 3, 19),
			DurationMinutes:      180,
			IsRecurring:          true,
			RecurrenceType:       "Weekly",
			RecurrenceDaysOfWeek: []int{5, 3},
			RecurrenceEndDate:    &end,
		},
		{
			ID:    "gig",
			Title: "Club show",
			Type:  TypeGig,
			Date:  date(2024, 1, 5, 19),
		},
		{
			ID:    "old-gig",
			Title: "Last year",
			Type:  TypeGig,
			Date:  date(2023, 12, 20, 19),
		},
	}

	occurrences := ExpandEvents(events, date(2024, 1, 1, 0), date(2024, 1, 22, 0))

	want := []struct {
		id    string
		start time.Time
	}{
		{"rehearsal", date(2024, 1, 3, 19)},
		{"gig", date(2024, 1, 5, 19)},
		{"rehearsal", date(2024, 1, 5, 19)},
		{"rehearsal", date(2024, 1, 10, 19)},
		{"rehearsal", date(2024, 1, 12, 19)},
	}

	if len(occurrences) != len(want) {
		t.Fatalf("expected %d occurrences, got %d: %+v", len(want), len(occurrences), occurrences)
	}
	for i, w := range want {
		if occurrences[i].EventID != w.id || !occurrences[i].Start.Equal(w.start) {
			t.Fatalf("occurrence %d: got %s@%v, want %s@%v", i, occurrences[i].EventID, occurrences[i].Start, w.id, w.start)
		}
	}

	if got := occurrences[0].End.Sub(occurrences[0].Start); got != 3*time.Hour {
		t.Fatalf("unexpected rehearsal duration %v", got)
	}
	if !occurrences[0].Recurring || occurrences[1].Recurring {
		t.Fatalf("recurring flags not carried: %+v", occurrences[:2])
	}
	if occurrences[0].Type != TypeRehearsal {
		t.Fatalf("type not normalized: %q", occurrences[0].Type)
	}
}

func TestExpandEvents_UnknownRecurrenceTypeYieldsNothing(t *testing.T) {
	t.Parallel()

	events := []Event{
		{ID: "broken", Title: "Broken", Date: date(2024, 1, 1, 10), IsRecurring: true, RecurrenceType: ""},
		{ID: "odd", Title: "Odd", Date: date(2024, 1, 1, 10), IsRecurring: true, RecurrenceType: "fortnightly"},
	}

	if got := ExpandEvents(events, date(2024, 1, 1, 0), date(2025, 1, 1, 0)); len(got) != 0 {
		t.Fatalf("expected no occurrences, got %d", len(got))
	}
}

func TestExpandEvents_SkipsEventsWithoutID(t *testing.T) {
	t.Parallel()

	events := []Event{{Title: "Orphan", Date: date(2024, 1, 2, 10)}}
	if got := ExpandEvents(events, date(2024, 1, 1, 0), date(2024, 2, 1, 0)); len(got) != 0 {
		t.Fatalf("expected no occurrences, got %d", len(got))
	}
}

func TestExpandEventsCached_MatchesUncached(t *testing.T) {
	t.Parallel()

	events := []Event{
		{ID: "monthly", Title: "Band meeting", Type: TypeMeeting, Date: date(2024, 1, 31, 18), IsRecurring: true, RecurrenceType: RecurrenceMonthly, RecurrenceInterval: 1},
		{ID: "single", Title: "Studio", Type: TypeRecording, Date: date(2024, 3, 2, 11)},
	}
	windowStart := date(2024, 1, 1, 0)
	windowEnd := date(2024, 6, 1, 0)

	cache := recurrence.NewCache(recurrence.DefaultCacheConfig)
	plain := ExpandEvents(events, windowStart, windowEnd)
	first := ExpandEventsCached(cache, events, windowStart, windowEnd)
	second := ExpandEventsCached(cache, events, windowStart, windowEnd)

	if len(plain) != 6 {
		t.Fatalf("expected 6 occurrences, got %d", len(plain))
	}
	if plain[1].Start.Day() != 29 {
		t.Fatalf("expected february meeting on the 29th, got %v", plain[1].Start)
	}
	for i := range plain {
		if plain[i].Key() != first[i].Key() || plain[i].Key() != second[i].Key() {
			t.Fatalf("cached expansion differs at %d", i)
		}
	}

	_, hits, _ := cache.Stats()
	if hits != 1 {
		t.Fatalf("expected one cache hit, got %d", hits)
	}
}

func TestEventSeries(t *testing.T) {
	t.Parallel()

	single := Event{ID: "one", Date: date(2024, 1, 1, 10)}
	if _, ok := single.Series(); ok {
		t.Fatal("non-recurring event must not produce a series")
	}

	until := date(2024, 12, 31, 0)
	weekly := Event{
		ID:                   "weekly",
		Date:                 date(2024, 1, 1, 10),
		IsRecurring:          true,
		RecurrenceType:       RecurrenceWeekly,
		RecurrenceInterval:   2,
		RecurrenceDaysOfWeek: []int{1, 4},
		RecurrenceEndDate:    &until,
	}
	series, ok := weekly.Series()
	if !ok {
		t.Fatal("expected a series")
	}
	rule, isWeekly := series.Rule.(recurrence.Weekly)
	if !isWeekly {
		t.Fatalf("expected weekly rule, got %T", series.Rule)
	}
	if rule.Interval != 2 || !rule.Days.Has(recurrence.Thursday) {
		t.Fatalf("unexpected rule %+v", rule)
	}
	if got, present := series.Until.Get(); !present || !got.Equal(until) {
		t.Fatalf("unexpected until %v", got)
	}

	var roundTrip Event
	roundTrip.ApplySeries(series)
	if roundTrip.RecurrenceType != RecurrenceWeekly || roundTrip.RecurrenceInterval != 2 {
		t.Fatalf("unexpected round trip %+v", roundTrip)
	}
	if len(roundTrip.RecurrenceDaysOfWeek) != 2 || roundTrip.RecurrenceDaysOfWeek[0] != 1 || roundTrip.RecurrenceDaysOfWeek[1] != 4 {
		t.Fatalf("unexpected days %v", roundTrip.RecurrenceDaysOfWeek)
	}
	if roundTrip.RecurrenceEndDate == nil || !roundTrip.RecurrenceEndDate.Equal(until) {
		t.Fatalf("unexpected end date %v", roundTrip.RecurrenceEndDate)
	}

	roundTrip.ApplySeries(recurrence.Series{Anchor: date(2024, 1, 1, 10), Rule: recurrence.None{}})
	if roundTrip.IsRecurring || roundTrip.RecurrenceType != "" {
		t.Fatalf("None rule must clear recurrence: %+v", roundTrip)
	}
}

func TestExpandEvents_EndDateWestOfUTC(t *testing.T) {
	t.Parallel()

	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	end := date(2024, 3, 10, 0)
	events := []Event{{
		ID:                 "warmup",
		Title:              "Warmup",
		Date:               time.Date(2024, 3, 1, 18, 0, 0, 0, newYork),
		TimeZone:           "America/New_York",
		IsRecurring:        true,
		RecurrenceType:     RecurrenceDaily,
		RecurrenceInterval: 1,
		RecurrenceEndDate:  &end,
	}}

	occurrences := ExpandEvents(events, date(2024, 2, 1, 0), date(2024, 4, 1, 0))
	if len(occurrences) != 10 {
		t.Fatalf("expected 10 occurrences, got %d", len(occurrences))
	}
	last := occurrences[len(occurrences)-1].Start.In(newYork)
	if last.Day() != 10 || last.Hour() != 18 {
		t.Fatalf("unexpected last occurrence %v", last)
	}
}

func TestExpandEventsCached_SlidingWindowHits(t *testing.T) {
	t.Parallel()

	events := []Event{{
		ID:             "daily",
		Title:          "Warmup",
		Date:           date(2024, 1, 1, 9),
		IsRecurring:    true,
		RecurrenceType: RecurrenceDaily,
	}}

	cache := recurrence.NewCache(recurrence.DefaultCacheConfig)
	now := time.Date(2024, 2, 10, 8, 59, 30, 0, time.UTC)
	first := ExpandEventsCached(cache, events, now, now.Add(48*time.Hour))
	later := now.Add(time.Minute)
	second := ExpandEventsCached(cache, events, later, later.Add(48*time.Hour))

	if len(first) != 2 || !first[0].Start.Equal(date(2024, 2, 10, 9)) {
		t.Fatalf("unexpected first expansion %+v", first)
	}
	if len(second) != 2 || !second[0].Start.Equal(date(2024, 2, 11, 9)) || !second[1].Start.Equal(date(2024, 2, 12, 9)) {
		t.Fatalf("sliding window must clip to its own bounds, got %+v", second)
	}

	_, hits, misses := cache.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %d/%d", hits, misses)
	}
}
