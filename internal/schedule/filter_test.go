package schedule

import (
	"testing"
	"time"
)

func TestActiveOnly_DropsCancelled(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	items := []Occurrence{
		{Title: "Cancelled gig", Status: "Cancelled", Start: now.Add(10 * time.Minute), End: now.Add(40 * time.Minute)},
		{Title: "Rehearsal", Status: StatusConfirmed, Start: now.Add(20 * time.Minute), End: now.Add(50 * time.Minute)},
	}

	filtered := ActiveOnly(items)
	if len(filtered) != 1 {
		t.Fatalf("expected 1 active occurrence, got %d", len(filtered))
	}
	if filtered[0].Title != "Rehearsal" {
		t.Fatalf("unexpected filtered title: %q", filtered[0].Title)
	}
}

func TestUpcoming_RespectsWithinWindow(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC().Truncate(time.Second)
	items := []Occurrence{
		{Title: "Tomorrow", Start: now.Add(26 * time.Hour), End: now.Add(27 * time.Hour)},
		{Title: "Soon", Start: now.Add(2 * time.Hour), End: now.Add(3 * time.Hour)},
		{Title: "Over", Start: now.Add(-3 * time.Hour), End: now.Add(-time.Hour)},
	}

	upcoming := Upcoming(items, now, 24*time.Hour, 8)
	if len(upcoming) != 1 {
		t.Fatalf("expected 1 upcoming item in 24h, got %d", len(upcoming))
	}
	if upcoming[0].Title != "Soon" {
		t.Fatalf("unexpected upcoming title: %q", upcoming[0].Title)
	}
}

func TestUpcoming_CapsItems(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC().Truncate(time.Second)
	items := make([]Occurrence, 0, 5)
	for i := 0; i < 5; i++ {
		start := now.Add(time.Duration(i+1) * time.Hour)
		items = append(items, Occurrence{EventID: "rehearsal", Start: start, End: start.Add(time.Hour)})
	}

	if got := Upcoming(items, now, 24*time.Hour, 3); len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	if got := Upcoming(items, now, 24*time.Hour, 0); got != nil {
		t.Fatalf("expected nil for zero max items, got %v", got)
	}
}

func TestNextWithin_IncludesInProgress(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC().Truncate(time.Second)
	items := []Occurrence{
		{Title: "Later", Start: now.Add(time.Hour), End: now.Add(2 * time.Hour)},
		{Title: "Sound check", Start: now.Add(-10 * time.Minute), End: now.Add(20 * time.Minute)},
	}

	next, ok := NextWithin(items, now, 30*time.Minute)
	if !ok {
		t.Fatal("expected an occurrence")
	}
	if next.Title != "Sound check" {
		t.Fatalf("unexpected next title: %q", next.Title)
	}
	if CountdownText(now, next) != "now" {
		t.Fatalf("expected countdown now, got %q", CountdownText(now, next))
	}
}

func TestSortOccurrences_GigsFirstOnTies(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	items := []Occurrence{
		{EventID: "b", Title: "Weekly sync", Type: TypeMeeting, Start: start},
		{EventID: "a", Title: "Release show", Type: TypeGig, Start: start},
		{EventID: "c", Title: "Early", Type: TypeOther, Start: start.Add(-time.Hour)},
	}

	SortOccurrences(items)
	for i, want := range []string{"c", "a", "b"} {
		if items[i].EventID != want {
			t.Fatalf("position %d: got %q, want %q", i, items[i].EventID, want)
		}
	}
}

func TestHumanizeDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Duration
		out  string
	}{
		{name: "minutes", in: 24 * time.Minute, out: "24m"},
		{name: "hours_minutes", in: 4*time.Hour + 24*time.Minute, out: "4h 24m"},
		{name: "days_hours_minutes", in: 2*24*time.Hour + 3*time.Hour + 5*time.Minute, out: "2d 3h 5m"},
		{name: "whole_day", in: 24 * time.Hour, out: "1d"},
		{name: "non_positive", in: 0, out: "now"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HumanizeDuration(tc.in); got != tc.out {
				t.Fatalf("HumanizeDuration() = %q, want %q", got, tc.out)
			}
		})
	}
}
