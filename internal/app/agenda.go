package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shulck/Band-Sync3-sub001/internal/schedule"
)

// agenda prints the group's occurrences for days calendar days starting
// today, one block per day.
func (r *runner) agenda(ctx context.Context, days int) error {
	if r.cfg.GroupID == "" {
		return fmt.Errorf("no band group configured")
	}

	now := r.now()
	windowStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowEnd := windowStart.AddDate(0, 0, days)

	occurrences, err := r.loadOccurrences(ctx, windowStart, windowEnd)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(r.stdout, formatAgenda(occurrences, days, now.Location()))
	return err
}

func formatAgenda(occurrences []schedule.Occurrence, days int, loc *time.Location) string {
	if len(occurrences) == 0 {
		return fmt.Sprintf("No events in the next %d day(s)\n", days)
	}

	conflicted := make(map[string]struct{})
	for _, conflict := range schedule.Conflicts(occurrences) {
		conflicted[conflict.First.Key()] = struct{}{}
		conflicted[conflict.Second.Key()] = struct{}{}
	}

	var b strings.Builder
	currentDay := ""
	for _, item := range occurrences {
		start := item.Start.In(loc)
		if day := start.Format("Mon Jan 2"); day != currentDay {
			if currentDay != "" {
				b.WriteString("\n")
			}
			currentDay = day
			_, _ = fmt.Fprintln(&b, day)
		}

		marker := " "
		if _, ok := conflicted[item.Key()]; ok {
			marker = "!"
		}
		_, _ = fmt.Fprintf(&b, "%s %s-%s  %-9s %s", marker, start.Format("15:04"), item.End.In(loc).Format("15:04"), schedule.TypeLabel(item.Type), item.Title)
		if item.Location != "" {
			_, _ = fmt.Fprintf(&b, " @ %s", item.Location)
		}
		if item.Status != "" && item.Status != schedule.StatusConfirmed {
			_, _ = fmt.Fprintf(&b, " [%s]", item.Status)
		}
		if item.Recurring {
			b.WriteString(" (repeats)")
		}
		b.WriteString("\n")
	}
	return b.String()
}
