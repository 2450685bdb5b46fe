package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shulck/Band-Sync3-sub001/internal/log"
	"github.com/shulck/Band-Sync3-sub001/internal/schedule"
	"github.com/shulck/Band-Sync3-sub001/internal/state"
)

// notifyUpcoming sends one desktop notification per occurrence starting
// within the notify lead time. Sent keys are remembered in state so each
// occurrence is announced once.
func (r *runner) notifyUpcoming(ctx context.Context) error {
	cfg := r.cfg
	if cfg.GroupID == "" || cfg.NotifyLead <= 0 {
		return nil
	}

	now := r.now()
	// One extra minute keeps occurrences starting exactly at the lead time.
	occurrences, err := r.loadOccurrences(ctx, now.Add(-cfg.QueryLookback), now.Add(cfg.NotifyLead+time.Minute))
	if err != nil {
		return err
	}
	due := schedule.Upcoming(schedule.ActiveOnly(occurrences), now, cfg.NotifyLead, len(occurrences))

	notified, err := state.LoadNotified(cfg.NotifiedPath)
	if err != nil {
		return err
	}

	pending := make([]schedule.Occurrence, 0, len(due))
	for _, item := range due {
		if !item.Start.After(now) || notified.Has(item.Key()) {
			continue
		}
		pending = append(pending, item)
	}

	if len(pending) > 0 {
		client, err := r.newNotifier(ctx)
		if err != nil {
			return err
		}
		defer func() {
			_ = client.Close()
		}()

		for _, item := range pending {
			summary, body := notificationText(item, schedule.CountdownText(now, item))
			if _, err := client.Notify(ctx, summary, body); err != nil {
				log.Error("send notification", err, "event", item.EventID)
				continue
			}
			notified.Add(item.Key())
		}
	}

	notified.Prune(now.Add(-cfg.QueryLookback))
	return state.SaveNotified(cfg.NotifiedPath, notified, now)
}

func notificationText(item schedule.Occurrence, countdown string) (summary, body string) {
	summary = fmt.Sprintf("%s in %s: %s", schedule.TypeLabel(item.Type), countdown, item.Title)

	lines := []string{item.Start.Format("Mon 15:04") + " to " + item.End.Format("15:04")}
	if item.Location != "" {
		lines = append(lines, item.Location)
	}
	if item.Status == schedule.StatusTentative {
		lines = append(lines, "Tentative")
	}
	return summary, strings.Join(lines, "\n")
}
