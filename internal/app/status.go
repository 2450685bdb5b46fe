package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shulck/Band-Sync3-sub001/internal/log"
	"github.com/shulck/Band-Sync3-sub001/internal/schedule"
	"github.com/shulck/Band-Sync3-sub001/internal/state"
	"github.com/shulck/Band-Sync3-sub001/internal/waybar"
)

const tooltipItems = 4

func (r *runner) buildStatus(ctx context.Context) (waybar.Output, error) {
	cfg := r.cfg
	if err := state.EnsureDirs(cfg.StateDir, cfg.MenuDir); err != nil {
		return waybar.Output{}, err
	}

	if cfg.GroupID == "" {
		return r.renderUnknownState("No band group selected\nRun select-group or set WAYBAR_BANDSYNC_GROUP_ID")
	}

	now := r.now()
	windowStart := now.Add(-cfg.QueryLookback)
	windowEnd := now.Add(cfg.QueryAhead)

	occurrences, err := r.loadOccurrences(ctx, windowStart, windowEnd)
	if err != nil {
		log.Error("load occurrences", err, "group", cfg.GroupID)
		return r.renderErrorState(fmt.Sprintf("Event store query failed: %s", err.Error()))
	}

	upcoming := schedule.Upcoming(occurrences, now, cfg.Lookahead, cfg.MaxItems)
	conflicts := schedule.Conflicts(upcoming)
	if err := state.SaveOccurrences(cfg.ItemsPath, upcoming); err != nil {
		return waybar.Output{}, err
	}
	log.Debug("status refreshed", "occurrences", len(occurrences), "upcoming", len(upcoming), "conflicts", len(conflicts))

	hasNext := len(upcoming) > 0
	var next schedule.Occurrence
	if hasNext {
		next = upcoming[0]
	}

	statusLine := fmt.Sprintf("Nothing in the next %s", schedule.HumanizeDuration(cfg.Lookahead))
	menuData := state.MenuData{StatusLine: statusLine, Items: upcoming, Conflicts: len(conflicts), Now: now}
	if hasNext {
		menuData.Next = &next
	}
	if err := state.WriteMenu(cfg.MenuPath, menuData); err != nil {
		return waybar.Output{}, err
	}

	tooltip := buildTooltip(now, cfg.Lookahead, hasNext, next, upcoming, conflicts)
	if !hasNext {
		return waybar.Output{Text: "—", Tooltip: tooltip, Class: "clear"}, nil
	}

	class := "normal"
	switch {
	case len(conflicts) > 0:
		class = "conflict"
	case next.Cancelled():
		class = "cancelled"
	case !next.Start.After(now):
		class = "ongoing"
	}

	return waybar.Output{
		Text:    fmt.Sprintf("%s %s", schedule.TypeLabel(next.Type), schedule.CountdownText(now, next)),
		Alt:     fallback(next.Type, schedule.TypeOther),
		Tooltip: tooltip,
		Class:   class,
	}, nil
}

func buildTooltip(now time.Time, lookahead time.Duration, hasNext bool, next schedule.Occurrence, upcoming []schedule.Occurrence, conflicts []schedule.Conflict) string {
	var b strings.Builder

	if hasNext {
		if next.Start.After(now) {
			_, _ = fmt.Fprintf(&b, "Next in %s: %s\n", schedule.HumanizeDuration(next.Start.Sub(now)), next.Title)
		} else {
			_, _ = fmt.Fprintf(&b, "In progress: %s\n", next.Title)
		}

		_, _ = fmt.Fprintf(&b, "%s: %s to %s\n", schedule.TypeLabel(next.Type), next.Start.Format("Mon 15:04"), next.End.Format("15:04"))
		if next.Status != "" && next.Status != schedule.StatusConfirmed {
			_, _ = fmt.Fprintf(&b, "Status: %s\n", next.Status)
		}
		if strings.TrimSpace(next.Location) != "" {
			_, _ = fmt.Fprintf(&b, "Where: %s\n", next.Location)
		}
		if strings.TrimSpace(next.Provider) != "" {
			_, _ = fmt.Fprintf(&b, "Map: %s\n", providerLabel(next.Provider))
		}
		if next.Recurring {
			_, _ = fmt.Fprint(&b, "Repeats\n")
		}
	} else {
		_, _ = fmt.Fprintf(&b, "Nothing in the next %s\n", schedule.HumanizeDuration(lookahead))
	}

	for _, conflict := range conflicts {
		_, _ = fmt.Fprintf(&b, "Conflict: %s overlaps %s\n", conflict.Second.Title, conflict.First.Title)
	}

	if len(upcoming) > 0 {
		_, _ = fmt.Fprint(&b, "\nUpcoming:\n")
		limit := len(upcoming)
		if limit > tooltipItems {
			limit = tooltipItems
		}
		for _, item := range upcoming[:limit] {
			_, _ = fmt.Fprintf(&b, "%s · %s\n", item.Start.Format("Mon 15:04"), item.Title)
		}
	}

	_, _ = fmt.Fprint(&b, "Click to open dropdown")
	return strings.TrimSpace(b.String())
}

func providerLabel(provider string) string {
	switch provider {
	case schedule.ProviderGoogleMaps:
		return "Google Maps"
	case schedule.ProviderAppleMaps:
		return "Apple Maps"
	case schedule.ProviderOpenStreetMap:
		return "OpenStreetMap"
	default:
		return provider
	}
}

func (r *runner) renderUnknownState(tooltip string) (waybar.Output, error) {
	if err := r.clearState(tooltip); err != nil {
		return waybar.Output{}, err
	}
	return waybar.Output{Text: "?", Tooltip: tooltip, Class: "unknown"}, nil
}

func (r *runner) renderErrorState(tooltip string) (waybar.Output, error) {
	if err := r.clearState("Event store query failed"); err != nil {
		return waybar.Output{}, err
	}
	return waybar.Output{Text: "!", Tooltip: tooltip, Class: "error"}, nil
}

func (r *runner) clearState(statusLine string) error {
	if err := state.SaveOccurrences(r.cfg.ItemsPath, []schedule.Occurrence{}); err != nil {
		return err
	}
	firstLine, _, _ := strings.Cut(statusLine, "\n")
	return state.WriteMenu(r.cfg.MenuPath, state.MenuData{StatusLine: firstLine, Now: r.now()})
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}
