package app

import (
	"context"
	"strings"

	"github.com/shulck/Band-Sync3-sub001/internal/schedule"
	"github.com/shulck/Band-Sync3-sub001/internal/state"
)

// openItem opens the map link of the index-th upcoming occurrence from the
// last refresh, falling back to its event link. Out of range is a no-op.
func (r *runner) openItem(ctx context.Context, index int) error {
	items, err := state.LoadOccurrences(r.cfg.ItemsPath)
	if err != nil {
		return err
	}
	if index < 1 || index > len(items) {
		return nil
	}
	return r.openOccurrence(ctx, items[index-1])
}

func (r *runner) openOccurrence(ctx context.Context, item schedule.Occurrence) error {
	target := strings.TrimSpace(item.MapURL)
	if target == "" {
		target = strings.TrimSpace(item.EventURL)
	}
	if target == "" {
		return nil
	}
	return r.openURL(ctx, target)
}
