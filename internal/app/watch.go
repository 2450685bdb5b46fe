package app

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/shulck/Band-Sync3-sub001/internal/log"
)

// watch refreshes state and sends notifications on the refresh schedule
// until ctx is cancelled. Expansions are cached across ticks.
func (r *runner) watch(ctx context.Context) error {
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := scheduler.AddFunc(r.cfg.RefreshCron, func() { r.tick(ctx) }); err != nil {
		return fmt.Errorf("schedule refresh %q: %w", r.cfg.RefreshCron, err)
	}

	log.Info("watching", "cron", r.cfg.RefreshCron, "group", r.cfg.GroupID)
	r.tick(ctx)
	scheduler.Start()

	<-ctx.Done()
	<-scheduler.Stop().Done()
	log.Info("watch stopped")
	return nil
}

func (r *runner) tick(parent context.Context) {
	if parent.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(parent, r.cfg.Timeout)
	defer cancel()

	if _, err := r.buildStatus(ctx); err != nil {
		log.Error("refresh", err)
	}
	if err := r.notifyUpcoming(ctx); err != nil {
		log.Error("notify", err)
	}

	entries, hits, misses := r.cache.Stats()
	log.Debug("tick done", "cache_entries", entries, "cache_hits", hits, "cache_misses", misses)
}
