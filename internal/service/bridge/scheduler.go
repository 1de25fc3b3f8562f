package bridge

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"

	"github.com/sentra-home/sentra-bridge/internal/logger"
)

// startScheduler launches the maintenance jobs: a periodic best-effort
// preferences refresh and a periodic full resync.
func (s *Service) startScheduler(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	if _, err := scheduler.NewJob(
		gocron.DurationJob(s.preferencesRefresh),
		gocron.NewTask(s.refreshPreferences, ctx),
		gocron.WithName("preferences-refresh"),
	); err != nil {
		return fmt.Errorf("schedule preferences refresh: %w", err)
	}

	if _, err := scheduler.NewJob(
		gocron.DurationJob(s.resyncInterval),
		gocron.NewTask(s.scheduledResync, ctx),
		gocron.WithName("full-resync"),
	); err != nil {
		return fmt.Errorf("schedule full resync: %w", err)
	}

	scheduler.Start()
	s.scheduler = scheduler

	logger.InfoKV(ctx, "Maintenance jobs scheduled",
		"preferences_refresh", s.preferencesRefresh.String(),
		"resync_interval", s.resyncInterval.String())

	return nil
}

// refreshPreferences re-fetches the auxiliary account preferences.
func (s *Service) refreshPreferences(ctx context.Context) {
	prefs, err := s.vendor.FetchUserPreferences(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Preferences refresh failed", "error", err)

		return
	}

	if prefs.DefaultStayProfileID > 0 {
		s.stayProfileID.CompareAndSwap(0, prefs.DefaultStayProfileID)
	}

	logger.DebugKV(ctx, "Preferences refreshed", "default_stay_profile_id", prefs.DefaultStayProfileID)
}

// scheduledResync runs the periodic full resync.
func (s *Service) scheduledResync(ctx context.Context) {
	if err := s.Resync(ctx); err != nil {
		s.handleFetchFailure(ctx, err)
	}
}
