package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/hashicorp/go-multierror"
	"k8s.io/utils/clock"
)

type releaseFunc func(ctx context.Context, group Group, trigger Trigger) error

// Reaper releases groups that stayed idle for the idle timeout, and drains the store on shutdown.
type Reaper struct {
	store       *GroupStore
	idleTimeout time.Duration
	interval    time.Duration
	release     releaseFunc
	clock       clock.PassiveClock

	scheduler gocron.Scheduler
}

func NewReaper(store *GroupStore, idleTimeout, interval time.Duration, release releaseFunc, clk clock.PassiveClock) *Reaper {
	return &Reaper{
		store:       store,
		idleTimeout: idleTimeout,
		interval:    interval,
		release:     release,
		clock:       clk,
	}
}

// Tick releases every idle group once. A non-positive idle timeout disables it.
func (r *Reaper) Tick(ctx context.Context) int {
	if r.idleTimeout <= 0 {
		return 0
	}

	released := 0
	for _, key := range r.store.IdleKeysOlderThan(r.idleTimeout, r.clock.Now()) {
		group, ok := r.store.TakeForRelease(key)
		if !ok {
			continue
		}
		released++
		if err := r.release(ctx, group, TriggerIdle); err != nil {
			logger.Error().Str("key", group.Key).Str("group", group.ID).Str("err", err.Error()).Msg("idle release failed")
		}
	}
	return released
}

// Start schedules Tick every interval. Ticks never overlap.
func (r *Reaper) Start(ctx context.Context) error {
	if r.idleTimeout <= 0 {
		logger.Info().Msg("idle release disabled")
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() {
			if n := r.Tick(ctx); n > 0 {
				logger.Debug().Int("groups", n).Msg("released idle groups")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("failed to schedule reaper: %w", err)
	}

	scheduler.Start()
	r.scheduler = scheduler

	logger.Info().Str("idle_timeout", r.idleTimeout.String()).Str("interval", r.interval.String()).Msg("started reaper")
	return nil
}

// Stop waits for a running tick to finish, then drains the store.
func (r *Reaper) Stop(ctx context.Context) (int, error) {
	if r.scheduler != nil {
		if err := r.scheduler.Shutdown(); err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to shut down reaper")
		}
		r.scheduler = nil
	}
	return r.Drain(ctx)
}

// Drain releases every buffered group. All failures are returned together.
func (r *Reaper) Drain(ctx context.Context) (int, error) {
	var result *multierror.Error

	groups := r.store.DrainAll()
	for _, group := range groups {
		if err := r.release(ctx, group, TriggerShutdown); err != nil {
			result = multierror.Append(result, fmt.Errorf("group %s (%s): %w", group.ID, group.Key, err))
		}
	}
	return len(groups), result.ErrorOrNil()
}
