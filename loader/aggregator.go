package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KYVENetwork/dlt-sink/destinations"
	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/KYVENetwork/dlt-sink/utils"
	"k8s.io/utils/clock"
)

type AggregatorConfig struct {
	BatchSize    int
	IdleTimeout  time.Duration
	ReapInterval time.Duration
}

// Aggregator groups records by kind and bulk loads a group once it is full, idle, or on shutdown.
type Aggregator struct {
	mu     sync.RWMutex
	closed bool

	store    *GroupStore
	reaper   *Reaper
	loader   destinations.BulkLoader
	reporter ErrorReporter
}

func NewAggregator(loader destinations.BulkLoader, reporter ErrorReporter, config AggregatorConfig, clk clock.PassiveClock) *Aggregator {
	a := &Aggregator{
		store:    NewGroupStore(config.BatchSize, clk),
		loader:   loader,
		reporter: reporter,
	}
	a.reaper = NewReaper(a.store, config.IdleTimeout, config.ReapInterval, a.release, clk)
	return a
}

// Start schedules the idle reaper. Its ticks outlive ctx cancellation until Close.
func (a *Aggregator) Start(ctx context.Context) error {
	return a.reaper.Start(context.WithoutCancel(ctx))
}

func (a *Aggregator) Handle(ctx context.Context, record schema.Record) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return ErrClosed
	}
	utils.PrometheusRecordsReceived.WithLabelValues(utils.ModeBulk).Inc()

	group, full := a.store.Append(record.Kind(), record)
	if !full {
		return nil
	}
	released, ok := a.store.TakeGeneration(group.Key, group.ID)
	if !ok {
		return nil
	}
	// accepted records are written even when the caller is shutting down
	return a.release(context.WithoutCancel(ctx), released, TriggerCount)
}

// Close rejects new records, waits for running Handle calls and drains every buffered group.
func (a *Aggregator) Close(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	n, err := a.reaper.Stop(context.WithoutCancel(ctx))
	logger.Info().Int("groups", n).Msg("drained buffered groups")
	return err
}

func (a *Aggregator) release(ctx context.Context, group Group, trigger Trigger) error {
	logger.Debug().Str("key", group.Key).Str("group", group.ID).Str("trigger", string(trigger)).Int("records", len(group.Members)).Msg("releasing group")
	utils.PrometheusGroupsReleased.WithLabelValues(string(trigger)).Inc()

	start := time.Now()
	rows, err := a.loader.Load(ctx, group.Members)
	status := Status{
		GroupID:  group.ID,
		Key:      group.Key,
		Trigger:  trigger,
		Records:  len(group.Members),
		Rows:     rows,
		Duration: time.Since(start),
	}
	utils.PrometheusLoadDuration.WithLabelValues(string(trigger)).Observe(status.Duration.Seconds())

	if err != nil {
		utils.PrometheusLoadFailures.WithLabelValues(string(trigger)).Inc()
		logger.Error().Str("err", err.Error()).Msg(fmt.Sprintf("failed to load group: %s", status))
		if a.reporter != nil {
			a.reporter.Report(ctx, err)
		}
		return fmt.Errorf("failed to load group %s: %w", group.ID, err)
	}

	utils.PrometheusRowsWritten.WithLabelValues(utils.ModeBulk).Add(float64(rows))
	logger.Info().Msg(fmt.Sprintf("loaded group: %s", status))
	return nil
}
