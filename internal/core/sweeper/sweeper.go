// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sweeper removes catalog media that no tracking entry references.

Provider imports and cascades can leave media behind that nobody tracks. The
sweeper lists them and deletes each one in its own unit of work, re-checking
the orphan status under a row lock so an entry created in the meantime keeps
the item alive. Failures on one item are logged and the sweep moves on.

The sweeper owns no goroutine: [Sweeper.Run] blocks until its context is
cancelled and the process decides where to run it.
*/
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/taibuivan/listify/internal/platform/ctxutil"
)

// Default schedule.
const (
	DefaultInitialDelay = 60 * time.Second
	DefaultInterval     = 24 * time.Hour
)

// Catalog is the slice of the media catalog the sweeper drives.
type Catalog interface {
	ListOrphans(context context.Context) ([]int64, error)
	DeleteIfOrphaned(context context.Context, id int64) (bool, error)
}

// Options configures the periodic schedule. Zero values select the defaults.
type Options struct {
	InitialDelay time.Duration
	Interval     time.Duration
}

// Sweeper deletes orphaned media on demand or on a schedule.
type Sweeper struct {
	catalog      Catalog
	initialDelay time.Duration
	interval     time.Duration
}

// New constructs a [Sweeper].
func New(catalog Catalog, options Options) *Sweeper {
	if options.InitialDelay <= 0 {
		options.InitialDelay = DefaultInitialDelay
	}
	if options.Interval <= 0 {
		options.Interval = DefaultInterval
	}

	return &Sweeper{
		catalog:      catalog,
		initialDelay: options.InitialDelay,
		interval:     options.Interval,
	}
}

/*
Sweep deletes every media item that is orphaned at the time it is visited.

Returns:
  - int: Number of items deleted
  - error: Listing failures or context cancellation; per-item failures are
    only logged
*/
func (sweeper *Sweeper) Sweep(context context.Context) (int, error) {
	logger := ctxutil.GetLogger(context)
	started := time.Now()

	ids, err := sweeper.catalog.ListOrphans(context)
	if err != nil {
		return 0, err
	}

	deleted, failed := 0, 0
	for _, id := range ids {
		if err := context.Err(); err != nil {
			return deleted, err
		}

		removed, err := sweeper.catalog.DeleteIfOrphaned(context, id)
		if err != nil {
			failed++
			logger.Warn("orphan_delete_failed", slog.Int64("media_id", id), slog.Any("error", err))
			continue
		}
		if removed {
			deleted++
		}
	}

	logger.Info("orphan_sweep_finished",
		slog.Int("candidates", len(ids)),
		slog.Int("deleted", deleted),
		slog.Int("failed", failed),
		slog.Duration("elapsed", time.Since(started)),
	)
	return deleted, nil
}

// Run sweeps after the initial delay and then once per interval until
// context is cancelled.
func (sweeper *Sweeper) Run(context context.Context) error {
	logger := ctxutil.GetLogger(context)

	timer := time.NewTimer(sweeper.initialDelay)
	defer timer.Stop()

	logger.Info("orphan_sweep_scheduled", slog.String("next_run", humanize.Time(time.Now().Add(sweeper.initialDelay))))

	for {
		select {
		case <-context.Done():
			logger.Info("orphan_sweeper_stopped")
			return context.Err()
		case <-timer.C:
			if _, err := sweeper.Sweep(context); err != nil && context.Err() == nil {
				logger.Error("orphan_sweep_failed", slog.Any("error", err))
			}

			timer.Reset(sweeper.interval)
			logger.Info("orphan_sweep_scheduled", slog.String("next_run", humanize.Time(time.Now().Add(sweeper.interval))))
		}
	}
}
