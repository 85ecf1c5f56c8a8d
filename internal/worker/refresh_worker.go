package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-client/internal/status"
	"github.com/spec-kit/ticket-client/internal/store"
)

// RefreshWorker periodically reloads the snapshot so the view converges
// with server state even without user gestures. A cycle is skipped
// while any mutation is in flight to avoid clobbering the reconcile
// that action will perform itself.
type RefreshWorker struct {
	store    *store.Store
	tracker  *status.Tracker
	interval time.Duration
	logger   *zap.Logger
}

// NewRefreshWorker constructs the worker.
func NewRefreshWorker(s *store.Store, t *status.Tracker, interval time.Duration, logger *zap.Logger) *RefreshWorker {
	return &RefreshWorker{store: s, tracker: t, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled, refreshing on each tick.
func (w *RefreshWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.tracker.AnyBusy() {
				w.logger.Debug("refresh skipped, mutation in flight")
				continue
			}
			if err := w.store.LoadAll(ctx); err != nil {
				w.logger.Warn("background refresh failed", zap.Error(err))
			}
		}
	}
}
