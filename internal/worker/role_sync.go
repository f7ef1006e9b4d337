package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RoleSyncer pushes locally changed roles to the identity provider
type RoleSyncer interface {
	SyncPendingRoles(ctx context.Context, batch int) (int, error)
}

// RoleSyncWorker reconciles user roles with the identity provider on a
// fixed interval. Each pass is idempotent, so a failed write is simply
// retried on the next tick.
type RoleSyncWorker struct {
	syncer   RoleSyncer
	interval time.Duration
	batch    int
	log      *zap.Logger
}

func NewRoleSyncWorker(syncer RoleSyncer, interval time.Duration, batch int, log *zap.Logger) *RoleSyncWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if batch <= 0 {
		batch = 50
	}

	return &RoleSyncWorker{
		syncer:   syncer,
		interval: interval,
		batch:    batch,
		log:      log.With(zap.String("worker", "role_sync")),
	}
}

// Start blocks until ctx is cancelled
func (w *RoleSyncWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("Role sync worker started", zap.Duration("interval", w.interval))

	// first pass right away so a restart does not wait a full interval
	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Role sync worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce drains pending roles batch by batch until a pass makes no
// progress
func (w *RoleSyncWorker) RunOnce(ctx context.Context) int {
	total := 0
	for ctx.Err() == nil {
		synced, err := w.syncer.SyncPendingRoles(ctx, w.batch)
		if err != nil {
			w.log.Error("Failed to sync pending roles", zap.Error(err))
			break
		}

		total += synced
		if synced < w.batch {
			break
		}
	}

	if total > 0 {
		w.log.Info("Roles synced", zap.Int("count", total))
	}
	return total
}
