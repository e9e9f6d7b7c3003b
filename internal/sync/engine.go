// Package sync orchestrates the push of locally queued orders to the
// backend: one cycle at a time, one order at a time, in creation order.
package sync

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fekuna/omnipos-field-sync/internal/apperr"
	"github.com/fekuna/omnipos-field-sync/internal/model"
	"github.com/fekuna/omnipos-field-sync/internal/order"
	"github.com/fekuna/omnipos-field-sync/internal/remote"
	"github.com/fekuna/omnipos-field-sync/internal/retry"
	"github.com/fekuna/omnipos-field-sync/internal/session"
	"go.uber.org/zap"
)

// Gate is the monitor side the engine consults before a cycle.
type Gate interface {
	Allowed() bool
	Authenticated() bool
}

// AuthSetter lets the engine flip the authenticated flag when the backend
// rejects the session mid-cycle.
type AuthSetter interface {
	SetAuthenticated(ok bool)
}

type Config struct {
	Interval time.Duration
	RingSize int
}

type Engine struct {
	store    order.Repository
	sessions session.Repository
	remote   remote.Client
	resolver ClientResolver
	gate     Gate
	auth     AuthSetter
	policy   *retry.Policy
	stats    *Stats
	logger   *zap.Logger

	interval time.Duration
	trigger  chan struct{}
	syncing  atomic.Bool
}

func NewEngine(
	store order.Repository,
	sessions session.Repository,
	client remote.Client,
	resolver ClientResolver,
	gate Gate,
	auth AuthSetter,
	policy *retry.Policy,
	cfg *Config,
	log *zap.Logger,
) *Engine {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	return &Engine{
		store:    store,
		sessions: sessions,
		remote:   client,
		resolver: resolver,
		gate:     gate,
		auth:     auth,
		policy:   policy,
		stats:    NewStats(cfg.RingSize),
		logger:   log,
		interval: interval,
		// All triggers converge on one token channel consumed by Run, so
		// racing call sites cannot start two cycles.
		trigger: make(chan struct{}, 1),
	}
}

// RequestSync queues a sync request. Non-blocking; a request while one is
// already queued or a cycle is running collapses into it.
func (e *Engine) RequestSync() {
	select {
	case e.trigger <- struct{}{}:
	default:
	}
}

// IsSyncing reports whether a cycle is in flight.
func (e *Engine) IsSyncing() bool {
	return e.syncing.Load()
}

// Stats returns a copy of the current statistics.
func (e *Engine) Stats() Snapshot {
	return e.stats.snapshot(e.syncing.Load())
}

// ResetStats clears the displayed pending count and error ring. Called on
// sign-out; order rows are untouched.
func (e *Engine) ResetStats() {
	e.stats.Reset()
}

// Run consumes sync requests until ctx is cancelled. The interval timer only
// queues work while a session is active.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.logger.Info("sync engine started", zap.Duration("interval", e.interval))
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("sync engine stopped")
			return
		case <-ticker.C:
			if e.gate.Authenticated() {
				e.RequestSync()
			}
		case <-e.trigger:
			e.SyncNow(ctx)
		}
	}
}

// SyncNow runs one cycle immediately. The first caller wins; a call while a
// cycle is in flight is a no-op, not an error.
func (e *Engine) SyncNow(ctx context.Context) {
	if !e.syncing.CompareAndSwap(false, true) {
		return
	}
	defer e.syncing.Store(false)

	if !e.gate.Allowed() {
		return
	}
	e.runCycle(ctx)
}

func (e *Engine) runCycle(ctx context.Context) {
	// A failed probe means offline: abort before touching any order.
	if err := e.remote.ProbeConnectivity(ctx); err != nil {
		e.logger.Warn("connectivity probe failed, skipping cycle", zap.Error(err))
		return
	}

	pending, err := e.store.FindByStatus(ctx, model.OrderStatusPending)
	if err != nil {
		e.logger.Error("failed to load pending orders", zap.Error(err))
		return
	}

	now := time.Now().UTC()
	if len(pending) == 0 {
		e.stats.FinishCycle(now, 0)
		return
	}

	sess, err := e.sessions.Current(ctx)
	if err != nil || sess == nil {
		e.logger.Warn("no active session, skipping cycle", zap.Error(err))
		return
	}

	e.logger.Info("sync cycle started", zap.Int("pending", len(pending)))

	synced := 0
	for i := range pending {
		if ctx.Err() != nil {
			break
		}
		if e.pushOrder(ctx, pending[i].LocalID, sess.UserID) {
			synced++
		}
	}

	count, err := e.store.CountByStatus(ctx, model.OrderStatusPending)
	if err != nil {
		e.logger.Error("failed to recount pending orders", zap.Error(err))
		count = len(pending) - synced
	}
	e.stats.FinishCycle(time.Now().UTC(), count)

	e.logger.Info("sync cycle finished",
		zap.Int("synced", synced),
		zap.Int("still_pending", count))
}

// pushOrder pushes one order end to end. Failures are recorded and isolated:
// the caller moves on to the next order regardless.
func (e *Engine) pushOrder(ctx context.Context, localID int64, actorID string) bool {
	o, err := e.store.FindWithItems(ctx, localID)
	if err != nil {
		e.recordFailure(localID, err)
		return false
	}

	// Re-validated on every attempt: the cache may have been incomplete
	// when the order was created.
	if err := Validate(ctx, o, e.resolver); err != nil {
		e.recordFailure(localID, err)
		e.markSyncError(ctx, localID)
		return false
	}

	if err := e.store.SetSyncStatus(ctx, localID, model.SyncStatusSyncing); err != nil {
		e.logger.Warn("failed to flag order as syncing", zap.Int64("local_id", localID), zap.Error(err))
	}

	header := ToRemoteHeader(o, actorID)

	var remoteID string
	err = e.policy.Do(ctx, func() error {
		id, err := e.remote.CreateOrderHeader(ctx, header, o.SyncKey)
		if err != nil {
			return err
		}
		remoteID = id
		return nil
	})
	if err != nil {
		e.handlePushError(ctx, localID, err)
		return false
	}

	items := ToRemoteItems(o.Items, remoteID)
	err = e.policy.Do(ctx, func() error {
		return e.remote.CreateOrderItems(ctx, remoteID, items)
	})
	if err != nil {
		// The header exists remotely but the order stays pending locally.
		// The persisted sync key makes the next header push idempotent, so
		// the retry resumes without duplicating the header.
		e.handlePushError(ctx, localID, apperr.Wrap(apperr.KindPartialSync, "items push failed after header", err))
		return false
	}

	if err := e.store.MarkProcessed(ctx, localID, remoteID); err != nil {
		e.recordFailure(localID, err)
		return false
	}

	e.stats.AddSynced(1)
	e.logger.Info("order synced",
		zap.Int64("local_id", localID),
		zap.String("remote_id", remoteID))
	return true
}

func (e *Engine) handlePushError(ctx context.Context, localID int64, err error) {
	if apperr.IsAuth(err) && e.auth != nil {
		// Stop subsequent cycles until the user signs in again.
		e.auth.SetAuthenticated(false)
	}
	e.recordFailure(localID, err)
	e.markSyncError(ctx, localID)
}

func (e *Engine) recordFailure(localID int64, err error) {
	e.logger.Warn("order push failed", zap.Int64("local_id", localID), zap.Error(err))
	e.stats.RecordError(SyncError{
		OrderLocalID: localID,
		Message:      err.Error(),
		Transient:    apperr.IsTransient(err),
		At:           time.Now().UTC(),
	})
}

func (e *Engine) markSyncError(ctx context.Context, localID int64) {
	if err := e.store.SetSyncStatus(ctx, localID, model.SyncStatusError); err != nil {
		e.logger.Warn("failed to flag order sync error", zap.Int64("local_id", localID), zap.Error(err))
	}
}
