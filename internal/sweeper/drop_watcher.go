package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-acquirer/internal/adapter"
	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/engine"
	"github.com/feral-file/ff-acquirer/internal/logger"
	"github.com/feral-file/ff-acquirer/internal/pattern"
	"github.com/feral-file/ff-acquirer/internal/store"
	"github.com/feral-file/ff-acquirer/internal/store/schema"
)

const (
	DEFAULT_WATCH_INTERVAL  = time.Minute
	DEFAULT_WATCH_LOOKAHEAD = 10 * time.Minute
	DEFAULT_WATCH_BATCH     = 100
	DEFAULT_WATCH_WORKERS   = 4
)

// DropWatcherConfig holds configuration for the drop watcher
type DropWatcherConfig struct {
	Interval      time.Duration // Time to sleep between cycles
	Lookahead     time.Duration // Schedule drops predicted within this horizon
	MinConfidence int           // Ignore patterns below this confidence
	BatchSize     int           // Watches loaded per cycle
	Workers       int           // Concurrent predictions
}

// dropWatcher schedules drop-time executions for watched reservations
type dropWatcher struct {
	config    DropWatcherConfig
	store     store.Store
	learner   pattern.Learner
	engine    engine.Engine
	clock     adapter.Clock
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewDropWatcher creates a new drop watcher
func NewDropWatcher(
	config DropWatcherConfig,
	st store.Store,
	learner pattern.Learner,
	eng engine.Engine,
	clock adapter.Clock,
) Sweeper {
	if config.Interval <= 0 {
		config.Interval = DEFAULT_WATCH_INTERVAL
	}
	if config.Lookahead <= 0 {
		config.Lookahead = DEFAULT_WATCH_LOOKAHEAD
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DEFAULT_WATCH_BATCH
	}
	if config.Workers <= 0 {
		config.Workers = DEFAULT_WATCH_WORKERS
	}

	return &dropWatcher{
		config:    config,
		store:     st,
		learner:   learner,
		engine:    eng,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *dropWatcher) Name() string {
	return "drop-watcher"
}

// Start runs watch cycles until the context is canceled or Stop is called
func (s *dropWatcher) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting drop watcher",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("lookahead", s.config.Lookahead),
		zap.Int("min_confidence", s.config.MinConfidence),
	)

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Drop watcher stopping due to context cancellation", zap.Error(ctx.Err()))
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Drop watcher stop requested")
			return nil
		default:
			if err := s.runCycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorCtx(ctx, err)
			}
			s.sleep(ctx, s.config.Interval)
		}
	}
}

// Stop gracefully stops the watcher
func (s *dropWatcher) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	logger.InfoCtx(ctx, "Stopping drop watcher")
	close(s.stopChan)

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Drop watcher stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Drop watcher stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runCycle expires stale watches and schedules the ones whose drop is near
func (s *dropWatcher) runCycle(ctx context.Context) error {
	now := s.clock.Now()

	expired, err := s.store.DeactivateExpiredWatches(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to deactivate expired watches: %w", err)
	}
	if expired > 0 {
		logger.InfoCtx(ctx, "Deactivated expired watches", zap.Int64("count", expired))
	}

	watches, err := s.store.GetPendingWatches(ctx, now, s.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending watches: %w", err)
	}
	if len(watches) == 0 {
		return nil
	}

	var scheduled atomic.Int32
	pool := pond.NewPool(s.config.Workers, pond.WithContext(ctx))
	for _, w := range watches {
		pool.Submit(func() {
			if s.scheduleWatch(ctx, w, now) {
				scheduled.Add(1)
			}
		})
	}
	pool.StopAndWait()

	logger.InfoCtx(ctx, "Drop watcher cycle completed",
		zap.Int("watches", len(watches)),
		zap.Int32("scheduled", scheduled.Load()),
		zap.Duration("duration", s.clock.Since(now)),
	)
	return nil
}

// scheduleWatch schedules one watch when its predicted drop falls inside the lookahead
func (s *dropWatcher) scheduleWatch(ctx context.Context, w *schema.Watch, now time.Time) bool {
	prediction, err := s.learner.PredictDrop(ctx, w.VenueRef, w.Platform, w.TargetTime)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("watchID", w.ID))
		return false
	}
	if prediction == nil || prediction.Pattern.Confidence < s.config.MinConfidence {
		logger.DebugCtx(ctx, "No reliable drop pattern for watch",
			zap.String("watchID", w.ID),
			zap.String("venue", w.VenueRef),
		)
		return false
	}

	dropAt := prediction.DropAt
	if dropAt.Sub(now) > s.config.Lookahead {
		return false
	}
	// A drop predicted in the past is still worth a burst while the target is ahead
	if dropAt.Before(now) {
		dropAt = now
	}

	exec, err := s.engine.Schedule(ctx, w.ToRequest(), domain.DropTimeConfig{DropAt: dropAt})
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to schedule watch: %w", err), zap.String("watchID", w.ID))
		return false
	}

	if err := s.store.MarkWatchScheduled(ctx, w.ID, exec.ID, now); err != nil {
		s.engine.Cancel(exec.ID)
		if errors.Is(err, store.ErrWatchAlreadyScheduled) {
			// Another instance took the watch first
			logger.InfoCtx(ctx, "Watch already scheduled elsewhere", zap.String("watchID", w.ID))
		} else {
			logger.ErrorCtx(ctx, err, zap.String("watchID", w.ID))
		}
		return false
	}

	logger.InfoCtx(ctx, "Scheduled watch",
		zap.String("watchID", w.ID),
		zap.String("platform", w.Platform.String()),
		zap.String("venue", w.VenueRef),
		zap.Time("dropAt", dropAt),
		zap.Int("confidence", prediction.Pattern.Confidence),
	)
	return true
}

// sleep sleeps for the given duration but can be interrupted
// Returns true if sleep completed normally
func (s *dropWatcher) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-s.stopChan:
		return false
	}
}
