package services

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"proddash/internal/infrastructure"
)

// Refresher runs a dashboard cycle at start and then on every tick. A tick
// that lands while a cycle is running is skipped, not queued.
type Refresher struct {
	service  *DashboardService
	interval time.Duration
	metrics  *infrastructure.DashboardMetrics
	logger   *slog.Logger

	busy    atomic.Bool
	skipped atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	cycles sync.WaitGroup
}

// NewRefresher creates a refresher for service. metrics may be nil.
func NewRefresher(service *DashboardService, interval time.Duration, metrics *infrastructure.DashboardMetrics, logger *slog.Logger) *Refresher {
	return &Refresher{
		service:  service,
		interval: interval,
		metrics:  metrics,
		logger:   infrastructure.WithComponent(logger, "refresher"),
	}
}

// Start runs the first cycle and begins ticking. It returns
// ErrRefresherRunning if already started.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return ErrRefresherRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	r.logger.InfoContext(ctx, "refresher started", slog.Duration("interval", r.interval))
	r.tick(ctx)
	go r.run(ctx, r.done)
	return nil
}

// Stop ends the ticker and waits for a running cycle to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	r.cycles.Wait()
	r.logger.Info("refresher stopped", slog.Int64("skipped", r.skipped.Load()))
}

// Skipped returns the number of ticks dropped because a cycle was running.
func (r *Refresher) Skipped() int64 {
	return r.skipped.Load()
}

func (r *Refresher) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// tick starts a cycle in the background unless one is already running,
// whether started here or by a manual refresh.
func (r *Refresher) tick(ctx context.Context) {
	if r.service.Refreshing() || !r.busy.CompareAndSwap(false, true) {
		r.skipped.Add(1)
		r.metrics.RecordSkipped(ctx)
		r.logger.DebugContext(ctx, "refresh tick skipped, cycle in flight")
		return
	}

	r.cycles.Add(1)
	go func() {
		defer r.cycles.Done()
		defer r.busy.Store(false)
		// Failures are logged and recorded by the service. Stop waits for
		// the cycle rather than abandoning it.
		_, _ = r.service.Refresh(context.WithoutCancel(ctx))
	}()
}
