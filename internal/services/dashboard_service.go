package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"proddash/internal/dataprocessing"
	apperrors "proddash/internal/errors"
	"proddash/internal/infrastructure"
	"proddash/internal/source"
	"proddash/pkg/contracts/domain"
)

// MessageTypeDataUpdate is broadcast after every successful cycle.
const MessageTypeDataUpdate = "data_update"

// WebSocketHub is the subset of the websocket hub the service pushes to.
type WebSocketHub interface {
	Broadcast(messageType string, data interface{})
}

// Snapshot is one successfully loaded record and where it came from.
// Snapshots are immutable once published.
type Snapshot struct {
	Record    *domain.ProductionRecord
	LoadedAt  time.Time
	Fallbacks []string
	Source    string
}

// DashboardStatus describes the state of the load cycle.
type DashboardStatus struct {
	// Loading is true until the first cycle finishes, good or bad.
	Loading bool `json:"loading"`
	// Stale is true when a record is shown but the latest cycle failed.
	Stale       bool       `json:"stale"`
	Refreshing  bool       `json:"refreshing"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	LastAttempt *time.Time `json:"last_attempt,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	ErrorType   string     `json:"error_type,omitempty"`
	Cycles      int64      `json:"cycles"`
	Failures    int64      `json:"failures"`
	Fallbacks   []string   `json:"fallbacks,omitempty"`
	Source      string     `json:"source"`
	Mode        string     `json:"mode"`
}

// DataUpdate is the payload of a data_update broadcast.
type DataUpdate struct {
	Date      string    `json:"date"`
	LoadedAt  time.Time `json:"loaded_at"`
	Fallbacks int       `json:"fallbacks"`
}

// DashboardService runs the fetch and extract cycle and holds the current
// record. Concurrent Refresh calls share one in-flight cycle.
type DashboardService struct {
	fetcher   source.Fetcher
	extractor *dataprocessing.Extractor
	hub       WebSocketHub
	metrics   *infrastructure.DashboardMetrics
	logger    *slog.Logger
	now       func() time.Time

	group    singleflight.Group
	current  atomic.Pointer[Snapshot]
	inFlight atomic.Bool
	cycles   atomic.Int64
	failures atomic.Int64

	mu          sync.RWMutex
	lastErr     error
	lastAttempt time.Time
}

// DashboardOption configures a DashboardService.
type DashboardOption func(*DashboardService)

// WithHub pushes a data_update to hub after each successful cycle.
func WithHub(hub WebSocketHub) DashboardOption {
	return func(s *DashboardService) { s.hub = hub }
}

// WithMetrics records cycle metrics on m.
func WithMetrics(m *infrastructure.DashboardMetrics) DashboardOption {
	return func(s *DashboardService) { s.metrics = m }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) DashboardOption {
	return func(s *DashboardService) { s.now = now }
}

// NewDashboardService creates a service reading from fetcher. No cycle runs
// until Refresh is called.
func NewDashboardService(fetcher source.Fetcher, extractor *dataprocessing.Extractor, logger *slog.Logger, opts ...DashboardOption) *DashboardService {
	logger = infrastructure.WithComponent(logger, "dashboard_service")
	if extractor == nil {
		extractor = dataprocessing.NewExtractor(dataprocessing.ModeFallback, logger)
	}

	s := &DashboardService{
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	logger.Info("DashboardService initialized",
		slog.String("source", fetcher.Location()),
		slog.String("source_kind", fetcher.Kind()),
		slog.String("mode", string(extractor.Mode())))

	return s
}

// Current returns the latest good snapshot, or ErrNoData before the first
// successful cycle.
func (s *DashboardService) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, apperrors.NewUnavailableError("production data not loaded yet", ErrNoData)
	}
	return snap, nil
}

// Refreshing reports whether a cycle is running.
func (s *DashboardService) Refreshing() bool {
	return s.inFlight.Load()
}

// Refresh runs a cycle, or waits for the one already running. The cycle
// itself is not cancelled when ctx is; only this caller stops waiting.
func (s *DashboardService) Refresh(ctx context.Context) (*Snapshot, error) {
	ch := s.group.DoChan("refresh", func() (interface{}, error) {
		return s.cycle(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

// Status reports loading, stale and error state.
func (s *DashboardService) Status() DashboardStatus {
	snap := s.current.Load()

	s.mu.RLock()
	lastErr := s.lastErr
	lastAttempt := s.lastAttempt
	s.mu.RUnlock()

	st := DashboardStatus{
		Loading:    snap == nil && lastAttempt.IsZero(),
		Stale:      snap != nil && lastErr != nil,
		Refreshing: s.inFlight.Load(),
		Cycles:     s.cycles.Load(),
		Failures:   s.failures.Load(),
		Source:     s.fetcher.Location(),
		Mode:       string(s.extractor.Mode()),
	}
	if !lastAttempt.IsZero() {
		st.LastAttempt = &lastAttempt
	}
	if snap != nil {
		loaded := snap.LoadedAt
		st.LastUpdated = &loaded
		st.Fallbacks = snap.Fallbacks
	}
	if lastErr != nil {
		st.LastError = lastErr.Error()
		st.ErrorType = string(apperrors.TypeOf(lastErr))
	}
	return st
}

func (s *DashboardService) cycle(ctx context.Context) (*Snapshot, error) {
	s.inFlight.Store(true)
	defer s.inFlight.Store(false)

	ctx = infrastructure.EnsureTraceID(ctx)
	start := s.now()
	s.cycles.Add(1)

	body, err := s.fetcher.Fetch(ctx)
	s.metrics.RecordFetch(ctx, s.fetcher.Kind(), s.now().Sub(start), len(body), err)
	if err != nil {
		if apperrors.TypeOf(err) == "" {
			err = apperrors.NewFetchError("failed to fetch production export", err)
		}
		return nil, s.fail(ctx, infrastructure.ResultFetchError, start, err)
	}

	res, err := s.extractor.Extract(string(body))
	if err != nil {
		parseErr := apperrors.NewParseError("failed to extract production record", err)
		var mie *dataprocessing.MalformedInputError
		if errors.As(err, &mie) && len(mie.Fields) > 0 {
			parseErr = parseErr.WithContext("fields", mie.Fields)
		}
		return nil, s.fail(ctx, infrastructure.ResultParseError, start, parseErr)
	}

	s.metrics.RecordFallbacks(ctx, res.Fallbacks)

	snap := &Snapshot{
		Record:    res.Record,
		LoadedAt:  s.now(),
		Fallbacks: res.Fallbacks,
		Source:    s.fetcher.Location(),
	}
	s.current.Store(snap)

	s.mu.Lock()
	s.lastErr = nil
	s.lastAttempt = snap.LoadedAt
	s.mu.Unlock()

	elapsed := s.now().Sub(start)
	s.metrics.RecordRefresh(ctx, infrastructure.ResultSuccess, elapsed)
	s.logger.InfoContext(ctx, "production data refreshed",
		slog.String("date", res.Record.Date),
		slog.Int("lines", res.Lines),
		slog.Int("fallbacks", len(res.Fallbacks)),
		slog.Duration("duration", elapsed))

	if s.hub != nil {
		s.hub.Broadcast(MessageTypeDataUpdate, DataUpdate{
			Date:      res.Record.Date,
			LoadedAt:  snap.LoadedAt,
			Fallbacks: len(res.Fallbacks),
		})
		s.metrics.RecordBroadcast(ctx, MessageTypeDataUpdate)
	}

	return snap, nil
}

// fail records a failed cycle. The previous snapshot, if any, stays current.
func (s *DashboardService) fail(ctx context.Context, result string, start time.Time, err error) error {
	s.failures.Add(1)

	s.mu.Lock()
	s.lastErr = err
	s.lastAttempt = s.now()
	s.mu.Unlock()

	s.metrics.RecordRefresh(ctx, result, s.now().Sub(start))
	infrastructure.RecordError(ctx, err)
	s.logger.WarnContext(ctx, "refresh cycle failed",
		slog.String("result", result),
		slog.Bool("stale", s.current.Load() != nil),
		slog.String("error", err.Error()))
	return err
}
