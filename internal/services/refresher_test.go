package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"proddash/internal/dataprocessing"
	"proddash/internal/shared/testutil"
)

func TestRefresher_LoadsOnStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	logger, _ := testutil.NewTestLogger(t)
	fetcher := newFakeFetcher(testutil.NewProductionCSV().Bytes())
	svc := newTestService(t, fetcher, dataprocessing.ModeFallback)

	r := NewRefresher(svc, time.Hour, nil, logger)
	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	require.Eventually(t, func() bool {
		_, err := svc.Current()
		return err == nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestRefresher_TicksRepeatedly(t *testing.T) {
	defer goleak.VerifyNone(t)

	logger, _ := testutil.NewTestLogger(t)
	fetcher := newFakeFetcher(testutil.NewProductionCSV().Bytes())
	svc := newTestService(t, fetcher, dataprocessing.ModeFallback)

	r := NewRefresher(svc, 10*time.Millisecond, nil, logger)
	require.NoError(t, r.Start(context.Background()))

	require.Eventually(t, func() bool {
		return fetcher.calls.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)
	r.Stop()

	assert.GreaterOrEqual(t, svc.Status().Cycles, int64(3))
}

func TestRefresher_SkipsTicksWhileCycleRuns(t *testing.T) {
	defer goleak.VerifyNone(t)

	logger, logs := testutil.NewTestLogger(t)
	fetcher := newFakeFetcher(testutil.NewProductionCSV().Bytes())
	gate := fetcher.block()
	svc := newTestService(t, fetcher, dataprocessing.ModeFallback)

	r := NewRefresher(svc, 10*time.Millisecond, nil, logger)
	require.NoError(t, r.Start(context.Background()))

	require.Eventually(t, func() bool {
		return r.Skipped() >= 3
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), fetcher.calls.Load())
	assert.True(t, logs.ContainsMessage("refresh tick skipped"))

	close(gate)
	r.Stop()

	_, err := svc.Current()
	assert.NoError(t, err)
}

func TestRefresher_SkipsWhileManualRefreshRuns(t *testing.T) {
	defer goleak.VerifyNone(t)

	logger, _ := testutil.NewTestLogger(t)
	fetcher := newFakeFetcher(testutil.NewProductionCSV().Bytes())
	gate := fetcher.block()
	svc := newTestService(t, fetcher, dataprocessing.ModeFallback)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Refresh(context.Background())
	}()
	require.Eventually(t, svc.Refreshing, time.Second, 5*time.Millisecond)

	r := NewRefresher(svc, time.Hour, nil, logger)
	require.NoError(t, r.Start(context.Background()))
	assert.Equal(t, int64(1), r.Skipped())

	close(gate)
	<-done
	r.Stop()
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestRefresher_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	logger, _ := testutil.NewTestLogger(t)
	svc := newTestService(t, newFakeFetcher(testutil.NewProductionCSV().Bytes()), dataprocessing.ModeFallback)
	r := NewRefresher(svc, time.Hour, nil, logger)

	r.Stop()

	require.NoError(t, r.Start(context.Background()))
	assert.ErrorIs(t, r.Start(context.Background()), ErrRefresherRunning)
	r.Stop()
	r.Stop()

	require.NoError(t, r.Start(context.Background()))
	r.Stop()
}

func TestRefresher_StopsWithParentContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	logger, _ := testutil.NewTestLogger(t)
	svc := newTestService(t, newFakeFetcher(testutil.NewProductionCSV().Bytes()), dataprocessing.ModeFallback)
	r := NewRefresher(svc, 5*time.Millisecond, nil, logger)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, r.Start(ctx))
	cancel()
	r.Stop()
}
