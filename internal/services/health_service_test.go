package services

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proddash/internal/shared/testutil"
)

func TestHealthService_ReadinessCheck(t *testing.T) {
	updated := time.Now().Add(-time.Minute)

	tests := []struct {
		name        string
		status      DashboardStatus
		wantStatus  string
		wantMessage string
	}{
		{
			name:        "initial load",
			status:      DashboardStatus{Loading: true},
			wantStatus:  "not_ready",
			wantMessage: "initial load in progress",
		},
		{
			name:        "first load failed",
			status:      DashboardStatus{LastError: "[FETCH] HTTP error! status: 500"},
			wantStatus:  "not_ready",
			wantMessage: "no data loaded: [FETCH] HTTP error! status: 500",
		},
		{
			name:        "current",
			status:      DashboardStatus{LastUpdated: &updated},
			wantStatus:  "ready",
			wantMessage: "data is current",
		},
		{
			name:        "stale",
			status:      DashboardStatus{LastUpdated: &updated, Stale: true, LastError: "[PARSE] bad"},
			wantStatus:  "ready",
			wantMessage: "serving stale data: [PARSE] bad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &MockStatusProvider{}
			provider.On("Status").Return(tt.status)
			clients := &MockClientCounter{}
			clients.On("ClientCount").Return(2)

			logger, _ := testutil.NewTestLogger(t)
			hs := NewHealthService("1.2.3", "", provider, clients, logger)

			got := hs.ReadinessCheck(context.Background())
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, "1.2.3", got.Version)

			data, ok := got.Services["data"].(ServiceHealth)
			require.True(t, ok)
			assert.Equal(t, tt.wantMessage, data.Message)

			ws, ok := got.Services["websocket"].(ServiceHealth)
			require.True(t, ok)
			assert.Equal(t, "2 clients connected", ws.Message)

			provider.AssertExpectations(t)
		})
	}
}

func TestHealthService_WithoutDependencies(t *testing.T) {
	hs := NewHealthService("dev", "", nil, nil, nil)

	got := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", got.Status)
	assert.Equal(t, "live updates disabled", got.Services["websocket"].(ServiceHealth).Message)
}

func TestHealthService_HealthAndLiveness(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", "2025-06-12T06:00:00Z", nil, nil, logger)
	assert.True(t, logs.ContainsAttr("component", "health_service"))

	health := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.2.3", health.Version)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Equal(t, runtime.Version(), live.Runtime["go_version"])

	version := hs.Version()
	assert.Equal(t, "1.2.3", version.Version)
	assert.Equal(t, "2025-06-12T06:00:00Z", version.BuildTime)
	assert.Equal(t, runtime.GOOS, version.OS)
	assert.Equal(t, "Daily Production Dashboard", version.Name)
}

func TestHealthService_WithDashboardService(t *testing.T) {
	fetcher := newFakeFetcher(testutil.NewProductionCSV().Bytes())
	svc := newTestService(t, fetcher, "")
	hs := NewHealthService("dev", "", svc, nil, nil)

	assert.Equal(t, "not_ready", hs.ReadinessCheck(context.Background()).Status)

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ready", hs.ReadinessCheck(context.Background()).Status)
}
