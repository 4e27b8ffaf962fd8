package app

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proddash/internal/config"
	apperrors "proddash/internal/errors"
	"proddash/internal/shared/testutil"
)

func testConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dailyproduction.csv")
	require.NoError(t, os.WriteFile(path, []byte(testutil.SampleProductionCSV()), 0o644))

	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Security.RateLimit.Enabled = false
	cfg.Source.URL = path
	cfg.Source.RefreshInterval = time.Hour
	return cfg, path
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	a, err := NewApplication(cfg, logger)
	require.NoError(t, err)
	return a
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewApplication_Errors(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		a, err := NewApplication(nil, nil)
		assert.Nil(t, a)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
	})

	t.Run("unknown trace exporter", func(t *testing.T) {
		cfg, _ := testConfig(t)
		cfg.Telemetry.TraceExporter = "jaeger"
		logger, _ := testutil.NewTestLogger(t)
		_, err := NewApplication(cfg, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported trace exporter")
	})

	t.Run("empty source", func(t *testing.T) {
		cfg, _ := testConfig(t)
		cfg.Source.URL = "  "
		logger, _ := testutil.NewTestLogger(t)
		_, err := NewApplication(cfg, logger)
		require.Error(t, err)
	})
}

func TestApplication_RoutesBeforeFirstLoad(t *testing.T) {
	cfg, _ := testConfig(t)
	a := newTestApp(t, cfg)

	tests := []struct {
		target string
		status int
	}{
		{"/", http.StatusOK},
		{"/api/health", http.StatusOK},
		{"/api/health/live", http.StatusOK},
		{"/api/health/ready", http.StatusServiceUnavailable},
		{"/api/version", http.StatusOK},
		{"/api/dashboard", http.StatusServiceUnavailable},
		{"/api/dashboard/status", http.StatusOK},
		{"/api/dashboard/export.csv", http.StatusServiceUnavailable},
		{"/metrics", http.StatusOK},
		{"/does-not-exist", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, a.Router, tt.target)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestApplication_RoutesAfterRefresh(t *testing.T) {
	cfg, _ := testConfig(t)
	a := newTestApp(t, cfg)

	_, err := a.Dashboard.Refresh(context.Background())
	require.NoError(t, err)

	rec := get(t, a.Router, "/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "record")

	rec = get(t, a.Router, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Thursday 12th June 2025")
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = get(t, a.Router, "/api/dashboard/export.csv")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\ufeff"))

	rec = get(t, a.Router, "/api/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, a.Router, "/metrics")
	assert.Contains(t, rec.Body.String(), "http_requests")
}

func TestApplication_TrailingSlashAndCompression(t *testing.T) {
	cfg, _ := testConfig(t)
	a := newTestApp(t, cfg)

	rec := get(t, a.Router, "/api/health/live/")
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestApplication_StartStop(t *testing.T) {
	cfg, _ := testConfig(t)
	a := newTestApp(t, cfg)
	assert.Empty(t, a.Addr())

	require.NoError(t, a.Start(context.Background()))
	assert.Error(t, a.Start(context.Background()))
	addr := a.Addr()
	require.NotEmpty(t, addr)

	client := &http.Client{Timeout: 2 * time.Second}
	assert.Eventually(t, func() bool {
		resp, err := client.Get("http://" + addr + "/api/dashboard")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	assert.True(t, a.WebSocketHub.Running())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, a.Stop(ctx))
	assert.False(t, a.WebSocketHub.Running())

	_, err := client.Get("http://" + addr + "/api/health/live")
	assert.Error(t, err)
}

func TestApplication_WatchReloadsOnChange(t *testing.T) {
	cfg, path := testConfig(t)
	cfg.Source.Watch = true
	a := newTestApp(t, cfg)
	require.NotNil(t, a.Watcher)

	require.NoError(t, a.Start(context.Background()))
	t.Cleanup(func() { _ = a.Stop(context.Background()) })

	require.Eventually(t, func() bool {
		snap, err := a.Dashboard.Current()
		return err == nil && snap.Record.Conventional.Yesterday.Actual == 1614
	}, 5*time.Second, 20*time.Millisecond)

	// Rewritten on each poll until seen, in case the first write lands
	// before the watch is registered.
	updated := testutil.NewProductionCSV().Set(10, 1, "2000").Bytes()
	assert.Eventually(t, func() bool {
		snap, err := a.Dashboard.Current()
		if err == nil && snap.Record.Conventional.Yesterday.Actual == 2000 {
			return true
		}
		_ = os.WriteFile(path, updated, 0o644)
		return false
	}, 10*time.Second, 400*time.Millisecond)
}

func TestApplication_WatchIgnoredForHTTPSource(t *testing.T) {
	cfg, _ := testConfig(t)
	cfg.Source.URL = "http://127.0.0.1:1/dailyproduction.csv"
	cfg.Source.Watch = true
	a := newTestApp(t, cfg)
	assert.Nil(t, a.Watcher)
}

func TestApplication_RunStopsOnCancel(t *testing.T) {
	cfg, _ := testConfig(t)
	a := newTestApp(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return a.Addr() != "" }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
