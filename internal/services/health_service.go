package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"proddash/internal/config"
	"proddash/internal/infrastructure"
	api "proddash/pkg/contracts/api/v1"
)

// StatusProvider reports the state of the load cycle.
type StatusProvider interface {
	Status() DashboardStatus
}

// ClientCounter reports connected websocket clients.
type ClientCounter interface {
	ClientCount() int
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	dashboard StatusProvider
	clients   ClientCounter
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// NewHealthService creates a health service. clients may be nil when live
// updates are disabled.
func NewHealthService(version, buildTime string, dashboard StatusProvider, clients ClientCounter, logger *slog.Logger) *HealthService {
	logger = infrastructure.WithComponent(logger, "health_service")

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		dashboard: dashboard,
		clients:   clients,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck is ready once a record has been loaded. Stale data still
// counts as ready.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]interface{}{
			"data":      hs.checkDataHealth(),
			"websocket": hs.checkWebSocketHealth(),
		},
	}

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}

	hs.logger.DebugContext(ctx, "ReadinessCheck: completed", slog.String("status", status.Status))
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns build and runtime information.
func (hs *HealthService) Version() api.VersionResponse {
	return api.VersionResponse{
		Name:      config.AppName,
		Version:   hs.version,
		BuildTime: hs.buildTime,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		StartTime: hs.startTime,
		Uptime:    time.Since(hs.startTime).Seconds(),
	}
}

func (hs *HealthService) checkDataHealth() ServiceHealth {
	if hs.dashboard == nil {
		return ServiceHealth{Status: "not_ready", Message: "dashboard service not initialized"}
	}

	st := hs.dashboard.Status()
	switch {
	case st.LastUpdated == nil && st.LastError != "":
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("no data loaded: %s", st.LastError),
		}
	case st.LastUpdated == nil:
		return ServiceHealth{Status: "not_ready", Message: "initial load in progress"}
	case st.Stale:
		return ServiceHealth{
			Status:  "ready",
			Message: fmt.Sprintf("serving stale data: %s", st.LastError),
			Uptime:  time.Since(*st.LastUpdated).Round(time.Second).String(),
		}
	}

	return ServiceHealth{
		Status:  "ready",
		Message: "data is current",
		Uptime:  time.Since(*st.LastUpdated).Round(time.Second).String(),
	}
}

func (hs *HealthService) checkWebSocketHealth() ServiceHealth {
	if hs.clients == nil {
		return ServiceHealth{Status: "ready", Message: "live updates disabled"}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d clients connected", hs.clients.ClientCount()),
		Uptime:  time.Since(hs.startTime).String(),
	}
}
