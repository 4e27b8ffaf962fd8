// Package api holds the JSON bodies of the dashboard HTTP API, version 1.
package api

import (
	"time"

	"proddash/pkg/contracts/domain"
)

// DashboardResponse is the body of GET /api/dashboard and of a successful
// POST /api/dashboard/refresh.
type DashboardResponse struct {
	Record    *domain.ProductionRecord `json:"record"`
	Totals    domain.ProductionTotals  `json:"totals"`
	LoadedAt  time.Time                `json:"loaded_at"`
	Source    string                   `json:"source"`
	Fallbacks []string                 `json:"fallbacks"`
	// Stale is set when the latest cycle failed and Record is from an
	// earlier one.
	Stale bool `json:"stale"`
}

// VersionResponse is the body of GET /api/version.
type VersionResponse struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	BuildTime string    `json:"build_time,omitempty"`
	GoVersion string    `json:"go_version"`
	OS        string    `json:"os"`
	Arch      string    `json:"arch"`
	StartTime time.Time `json:"start_time"`
	Uptime    float64   `json:"uptime_seconds"`
}
