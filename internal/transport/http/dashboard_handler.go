package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"proddash/internal/dashboard"
	apierrors "proddash/internal/errors"
	"proddash/internal/exporter"
	"proddash/internal/middleware"
	"proddash/internal/services"
	api "proddash/pkg/contracts/api/v1"
	"proddash/pkg/contracts/domain"
)

// DashboardServiceInterface is the part of the dashboard service the
// handlers use.
type DashboardServiceInterface interface {
	Current() (*services.Snapshot, error)
	Status() services.DashboardStatus
	Refresh(ctx context.Context) (*services.Snapshot, error)
}

// RecordExporter writes a record as a download.
type RecordExporter interface {
	Write(w io.Writer, f exporter.Format, record *domain.ProductionRecord) error
}

// PageOptions tune the rendered dashboard page.
type PageOptions struct {
	// RefreshInterval is the page's own reload period when LiveUpdates is
	// off.
	RefreshInterval time.Duration
	LiveUpdates     bool
}

// DashboardHandler serves the dashboard page, its JSON API and exports.
type DashboardHandler struct {
	service      DashboardServiceInterface
	renderer     *dashboard.Renderer
	exporter     RecordExporter
	errorHandler *apierrors.ErrorHandler
	page         PageOptions
	logger       *slog.Logger
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(service DashboardServiceInterface, renderer *dashboard.Renderer, exp RecordExporter,
	errorHandler *apierrors.ErrorHandler, page PageOptions, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service:      service,
		renderer:     renderer,
		exporter:     exp,
		errorHandler: errorHandler,
		page:         page,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
	}
}

// Routes returns the /api/dashboard routes.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/", h.GetDashboard)
		r.Get("/status", h.GetStatus)
		r.Post("/refresh", h.Refresh)
	})

	r.Get("/export.csv", h.Export(exporter.FormatCSV))
	r.Get("/export.xlsx", h.Export(exporter.FormatXLSX))
	r.Get("/export", h.ExportQuery)

	return r
}

// Page handles GET /. The page always renders: before the first load it
// shows the loading state, after a failure the generic banner, with the
// last good record when there is one.
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	status := h.service.Status()
	state := dashboard.State{
		Loading:         status.Loading,
		Failed:          status.LastError != "",
		RefreshInterval: h.page.RefreshInterval,
		LiveUpdates:     h.page.LiveUpdates,
	}

	var record *domain.ProductionRecord
	if snap, err := h.service.Current(); err == nil {
		record = snap.Record
		state.LastUpdated = snap.LoadedAt
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, dashboard.Build(record, state)); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// GetDashboard handles GET /api/dashboard.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Current()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, h.response(snap, h.service.Status().Stale))
}

// GetStatus handles GET /api/dashboard/status.
func (h *DashboardHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Status())
}

// Refresh handles POST /api/dashboard/refresh. It joins a cycle already in
// flight rather than starting a second one.
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "manual refresh requested",
		slog.String("request_id", middleware.GetRequestID(ctx)),
		slog.String("remote_addr", r.RemoteAddr))

	snap, err := h.service.Refresh(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, h.response(snap, false))
}

// ExportQuery handles GET /api/dashboard/export?format=csv|xlsx.
func (h *DashboardHandler) ExportQuery(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		raw = string(exporter.FormatXLSX)
	}
	f, err := exporter.ParseFormat(raw)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("format", raw))
		return
	}
	h.Export(f)(w, r)
}

// Export serves the current record as a download in format f.
func (h *DashboardHandler) Export(f exporter.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := h.service.Current()
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := h.exporter.Write(&buf, f, snap.Record); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}

		name := exporter.FileName(f, snap.LoadedAt)
		w.Header().Set("Content-Type", f.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
		_, _ = buf.WriteTo(w)

		h.logger.InfoContext(r.Context(), "export served",
			slog.String("format", string(f)),
			slog.String("filename", name),
			slog.String("request_id", middleware.GetRequestID(r.Context())))
	}
}

func (h *DashboardHandler) response(snap *services.Snapshot, stale bool) api.DashboardResponse {
	fallbacks := snap.Fallbacks
	if fallbacks == nil {
		fallbacks = []string{}
	}
	return api.DashboardResponse{
		Record:    snap.Record,
		Totals:    snap.Record.Totals(),
		LoadedAt:  snap.LoadedAt,
		Source:    snap.Source,
		Fallbacks: fallbacks,
		Stale:     stale,
	}
}
