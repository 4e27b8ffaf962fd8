package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"

	"proddash/internal/config"
	"proddash/internal/dashboard"
	"proddash/internal/dataprocessing"
	apperrors "proddash/internal/errors"
	"proddash/internal/exporter"
	"proddash/internal/infrastructure"
	customMiddleware "proddash/internal/middleware"
	"proddash/internal/services"
	"proddash/internal/source"
	handlers "proddash/internal/transport/http"
	ws "proddash/internal/websocket"
)

// BuildTime is set at compile time
var BuildTime = ""

// Application wires every component of the dashboard server.
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.DashboardMetrics

	Source        source.Fetcher
	Dashboard     *services.DashboardService
	Refresher     *services.Refresher
	HealthService *services.HealthService
	WebSocketHub  *ws.Hub
	Exporter      *exporter.Exporter
	Renderer      *dashboard.Renderer
	Watcher       *source.Watcher

	mu       sync.Mutex
	listener net.Listener
	cancel   context.CancelFunc
	bg       sync.WaitGroup
	serveErr chan error
}

// NewApplication builds the application from cfg. A nil logger means the
// global logger configured from cfg.Logging.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, apperrors.NewConfigError("configuration is required", nil)
	}
	if logger == nil {
		var err error
		logger, err = infrastructure.InitializeLogger(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.Version),
		slog.String("source", cfg.Source.URL),
		slog.String("extract_mode", cfg.Extract.Mode))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry, config.Version), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateDashboardMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
	}

	if err := a.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.setupRouter()
	a.createServer()

	return a, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	fetcher, err := source.New(a.Config.Source, a.Logger)
	if err != nil {
		return err
	}
	a.Source = fetcher

	extractor := dataprocessing.NewExtractor(dataprocessing.Mode(a.Config.Extract.Mode), a.Logger)

	a.WebSocketHub = ws.NewHub(a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.Metrics, a.Logger)

	a.Dashboard = services.NewDashboardService(fetcher, extractor, a.Logger,
		services.WithHub(a.WebSocketHub),
		services.WithMetrics(a.Metrics))

	a.Refresher = services.NewRefresher(a.Dashboard, a.Config.Source.RefreshInterval, a.Metrics, a.Logger)

	a.HealthService = services.NewHealthService(config.Version, BuildTime, a.Dashboard, a.WebSocketHub, a.Logger)

	a.Exporter = exporter.NewExporter(config.AppName, a.Logger)

	renderer, err := dashboard.NewRenderer()
	if err != nil {
		return err
	}
	a.Renderer = renderer

	if a.Config.Source.Watch {
		if fs, ok := fetcher.(*source.FileSource); ok {
			a.Watcher = source.NewWatcher(fs.Path(), source.DefaultDebounce, a.Logger)
		} else {
			a.Logger.Warn("source.watch ignored for non-file source",
				slog.String("source", fetcher.Location()))
		}
	}

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apperrors.NewErrorHandler(a.Logger, false)

	// Only middleware that leaves the ResponseWriter alone runs before /ws,
	// so the upgrade can hijack the connection.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)

	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Handle("/ws", a.WebSocketHub)

	if a.OTelProviders.MetricsHandler != nil {
		r.Handle("/metrics", a.OTelProviders.MetricsHandler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		// Recovery sits inside OTel and the logger so a panic still gets a span and a log line.
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(apperrors.RecoveryMiddleware(errorHandler))
		r.Use(customMiddleware.Compress(5))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

		dashboardHandler := handlers.NewDashboardHandler(a.Dashboard, a.Renderer, a.Exporter, errorHandler,
			handlers.PageOptions{
				RefreshInterval: a.Config.Source.RefreshInterval,
				LiveUpdates:     true,
			}, a.Logger)
		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

		r.Get("/", dashboardHandler.Page)

		r.Route("/api", func(r chi.Router) {
			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/health/ready", healthHandler.ReadinessCheck)
			r.Get("/health/live", healthHandler.LivenessCheck)
			r.Get("/version", healthHandler.Version)

			r.Mount("/dashboard", dashboardHandler.Routes())
		})
	})

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Address(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start binds the listen address and starts the hub, the refresher, the
// file watcher and the HTTP server. It returns once the server accepts
// connections; the first load cycle runs in the background.
func (a *Application) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.listener != nil {
		return errors.New("application already started")
	}

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = ln

	bgCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a.cancel = cancel

	a.WebSocketHub.Start()

	if err := a.Refresher.Start(bgCtx); err != nil {
		cancel()
		ln.Close()
		return err
	}

	if a.Watcher != nil {
		a.bg.Add(1)
		go func() {
			defer a.bg.Done()
			err := a.Watcher.Run(bgCtx, func(ctx context.Context) {
				if _, err := a.Dashboard.Refresh(ctx); err != nil {
					a.Logger.DebugContext(ctx, "refresh after file change failed", slog.String("error", err.Error()))
				}
			})
			if err != nil {
				a.Logger.ErrorContext(bgCtx, "source watcher stopped", slog.String("error", err.Error()))
			}
		}()
	}

	a.serveErr = make(chan error, 1)
	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(bgCtx, "Server error", slog.String("error", err.Error()))
			a.serveErr <- err
		}
		close(a.serveErr)
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", "http://"+ln.Addr().String()),
		slog.Duration("refresh_interval", a.Config.Source.RefreshInterval),
		slog.Bool("watch", a.Watcher != nil))

	return nil
}

// Addr is the bound listen address, or "" before Start.
func (a *Application) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	a.Refresher.Stop()

	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	a.mu.Unlock()
	a.bg.Wait()

	a.WebSocketHub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run starts the application and blocks until ctx is cancelled, SIGINT or
// SIGTERM arrives, or the server fails, then shuts down.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Received shutdown signal")
	case serveErr = <-a.serveErr:
	}

	if err := a.Stop(context.WithoutCancel(ctx)); err != nil {
		return errors.Join(serveErr, err)
	}
	return serveErr
}
