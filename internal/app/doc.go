// Package app wires the dashboard server together and manages its lifecycle.
//
// NewApplication builds, in order: telemetry and metrics, the source fetcher
// and extractor, the WebSocket hub, the dashboard service and its refresher,
// the health service, the page renderer and exporter, and finally the chi
// router and HTTP server. Nothing runs until Start.
//
// Start binds the listen address before returning, so Addr is usable at
// once, then starts the hub, the refresher (which kicks off the first load
// cycle), the optional file watcher and the server. Stop reverses that
// order within Server.ShutdownTimeout. Run wraps both and stops on SIGINT
// or SIGTERM.
//
//	cfg, err := config.Load()
//	...
//	a, err := app.NewApplication(cfg, nil)
//	...
//	if err := a.Run(ctx); err != nil {
//		...
//	}
package app
