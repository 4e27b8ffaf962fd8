// Package services implements the load cycle behind the dashboard.
//
// DashboardService fetches the daily export through a source.Fetcher, extracts
// it with a dataprocessing.Extractor and publishes the result as an immutable
// Snapshot. A failed cycle leaves the previous snapshot in place and marks the
// status stale. Refresher drives the cycle on a fixed interval and skips ticks
// that arrive while a cycle is still running; manual refreshes share the
// running cycle instead of starting another.
//
//	svc := services.NewDashboardService(fetcher, extractor, logger,
//	    services.WithHub(hub), services.WithMetrics(metrics))
//	r := services.NewRefresher(svc, cfg.Source.RefreshInterval, metrics, logger)
//	if err := r.Start(ctx); err != nil {
//	    return err
//	}
//	defer r.Stop()
//
// HealthService reports liveness and readiness. The service is ready once a
// record has been loaded, including when that record is stale.
package services
